package fleet

// Event topics the fleet module emits.
const (
	// TopicSnapshotCompleted carries a maint.FleetStatus payload after each
	// background sweep.
	TopicSnapshotCompleted = "fleet.snapshot.completed"
	// TopicMachineRegistered carries a MachineConfig payload.
	TopicMachineRegistered = "fleet.machine.registered"
	// TopicMachineRemoved carries the removed machine ID as a string payload.
	TopicMachineRemoved = "fleet.machine.removed"
)
