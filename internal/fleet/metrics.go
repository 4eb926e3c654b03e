package fleet

import "github.com/prometheus/client_golang/prometheus"

// Prometheus fleet metrics, updated on each sweep.
var (
	fleetAvgHealth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "millwright_fleet_avg_health_percent",
			Help: "Average health percentage across the fleet.",
		},
	)
	fleetMachines = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "millwright_fleet_machines",
			Help: "Number of machines in each fleet status tier.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(fleetAvgHealth)
	prometheus.MustRegister(fleetMachines)
}
