package decision

import (
	"testing"
	"time"

	"github.com/HerbHall/millwright/pkg/maint"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestTimeline_HealthyMachine(t *testing.T) {
	t.Parallel()

	tl := Timeline(90, 120, testNow)

	if tl.HoursRemaining != 120 {
		t.Errorf("HoursRemaining = %v, want 120", tl.HoursRemaining)
	}
	if tl.DaysRemaining != 5 {
		t.Errorf("DaysRemaining = %v, want 5", tl.DaysRemaining)
	}
	if tl.ProgressPercent != 10 {
		t.Errorf("ProgressPercent = %v, want 10", tl.ProgressPercent)
	}

	// rate = (100-90)/120; warning crossing = (90-70)/rate = 240h.
	wantWarning := testNow.Add(240 * time.Hour)
	if !tl.WarningThresholdTime.Equal(wantWarning) {
		t.Errorf("WarningThresholdTime = %v, want %v", tl.WarningThresholdTime, wantWarning)
	}
	// critical crossing = (90-40)/rate = 600h.
	wantCritical := testNow.Add(600 * time.Hour)
	if !tl.CriticalThresholdTime.Equal(wantCritical) {
		t.Errorf("CriticalThresholdTime = %v, want %v", tl.CriticalThresholdTime, wantCritical)
	}
	if !tl.EstimatedFailureTime.Equal(testNow.Add(120 * time.Hour)) {
		t.Errorf("EstimatedFailureTime = %v", tl.EstimatedFailureTime)
	}
}

func TestTimeline_WarningMachineCrossedAlready(t *testing.T) {
	t.Parallel()

	tl := Timeline(55, 80, testNow)
	if !tl.WarningThresholdTime.Equal(testNow) {
		t.Errorf("WarningThresholdTime = %v, want now for health below 70", tl.WarningThresholdTime)
	}
	if !tl.CriticalThresholdTime.After(testNow) {
		t.Errorf("CriticalThresholdTime = %v, want after now", tl.CriticalThresholdTime)
	}
}

func TestTimeline_CriticalMachineBothCrossed(t *testing.T) {
	t.Parallel()

	tl := Timeline(20, 10, testNow)
	if !tl.WarningThresholdTime.Equal(testNow) || !tl.CriticalThresholdTime.Equal(testNow) {
		t.Errorf("threshold times = %v / %v, want both at now",
			tl.WarningThresholdTime, tl.CriticalThresholdTime)
	}
	if tl.ProgressPercent != 80 {
		t.Errorf("ProgressPercent = %v, want 80", tl.ProgressPercent)
	}
}

func TestTimeline_HorizonCapped(t *testing.T) {
	t.Parallel()

	// Near-perfect health with a huge RUL extrapolates decades out; the
	// timeline caps everything at one year.
	tl := Timeline(99.9, 100000, testNow)
	horizon := testNow.Add(365 * 24 * time.Hour)

	for name, ts := range map[string]time.Time{
		"EstimatedFailureTime":  tl.EstimatedFailureTime,
		"WarningThresholdTime":  tl.WarningThresholdTime,
		"CriticalThresholdTime": tl.CriticalThresholdTime,
	} {
		if ts.After(horizon) {
			t.Errorf("%s = %v, beyond one-year horizon", name, ts)
		}
	}
}

func TestTimeline_ZeroRULRateFloor(t *testing.T) {
	t.Parallel()

	// RUL of zero must not divide by zero.
	tl := Timeline(50, 0, testNow)
	if tl.HoursRemaining != 0 {
		t.Errorf("HoursRemaining = %v, want 0", tl.HoursRemaining)
	}
	if !tl.EstimatedFailureTime.Equal(testNow) {
		t.Errorf("EstimatedFailureTime = %v, want now", tl.EstimatedFailureTime)
	}
}

func TestTimeline_FieldsPopulated(t *testing.T) {
	t.Parallel()

	var zero maint.FailureTimeline
	tl := Timeline(60, 48, testNow)
	if tl == zero {
		t.Fatal("Timeline returned zero value")
	}
	if !tl.Now.Equal(testNow) {
		t.Errorf("Now = %v, want %v", tl.Now, testNow)
	}
}
