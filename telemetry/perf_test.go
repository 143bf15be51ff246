package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseAct)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseReap)
		time.Sleep(200 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration")
	}
	if stats.MinStepDuration > stats.AvgStepDuration || stats.AvgStepDuration > stats.MaxStepDuration {
		t.Errorf("min %v avg %v max %v out of order", stats.MinStepDuration, stats.AvgStepDuration, stats.MaxStepDuration)
	}
	if _, ok := stats.PhasePct[PhaseAct]; !ok {
		t.Error("expected act phase to be tracked")
	}
	if _, ok := stats.PhasePct[PhaseReap]; !ok {
		t.Error("expected reap phase to be tracked")
	}
	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseStatus)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseAct)
		time.Sleep(2 * time.Millisecond)
		pc.EndStep()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseAct] <= stats.PhasePct[PhaseStatus] {
		t.Errorf("expected act (%v%%) > status (%v%%)", stats.PhasePct[PhaseAct], stats.PhasePct[PhaseStatus])
	}

	row := stats.ToCSV(50)
	if row.WindowEnd != 50 || row.ActPct != stats.PhasePct[PhaseAct] {
		t.Errorf("ToCSV() = %+v", row)
	}
}

func TestPerfCollector_EmptyAndNil(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgStepDuration != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}

	var pc *PerfCollector
	pc.StartStep()
	pc.StartPhase(PhaseAct)
	pc.EndStep()
	if pc.Stats().PhasePct == nil {
		t.Error("nil collector returned nil PhasePct")
	}
}
