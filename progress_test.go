package ppttranslator

import "testing"

func TestProgressAccountant_Checkpoints(t *testing.T) {
	acct := NewProgressAccountant()

	steps := []struct {
		value int
		want  int
	}{
		{checkpointLoading, 5},
		{checkpointOpened, 10},
		{checkpointAnalyzed, 15},
		{checkpointSaving, 90},
		{checkpointNamed, 95},
		{checkpointWritten, 98},
		{checkpointDone, 100},
	}
	for _, s := range steps {
		if got := acct.Checkpoint(s.value); got != s.want {
			t.Errorf("Checkpoint(%d) = %d, want %d", s.value, got, s.want)
		}
	}
}

func TestProgressAccountant_UnitDone(t *testing.T) {
	acct := NewProgressAccountant()
	acct.SetTotal(4)
	acct.Checkpoint(checkpointAnalyzed)

	want := []int{32, 50, 67, 85}
	for i, w := range want {
		if got := acct.UnitDone(); got != w {
			t.Errorf("unit %d: UnitDone() = %d, want %d", i+1, got, w)
		}
	}
	if acct.Processed() != 4 {
		t.Errorf("Processed() = %d, want 4", acct.Processed())
	}
	if acct.Total() != 4 {
		t.Errorf("Total() = %d, want 4", acct.Total())
	}
}

func TestProgressAccountant_SlideStart(t *testing.T) {
	acct := NewProgressAccountant()

	if got := acct.SlideStart(0, 4); got != 15 {
		t.Errorf("SlideStart(0, 4) = %d, want 15", got)
	}
	if got := acct.SlideStart(2, 4); got != 50 {
		t.Errorf("SlideStart(2, 4) = %d, want 50", got)
	}
	// A slide base behind the high-water mark holds the mark.
	if got := acct.SlideStart(1, 4); got != 50 {
		t.Errorf("SlideStart(1, 4) after 50 = %d, want 50", got)
	}
	if got := acct.SlideStart(0, 0); got != 50 {
		t.Errorf("SlideStart with no slides = %d, want 50", got)
	}
}

func TestProgressAccountant_SingleUnitJumpsToSpanEnd(t *testing.T) {
	acct := NewProgressAccountant()
	acct.SetTotal(1)

	if got := acct.UnitDone(); got != 85 {
		t.Errorf("UnitDone() = %d, want 85", got)
	}
}

func TestProgressAccountant_ZeroTotal(t *testing.T) {
	acct := NewProgressAccountant()

	if got := acct.UnitDone(); got != translateFloor {
		t.Errorf("UnitDone() with no total = %d, want %d", got, translateFloor)
	}
	if got := acct.Checkpoint(checkpointDone); got != 100 {
		t.Errorf("Checkpoint(100) = %d, want 100", got)
	}
}

func TestProgressAccountant_Monotonic(t *testing.T) {
	acct := NewProgressAccountant()
	acct.SetTotal(10)

	if got := acct.Checkpoint(checkpointSaving); got != 90 {
		t.Fatalf("Checkpoint(90) = %d", got)
	}
	// A unit completion after the saving checkpoint cannot move progress back.
	if got := acct.UnitDone(); got != 90 {
		t.Errorf("UnitDone() after 90 = %d, want 90", got)
	}
	if got := acct.Checkpoint(checkpointLoading); got != 90 {
		t.Errorf("late low checkpoint = %d, want 90", got)
	}
}

func TestProgressAccountant_Clamps(t *testing.T) {
	acct := NewProgressAccountant()

	if got := acct.Checkpoint(-10); got != 0 {
		t.Errorf("Checkpoint(-10) = %d, want 0", got)
	}
	if got := acct.Checkpoint(250); got != 100 {
		t.Errorf("Checkpoint(250) = %d, want 100", got)
	}
}
