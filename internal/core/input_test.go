package core

import "testing"

func TestInputFrameSetHasClear(t *testing.T) {
	var f InputFrame
	if f.Has(ActionStop) {
		t.Error("zero frame should have no actions")
	}

	f.Set(ActionStop)
	if !f.Has(ActionStop) {
		t.Error("Set(ActionStop) should be visible through Has")
	}

	f.Clear()
	if f.Has(ActionStop) {
		t.Error("Clear should drop all actions")
	}
}

func TestInputFrameCloneIsIndependent(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionPause)

	clone := f.Clone()
	f.Clear()

	if !clone.Has(ActionPause) {
		t.Error("clone should keep actions after the original is cleared")
	}
}

func TestInputFrameMerge(t *testing.T) {
	a := NewInputFrame()
	a.Set(ActionStop)
	b := NewInputFrame()
	b.Set(ActionQuit)

	a.Merge(b)
	if !a.Has(ActionStop) || !a.Has(ActionQuit) {
		t.Errorf("Merge should OR actions, got %v", a.Actions)
	}
}

func TestMultiInputFramePress(t *testing.T) {
	m := NewMultiInputFrame()
	m.Press(Player3, ActionStop)

	if !m.Player(Player3).Has(ActionStop) {
		t.Error("Press should set the action for that slot")
	}
	if m.Player(Player1).Has(ActionStop) {
		t.Error("Press should not leak to other slots")
	}
	if !m.Any(ActionStop) {
		t.Error("Any should report a pressed action")
	}

	m.Clear()
	if m.Any(ActionStop) {
		t.Error("Clear should reset every slot")
	}
}

func TestPlayerIDString(t *testing.T) {
	tests := []struct {
		id       PlayerID
		expected string
	}{
		{Player1, "P1"},
		{Player2, "P2"},
		{Player4, "P4"},
	}
	for _, tc := range tests {
		if got := tc.id.String(); got != tc.expected {
			t.Errorf("%d.String() = %q, expected %q", int(tc.id), got, tc.expected)
		}
	}

	if PlayerID(-1).Valid() || PlayerID(MaxPlayers).Valid() {
		t.Error("out-of-range slots should be invalid")
	}
}

func TestTickSeconds(t *testing.T) {
	if got := (RuntimeConfig{TickRate: 50}).TickSeconds(); got != 0.02 {
		t.Errorf("TickSeconds() = %f, expected 0.02", got)
	}
	if got := (RuntimeConfig{}).TickSeconds(); got != 1.0/60.0 {
		t.Errorf("TickSeconds() with zero rate = %f, expected 1/60", got)
	}
}
