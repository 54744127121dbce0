package engine

import "testing"

func TestStepWraps(t *testing.T) {
	cases := []struct {
		order, k, n int
		d           Direction
		want        int
	}{
		{1, 1, 3, Clockwise, 2},
		{3, 1, 3, Clockwise, 1},
		{3, 2, 3, Clockwise, 2},
		{1, 1, 3, CounterClockwise, 3},
		{1, 2, 3, CounterClockwise, 2},
		{2, 2, 2, Clockwise, 2},
		{2, 1, 2, CounterClockwise, 1},
		{1, 2, 10, Clockwise, 3},
		{10, 1, 10, Clockwise, 1},
	}
	for _, tc := range cases {
		if got := Step(tc.order, tc.k, tc.n, tc.d); got != tc.want {
			t.Errorf("Step(%d, %d, %d, %v) = %d, want %d", tc.order, tc.k, tc.n, tc.d, got, tc.want)
		}
	}
}

// TestResolvePlainCard verifies a number card advances one seat in the current
// direction, wrapping around the ring.
func TestResolvePlainCard(t *testing.T) {
	r := Resolve(3, 3, Clockwise, TypeNumber)
	if r.NextOrder != 1 || r.Direction != Clockwise || r.ForcedDraws != 0 {
		t.Errorf("Resolve = %+v, want next 1 clockwise no draws", r)
	}

	r = Resolve(4, 1, CounterClockwise, TypeNumber)
	if r.NextOrder != 4 || r.Direction != CounterClockwise {
		t.Errorf("Resolve = %+v, want next 4 counter_clockwise", r)
	}
}

// TestResolveWildColorOnly verifies a plain wild behaves like a number card
// for turn purposes.
func TestResolveWildColorOnly(t *testing.T) {
	r := Resolve(3, 1, Clockwise, TypeWild)
	if r.NextOrder != 2 || r.ForcedDraws != 0 {
		t.Errorf("Resolve = %+v, want next 2 no draws", r)
	}
}

// TestResolveReverse verifies the flip happens before the step with three or
// more players.
func TestResolveReverse(t *testing.T) {
	r := Resolve(3, 1, Clockwise, TypeReverse)
	if r.Direction != CounterClockwise {
		t.Fatalf("direction = %v, want counter_clockwise", r.Direction)
	}
	if r.NextOrder != 3 {
		t.Errorf("next = %d, want 3 (one step in the new direction)", r.NextOrder)
	}
}

// TestResolveReverseTwoPlayers verifies the two-player rule: direction flips
// but the sole opponent is still next.
func TestResolveReverseTwoPlayers(t *testing.T) {
	r := Resolve(2, 1, Clockwise, TypeReverse)
	if r.Direction != CounterClockwise {
		t.Fatalf("direction = %v, want counter_clockwise", r.Direction)
	}
	if r.NextOrder != 2 {
		t.Errorf("next = %d, want 2 (flip is a no-op on turn order)", r.NextOrder)
	}
}

// TestResolveSkip verifies skip steps past exactly one player.
func TestResolveSkip(t *testing.T) {
	r := Resolve(4, 1, Clockwise, TypeSkip)
	if r.NextOrder != 3 {
		t.Errorf("next = %d, want 3", r.NextOrder)
	}

	r = Resolve(4, 1, CounterClockwise, TypeSkip)
	if r.NextOrder != 3 {
		t.Errorf("counter-clockwise next = %d, want 3", r.NextOrder)
	}
}

// TestResolveSkipTwoPlayers verifies the two-player rule: the opponent's turn
// is forfeited and the actor goes again.
func TestResolveSkipTwoPlayers(t *testing.T) {
	r := Resolve(2, 1, Clockwise, TypeSkip)
	if r.NextOrder != 1 {
		t.Errorf("next = %d, want 1 (actor retains the turn)", r.NextOrder)
	}
}

// TestResolveDrawTwo verifies the neighbor draws two and is skipped.
func TestResolveDrawTwo(t *testing.T) {
	r := Resolve(3, 1, Clockwise, TypeDrawTwo)
	if r.TargetOrder != 2 || r.ForcedDraws != 2 {
		t.Fatalf("target = %d draws %d, want 2 draws 2", r.TargetOrder, r.ForcedDraws)
	}
	if r.NextOrder != 3 {
		t.Errorf("next = %d, want 3 (target skipped)", r.NextOrder)
	}
}

// TestResolveWildDrawFour verifies four forced draws and the skip.
func TestResolveWildDrawFour(t *testing.T) {
	r := Resolve(3, 2, CounterClockwise, TypeWildDrawFour)
	if r.TargetOrder != 1 || r.ForcedDraws != 4 {
		t.Fatalf("target = %d draws %d, want 1 draws 4", r.TargetOrder, r.ForcedDraws)
	}
	if r.NextOrder != 3 {
		t.Errorf("next = %d, want 3", r.NextOrder)
	}
}

// TestResolveDrawTwoTwoPlayers verifies the two-player collapse: the opponent
// draws and the actor retains the turn.
func TestResolveDrawTwoTwoPlayers(t *testing.T) {
	r := Resolve(2, 2, Clockwise, TypeDrawTwo)
	if r.TargetOrder != 1 || r.ForcedDraws != 2 {
		t.Fatalf("target = %d draws %d, want 1 draws 2", r.TargetOrder, r.ForcedDraws)
	}
	if r.NextOrder != 2 {
		t.Errorf("next = %d, want 2 (actor retains the turn)", r.NextOrder)
	}
}

func TestDirectionFlip(t *testing.T) {
	if Clockwise.Flip() != CounterClockwise || CounterClockwise.Flip() != Clockwise {
		t.Error("Flip did not invert direction")
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range [2]Direction{Clockwise, CounterClockwise} {
		parsed, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("ParseDirection(%q): %v", d.String(), err)
		}
		if parsed != d {
			t.Errorf("ParseDirection(%q) = %v, want %v", d.String(), parsed, d)
		}
	}
	if _, err := ParseDirection("widdershins"); err == nil {
		t.Error("ParseDirection(widdershins) succeeded, want error")
	}
}
