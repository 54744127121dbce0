package engine

import "fmt"

// Direction is the order in which turns travel around the table.
type Direction uint8

const (
	Clockwise Direction = iota
	CounterClockwise
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Clockwise {
		return CounterClockwise
	}
	return Clockwise
}

func (d Direction) String() string {
	if d == Clockwise {
		return "clockwise"
	}
	return "counter_clockwise"
}

// ParseDirection converts a wire/database string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "clockwise":
		return Clockwise, nil
	case "counter_clockwise":
		return CounterClockwise, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Step advances a 1-indexed turn order by k seats in direction d on a ring of
// n players. Clockwise increments turn order; counter-clockwise decrements.
func Step(order, k, n int, d Direction) int {
	if d == CounterClockwise {
		k = -k
	}
	return ((order-1+k)%n+n)%n + 1
}

// Resolution is the outcome of playing a card: who acts next, the possibly
// flipped direction, and any forced draws applied before the turn advances.
type Resolution struct {
	NextOrder   int       // turn order of the next actor
	Direction   Direction // direction after the play
	TargetOrder int       // seat forced to draw, 0 when none
	ForcedDraws int       // cards the target must draw
}

// Resolve computes the turn transition for a played card type. All stepping is
// modulo-n ring arithmetic on 1-indexed turn orders, so the two-player special
// cases collapse naturally: skip and draw cards step past the sole opponent
// back to the actor, and a reverse flip still leaves the opponent next.
func Resolve(numPlayers, current int, dir Direction, played Type) Resolution {
	r := Resolution{Direction: dir}
	switch played {
	case TypeNumber, TypeWild:
		r.NextOrder = Step(current, 1, numPlayers, dir)
	case TypeReverse:
		// Direction flips first; the step is taken in the new direction.
		r.Direction = dir.Flip()
		r.NextOrder = Step(current, 1, numPlayers, r.Direction)
	case TypeSkip:
		r.NextOrder = Step(current, 2, numPlayers, dir)
	case TypeDrawTwo, TypeWildDrawFour:
		// The immediate neighbor draws, then is skipped.
		r.TargetOrder = Step(current, 1, numPlayers, dir)
		r.ForcedDraws = 2
		if played == TypeWildDrawFour {
			r.ForcedDraws = 4
		}
		r.NextOrder = Step(current, 2, numPlayers, dir)
	}
	return r
}
