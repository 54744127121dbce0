// Package engine implements the Uno card game rules.
//
// The package is pure: card catalog, play legality, and turn resolution are
// value types and functions with no I/O, so the service layer can run them
// inside a transaction and tests can drive them directly.
package engine

import "fmt"

// Color identifies a card's printed color.
type Color uint8

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorWild
)

// Concrete reports whether the color is a real table color (not wild).
func (c Color) Concrete() bool { return c < ColorWild }

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorWild:
		return "wild"
	}
	return fmt.Sprintf("invalid_color(%d)", uint8(c))
}

// ParseColor converts a wire/database string to a Color.
func ParseColor(s string) (Color, error) {
	switch s {
	case "red":
		return ColorRed, nil
	case "green":
		return ColorGreen, nil
	case "blue":
		return ColorBlue, nil
	case "yellow":
		return ColorYellow, nil
	case "wild":
		return ColorWild, nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// Type identifies a card's kind.
type Type uint8

const (
	TypeNumber Type = iota
	TypeSkip
	TypeReverse
	TypeDrawTwo
	TypeWild
	TypeWildDrawFour
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeSkip:
		return "skip"
	case TypeReverse:
		return "reverse"
	case TypeDrawTwo:
		return "draw_two"
	case TypeWild:
		return "wild"
	case TypeWildDrawFour:
		return "wild_draw_four"
	}
	return fmt.Sprintf("invalid_type(%d)", uint8(t))
}

// ParseType converts a wire/database string to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "number":
		return TypeNumber, nil
	case "skip":
		return TypeSkip, nil
	case "reverse":
		return TypeReverse, nil
	case "draw_two":
		return TypeDrawTwo, nil
	case "wild":
		return TypeWild, nil
	case "wild_draw_four":
		return TypeWildDrawFour, nil
	}
	return 0, fmt.Errorf("unknown card type %q", s)
}

// Card is one face in the catalog. Value is meaningful only for TypeNumber.
type Card struct {
	Color Color
	Type  Type
	Value int8
}

// IsWild reports whether playing the card requires the player to choose a color.
func (c Card) IsWild() bool {
	return c.Type == TypeWild || c.Type == TypeWildDrawFour
}

func (c Card) String() string {
	if c.Type == TypeNumber {
		return fmt.Sprintf("%s %d", c.Color, c.Value)
	}
	return fmt.Sprintf("%s %s", c.Color, c.Type)
}

// DeckSize is the number of physical cards in a full deck.
const DeckSize = 108

// NewDeck returns the full card multiset, unshuffled:
// per color one 0, two each of 1-9, and two each of skip/reverse/draw_two;
// plus four wild and four wild_draw_four.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	colors := [4]Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}
	for _, color := range colors {
		deck = append(deck, Card{Color: color, Type: TypeNumber, Value: 0})
		for v := int8(1); v <= 9; v++ {
			deck = append(deck,
				Card{Color: color, Type: TypeNumber, Value: v},
				Card{Color: color, Type: TypeNumber, Value: v},
			)
		}
		for _, t := range [3]Type{TypeSkip, TypeReverse, TypeDrawTwo} {
			deck = append(deck,
				Card{Color: color, Type: t},
				Card{Color: color, Type: t},
			)
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, Card{Color: ColorWild, Type: TypeWild})
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, Card{Color: ColorWild, Type: TypeWildDrawFour})
	}
	return deck
}
