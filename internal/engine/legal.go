package engine

// CanPlay reports whether card may legally be played onto the current discard
// state. The discard state is the top card's type and value plus the effective
// color in play, which differs from the top card's printed color after a wild.
//
// A card is playable when it is wild, when its color matches the effective
// color, when it is a number card matching the top number card's value, or
// when it is an action card matching the top card's type.
func CanPlay(card Card, topType Type, topValue int8, effective Color) bool {
	if card.IsWild() {
		return true
	}
	if card.Color == effective {
		return true
	}
	switch card.Type {
	case TypeNumber:
		return topType == TypeNumber && card.Value == topValue
	case TypeSkip, TypeReverse, TypeDrawTwo:
		return card.Type == topType
	case TypeWild, TypeWildDrawFour:
		// Unreachable: handled by the IsWild check above.
		return true
	}
	return false
}
