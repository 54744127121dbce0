package engine

import "testing"

func TestCanPlay(t *testing.T) {
	cases := []struct {
		name      string
		card      Card
		topType   Type
		topValue  int8
		effective Color
		want      bool
	}{
		{
			name:      "color match number",
			card:      Card{Color: ColorRed, Type: TypeNumber, Value: 3},
			topType:   TypeNumber, topValue: 7, effective: ColorRed,
			want: true,
		},
		{
			name:      "value match across colors",
			card:      Card{Color: ColorBlue, Type: TypeNumber, Value: 7},
			topType:   TypeNumber, topValue: 7, effective: ColorRed,
			want: true,
		},
		{
			name:      "no color or value match",
			card:      Card{Color: ColorBlue, Type: TypeNumber, Value: 3},
			topType:   TypeNumber, topValue: 7, effective: ColorRed,
			want: false,
		},
		{
			name:      "action type match across colors",
			card:      Card{Color: ColorGreen, Type: TypeSkip},
			topType:   TypeSkip, topValue: 0, effective: ColorYellow,
			want: true,
		},
		{
			name:      "action color match",
			card:      Card{Color: ColorYellow, Type: TypeDrawTwo},
			topType:   TypeNumber, topValue: 5, effective: ColorYellow,
			want: true,
		},
		{
			name:      "action no match",
			card:      Card{Color: ColorGreen, Type: TypeReverse},
			topType:   TypeSkip, topValue: 0, effective: ColorYellow,
			want: false,
		},
		{
			name:      "wild always playable",
			card:      Card{Color: ColorWild, Type: TypeWild},
			topType:   TypeNumber, topValue: 5, effective: ColorYellow,
			want: true,
		},
		{
			name:      "wild draw four always playable",
			card:      Card{Color: ColorWild, Type: TypeWildDrawFour},
			topType:   TypeSkip, topValue: 0, effective: ColorGreen,
			want: true,
		},
		{
			name:      "effective color governs after a wild top",
			card:      Card{Color: ColorBlue, Type: TypeNumber, Value: 2},
			topType:   TypeWild, topValue: 0, effective: ColorBlue,
			want: true,
		},
		{
			name:      "wild top blocks off-color number",
			card:      Card{Color: ColorRed, Type: TypeNumber, Value: 2},
			topType:   TypeWild, topValue: 0, effective: ColorBlue,
			want: false,
		},
		{
			name:      "number does not value-match an action top",
			card:      Card{Color: ColorRed, Type: TypeNumber, Value: 0},
			topType:   TypeSkip, topValue: 0, effective: ColorBlue,
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanPlay(tc.card, tc.topType, tc.topValue, tc.effective)
			if got != tc.want {
				t.Errorf("CanPlay(%v, %v, %d, %v) = %v, want %v",
					tc.card, tc.topType, tc.topValue, tc.effective, got, tc.want)
			}
		})
	}
}
