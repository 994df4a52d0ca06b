package dice

import "testing"

func TestDieAndRollStrings(t *testing.T) {
	die := Die{Sides: 12}
	if die.String() != "d12" {
		t.Fatalf("die string = %q, want d12", die.String())
	}
	roll := DiceRoll{Die: Die{Sides: 6}, Count: 2}
	if roll.String() != "2d6" {
		t.Fatalf("roll string = %q, want 2d6", roll.String())
	}
	if (Die{Sides: 1}).Valid() {
		t.Fatal("expected d1 to be invalid")
	}
	if !(Die{Sides: 2}).Valid() {
		t.Fatal("expected d2 to be valid")
	}
}

// TestOptionAccessors ensures derived quantities follow the option kind.
func TestOptionAccessors(t *testing.T) {
	tcs := []struct {
		name      string
		option    Option
		sides     []int
		compound  int
		discardPc float64
	}{
		{
			name:     "roll multiple",
			option:   RollMultiple(DiceRoll{Die: Die{Sides: 4}, Count: 3}),
			sides:    []int{4, 4, 4},
			compound: 64,
		},
		{
			name:      "discard",
			option:    Discard(Die{Sides: 10}, 5),
			sides:     []int{10},
			compound:  10,
			discardPc: 50,
		},
		{
			name: "multiply divide discard",
			option: MultiplyDivideDiscard(7, 14, []DiceRoll{
				{Die: Die{Sides: 4}, Count: 2},
			}),
			sides:     []int{4, 4},
			compound:  16,
			discardPc: 12.5,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.option.Sides()
			if len(got) != len(tc.sides) {
				t.Fatalf("sides = %v, want %v", got, tc.sides)
			}
			for i := range got {
				if got[i] != tc.sides[i] {
					t.Fatalf("sides = %v, want %v", got, tc.sides)
				}
			}
			if tc.option.DiceCount() != len(tc.sides) {
				t.Fatalf("dice count = %d, want %d", tc.option.DiceCount(), len(tc.sides))
			}
			if tc.option.Compound() != tc.compound {
				t.Fatalf("compound = %d, want %d", tc.option.Compound(), tc.compound)
			}
			if tc.option.DiscardProbability() != tc.discardPc {
				t.Fatalf("discard probability = %v, want %v", tc.option.DiscardProbability(), tc.discardPc)
			}
		})
	}
}

func TestOptionEqual(t *testing.T) {
	a := MultiplyDivideDiscard(10, 70, []DiceRoll{{Die: Die{Sides: 6}, Count: 1}, {Die: Die{Sides: 12}, Count: 1}})
	b := MultiplyDivideDiscard(10, 70, []DiceRoll{{Die: Die{Sides: 6}, Count: 1}, {Die: Die{Sides: 12}, Count: 1}})
	c := MultiplyDivideDiscard(10, 70, []DiceRoll{{Die: Die{Sides: 12}, Count: 1}, {Die: Die{Sides: 6}, Count: 1}})

	if !a.Equal(b) {
		t.Fatal("expected identical options to be equal")
	}
	if a.Equal(c) {
		t.Fatal("expected roll order to matter")
	}
	if Discard(Die{Sides: 10}, 5).Equal(Discard(Die{Sides: 10}, 6)) {
		t.Fatal("expected different thresholds to differ")
	}
}

// TestMultiplyDivideDiscardCopiesRolls ensures options do not alias caller slices.
func TestMultiplyDivideDiscardCopiesRolls(t *testing.T) {
	rolls := []DiceRoll{{Die: Die{Sides: 6}, Count: 1}, {Die: Die{Sides: 12}, Count: 1}}
	option := MultiplyDivideDiscard(10, 70, rolls)
	rolls[0].Count = 5
	if option.RequiredRolls[0].Count != 1 {
		t.Fatalf("expected copied rolls, got %v", option.RequiredRolls)
	}
}

func TestKindString(t *testing.T) {
	tcs := map[Kind]string{
		KindUnspecified:           "unspecified",
		KindRollMultiple:          "roll_multiple",
		KindDiscard:               "discard",
		KindMultiplyDivideDiscard: "multiply_divide_discard",
	}
	for kind, want := range tcs {
		if kind.String() != want {
			t.Fatalf("kind %d string = %q, want %q", kind, kind.String(), want)
		}
	}
}
