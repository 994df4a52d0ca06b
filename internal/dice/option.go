package dice

// Kind identifies the family of a simulation option.
type Kind int

const (
	// KindUnspecified represents an invalid option.
	KindUnspecified Kind = iota
	// KindRollMultiple rolls a die whose sides divide the target.
	KindRollMultiple
	// KindDiscard rolls one larger die and re-rolls results above the target.
	KindDiscard
	// KindMultiplyDivideDiscard composes several dice, discards the remainder
	// range and divides the kept value down to the target range.
	KindMultiplyDivideDiscard
)

// Kinds lists the option families in presentation order.
var Kinds = []Kind{KindRollMultiple, KindDiscard, KindMultiplyDivideDiscard}

func (k Kind) String() string {
	switch k {
	case KindRollMultiple:
		return "roll_multiple"
	case KindDiscard:
		return "discard"
	case KindMultiplyDivideDiscard:
		return "multiply_divide_discard"
	default:
		return "unspecified"
	}
}

// Option is one candidate procedure for simulating a target die.
//
// Only the fields of the option's Kind are meaningful:
//
//   - KindRollMultiple: Roll.
//   - KindDiscard: Die and DiscardAbove.
//   - KindMultiplyDivideDiscard: DivideBy, DiscardAbove and RequiredRolls.
type Option struct {
	Kind          Kind
	Roll          DiceRoll
	Die           Die
	DivideBy      int
	DiscardAbove  int
	RequiredRolls []DiceRoll
}

// RollMultiple builds a roll-multiple option.
func RollMultiple(roll DiceRoll) Option {
	return Option{Kind: KindRollMultiple, Roll: roll}
}

// Discard builds a single-die discard option.
func Discard(die Die, discardAbove int) Option {
	return Option{Kind: KindDiscard, Die: die, DiscardAbove: discardAbove}
}

// MultiplyDivideDiscard builds a compound option. The rolls slice is copied.
func MultiplyDivideDiscard(divideBy, discardAbove int, rolls []DiceRoll) Option {
	return Option{
		Kind:          KindMultiplyDivideDiscard,
		DivideBy:      divideBy,
		DiscardAbove:  discardAbove,
		RequiredRolls: append([]DiceRoll(nil), rolls...),
	}
}

// Sides lists one entry per physical die rolled, in roll order.
func (o Option) Sides() []int {
	switch o.Kind {
	case KindRollMultiple:
		return repeat(o.Roll.Die.Sides, o.Roll.Count)
	case KindDiscard:
		return []int{o.Die.Sides}
	case KindMultiplyDivideDiscard:
		var sides []int
		for _, roll := range o.RequiredRolls {
			sides = append(sides, repeat(roll.Die.Sides, roll.Count)...)
		}
		return sides
	default:
		return nil
	}
}

// DiceCount is the number of physical dice rolled per attempt.
func (o Option) DiceCount() int {
	return len(o.Sides())
}

// Compound is the number of equally likely raw outcomes of one attempt.
func (o Option) Compound() int {
	sides := o.Sides()
	if len(sides) == 0 {
		return 0
	}
	compound := 1
	for _, s := range sides {
		compound *= s
	}
	return compound
}

// DiscardProbability is the percentage of attempts that must be re-rolled.
func (o Option) DiscardProbability() float64 {
	compound := o.Compound()
	if compound == 0 || o.Kind == KindRollMultiple {
		return 0
	}
	return 100 - float64(o.DiscardAbove)/float64(compound)*100
}

// Equal reports whether two options describe the same procedure.
func (o Option) Equal(other Option) bool {
	if o.Kind != other.Kind || o.Roll != other.Roll || o.Die != other.Die ||
		o.DivideBy != other.DivideBy || o.DiscardAbove != other.DiscardAbove ||
		len(o.RequiredRolls) != len(other.RequiredRolls) {
		return false
	}
	for i := range o.RequiredRolls {
		if o.RequiredRolls[i] != other.RequiredRolls[i] {
			return false
		}
	}
	return true
}

func repeat(value, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = value
	}
	return out
}
