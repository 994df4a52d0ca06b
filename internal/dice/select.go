package dice

// WinThreshold is the advantage a contestant needs over the current champion
// to replace it. An advantage of exactly 1 keeps the champion.
const WinThreshold = 1

// Advantage scores contestant against champion. Positive values favour the
// contestant, negative values the champion and 0 means they are equal.
// Options of different kinds are never comparable and score 0.
//
// RollMultiple and Discard add one point per criterion the contestant does
// not lose (fewer or equal dice, lower or equal discard threshold, smaller or
// equal die) and subtract one per criterion it loses, giving -2..2.
// MultiplyDivideDiscard uses the truncated difference of their scores.
func Advantage(contestant, champion Option) int {
	if contestant.Kind != champion.Kind || contestant.Equal(champion) {
		return 0
	}
	switch contestant.Kind {
	case KindRollMultiple:
		return criterion(contestant.Roll.Count, champion.Roll.Count) +
			criterion(contestant.Roll.Die.Sides, champion.Roll.Die.Sides)
	case KindDiscard:
		return criterion(contestant.DiscardAbove, champion.DiscardAbove) +
			criterion(contestant.Die.Sides, champion.Die.Sides)
	case KindMultiplyDivideDiscard:
		return int(Score(contestant) - Score(champion))
	default:
		return 0
	}
}

// criterion is -1 when the contestant's value is larger and 1 otherwise.
func criterion(contestant, champion int) int {
	if contestant > champion {
		return -1
	}
	return 1
}

// Score rates a compound option by the work it asks of the user: compound
// range times dice rolled times the expected attempts per kept result.
// Non-compound options score 0.
func Score(o Option) float64 {
	if o.Kind != KindMultiplyDivideDiscard {
		return 0
	}
	compound := float64(o.Compound())
	kept := compound - float64(o.DiscardAbove)
	if kept <= 0 {
		return 0
	}
	discardRatio := compound / kept
	return compound * float64(o.DiceCount()) * discardRatio
}

// Selection holds the champion of each option family.
type Selection struct {
	champions map[Kind]Option
}

// Select runs every option against the running champion of its family, in
// order. The first option of a family starts as champion and is replaced
// only by an option whose Advantage exceeds WinThreshold.
func Select(options []Option) Selection {
	s := Selection{champions: map[Kind]Option{}}
	for _, option := range options {
		champion, ok := s.champions[option.Kind]
		if !ok || Advantage(option, champion) > WinThreshold {
			s.champions[option.Kind] = option
		}
	}
	return s
}

// Best returns the champion of a family.
func (s Selection) Best(kind Kind) (Option, bool) {
	option, ok := s.champions[kind]
	return option, ok
}

// Winners returns the champions in presentation order.
func (s Selection) Winners() []Option {
	var out []Option
	for _, kind := range Kinds {
		if option, ok := s.champions[kind]; ok {
			out = append(out, option)
		}
	}
	return out
}

// Empty reports whether no family produced a candidate.
func (s Selection) Empty() bool {
	return len(s.champions) == 0
}

// Preferred picks the option to carry out when a single procedure is needed:
// a compound option first, then a discard, then a single-die roll multiple.
func (s Selection) Preferred() (Option, bool) {
	if option, ok := s.champions[KindMultiplyDivideDiscard]; ok {
		return option, true
	}
	if option, ok := s.champions[KindDiscard]; ok {
		return option, true
	}
	if option, ok := s.champions[KindRollMultiple]; ok && option.Roll.Count == 1 {
		return option, true
	}
	return Option{}, false
}
