// Package presenter renders dice options as numbered, localized instructions.
package presenter

import (
	"strconv"
	"strings"

	"github.com/louisbranch/dice-instructor/internal/dice"
	"github.com/louisbranch/dice-instructor/internal/platform/i18n/catalog"
	"golang.org/x/text/message"
)

// Divider separates the rendered option families.
const Divider = "-------------------------------------------"

// Presenter renders text for one locale.
type Presenter struct {
	locale  string
	printer *message.Printer
}

// New returns a presenter for locale. Unknown locales fall back to the base
// catalog locale.
func New(locale string) *Presenter {
	bundle := catalog.Default()
	tag := bundle.Tag(locale)
	return &Presenter{locale: tag.String(), printer: message.NewPrinter(tag)}
}

// Locale returns the resolved catalog locale.
func (p *Presenter) Locale() string {
	return p.locale
}

// Text formats a catalog message by key.
func (p *Presenter) Text(key string, args ...any) string {
	return p.printer.Sprintf(key, args...)
}

// Instructions renders every winner of selection, each followed by the
// divider, or the no-solution line when nothing was selected.
func (p *Presenter) Instructions(target int, selection dice.Selection) string {
	winners := selection.Winners()
	if len(winners) == 0 {
		return p.Text("instructions.no_solution", dice.Die{Sides: target}.String()) + "\n"
	}

	var b strings.Builder
	for _, option := range winners {
		b.WriteString(p.Option(option))
		b.WriteString("\n")
		b.WriteString(Divider)
		b.WriteString("\n")
	}
	return b.String()
}

// Option renders the procedure for a single option.
func (p *Presenter) Option(option dice.Option) string {
	switch option.Kind {
	case dice.KindRollMultiple:
		return p.Text("instructions.roll_multiple", option.Roll.String())
	case dice.KindDiscard:
		return p.Text("instructions.discard", option.Die.String(), option.DiscardAbove)
	case dice.KindMultiplyDivideDiscard:
		return strings.Join([]string{
			p.Text("instructions.mdd.roll", p.joinRolls(option.RequiredRolls)),
			p.Text("instructions.mdd.replace"),
			p.Formula(option.Sides()),
			p.Text("instructions.mdd.discard", option.DiscardAbove, option.DiscardProbability()),
			p.Text("instructions.mdd.divide", option.DivideBy),
		}, "\n")
	default:
		return ""
	}
}

// Formula renders the composition of the physical dice results, first die
// most significant: "(roll1 - 1) * 12 + roll2".
func (p *Presenter) Formula(sides []int) string {
	label := p.Text("instructions.roll_label")
	weights := dice.Weights(sides)
	terms := make([]string, len(weights))
	for i, weight := range weights {
		roll := label + strconv.Itoa(i+1)
		if i == len(weights)-1 {
			terms[i] = roll
			continue
		}
		terms[i] = "(" + roll + " - 1) * " + strconv.Itoa(weight)
	}
	return strings.Join(terms, " + ")
}

// Outcome renders the result of a simulated roll.
func (p *Presenter) Outcome(target int, outcome dice.Outcome, seed int64) string {
	rolls := make([]string, len(outcome.Rolls))
	for i, roll := range outcome.Rolls {
		rolls[i] = strconv.Itoa(roll)
	}
	return p.Text("instructions.outcome", dice.Die{Sides: target}.String(), outcome.Value) + "\n" +
		p.Text("instructions.outcome.details", strings.Join(rolls, ", "), outcome.Attempts, strconv.FormatInt(seed, 10)) + "\n"
}

// Example renders the worked example of the compound procedure.
func (p *Presenter) Example() string {
	return p.Text("instructions.example") + "\n"
}

// joinRolls lists rolls with ", " and the localized "and" before the last.
func (p *Presenter) joinRolls(rolls []dice.DiceRoll) string {
	if len(rolls) == 0 {
		return ""
	}
	parts := make([]string, len(rolls))
	for i, roll := range rolls {
		parts[i] = roll.String()
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + p.Text("instructions.join.and") + parts[len(parts)-1]
}
