package instructor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/dice-instructor/internal/dice"
	apperrors "github.com/louisbranch/dice-instructor/internal/platform/errors"
	"github.com/louisbranch/dice-instructor/internal/random"
	"github.com/louisbranch/dice-instructor/internal/settings"
)

// Command words.
const (
	CommandCalc            = "calc"
	CommandRoll            = "roll"
	CommandSetDice         = "setDice"
	CommandSetMaxRollCount = "setMaxRollCount"
	CommandShow            = "show"
	CommandExample         = "example"
	CommandHelp            = "help"
	CommandExit            = "exit"
)

type command struct {
	needsArgs bool
	stop      bool
	run       func(i *Instructor, ctx context.Context, args string) error
}

var commands = map[string]command{
	CommandCalc:            {needsArgs: true, run: (*Instructor).calc},
	CommandRoll:            {needsArgs: true, run: (*Instructor).roll},
	CommandSetDice:         {needsArgs: true, run: (*Instructor).setDice},
	CommandSetMaxRollCount: {needsArgs: true, run: (*Instructor).setMaxRollCount},
	CommandShow:            {run: (*Instructor).show},
	CommandExample:         {run: (*Instructor).example},
	CommandHelp:            {run: (*Instructor).help},
	CommandExit:            {stop: true},
}

func (i *Instructor) calc(ctx context.Context, args string) error {
	target, err := ParseTarget(args)
	if err != nil {
		return err
	}
	selection, err := Plan(ctx, target, i.settings)
	if err != nil {
		return err
	}
	fmt.Fprint(i.out, i.presenter.Instructions(target, selection))
	return nil
}

func (i *Instructor) roll(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) > 2 {
		return apperrors.WithMetadata(
			apperrors.CodeSeedInvalid,
			"too many roll arguments",
			map[string]string{"Input": strings.Join(fields[1:], " ")},
		)
	}
	target, err := ParseTarget(fields[0])
	if err != nil {
		return err
	}
	seedInput := ""
	if len(fields) == 2 {
		seedInput = fields[1]
	}
	seed, err := i.seed(seedInput)
	if err != nil {
		return err
	}

	result, err := Roll(ctx, target, i.settings, seed)
	if err != nil {
		return err
	}
	fmt.Fprint(i.out, i.presenter.Option(result.Option)+"\n"+i.presenter.Outcome(target, result.Outcome, result.Seed))
	return nil
}

func (i *Instructor) setDice(ctx context.Context, args string) error {
	available, err := settings.ParseDiceList(args)
	if err != nil {
		return err
	}
	next, err := i.settings.WithAvailableDice(available)
	if err != nil {
		return err
	}
	if err := i.save(ctx, next); err != nil {
		return err
	}
	i.settings = next
	i.println(i.presenter.Text("commands.dice_updated", DiceLabels(next.AvailableDice())))
	return nil
}

func (i *Instructor) setMaxRollCount(ctx context.Context, args string) error {
	count, err := settings.ParseMaxRollCount(args)
	if err != nil {
		return err
	}
	next, err := i.settings.WithMaxRollCount(count)
	if err != nil {
		return err
	}
	if next.Discouraged() {
		i.println(i.presenter.Text("commands.roll_count_warning"))
	}
	if err := i.save(ctx, next); err != nil {
		return err
	}
	i.settings = next
	i.println(i.presenter.Text("commands.roll_count_updated", next.MaxRollCount()))
	return nil
}

func (i *Instructor) show(context.Context, string) error {
	i.println(i.presenter.Text("commands.settings", DiceLabels(i.settings.AvailableDice()), i.settings.MaxRollCount()))
	return nil
}

func (i *Instructor) example(context.Context, string) error {
	fmt.Fprint(i.out, i.presenter.Example())
	return nil
}

func (i *Instructor) help(context.Context, string) error {
	i.println(i.presenter.Text("commands.help"))
	return nil
}

func (i *Instructor) save(ctx context.Context, next settings.Settings) error {
	if i.store == nil {
		return nil
	}
	if err := i.store.Save(ctx, next); err != nil {
		if apperrors.IsCode(err, apperrors.CodeSettingsStoreFailed) {
			return err
		}
		return apperrors.Wrap(apperrors.CodeSettingsStoreFailed, "save settings", err)
	}
	return nil
}

// ParseTarget parses the side count of the die to simulate.
func ParseTarget(input string) (int, error) {
	target, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, apperrors.WrapWithMetadata(
			apperrors.CodeTargetInvalid,
			"parse target die",
			map[string]string{"Input": input},
			err,
		)
	}
	return target, nil
}

// DiceLabels renders side counts as "d4, d6, d8".
func DiceLabels(sides []int) string {
	labels := make([]string, len(sides))
	for idx, s := range sides {
		labels[idx] = dice.Die{Sides: s}.String()
	}
	return strings.Join(labels, ", ")
}

func resolveSeed(input string) (int64, error) {
	return random.Resolve(input)
}
