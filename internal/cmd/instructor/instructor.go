// Package instructor parses instructor command flags and runs the command
// loop or a single calculation.
package instructor

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/louisbranch/dice-instructor/internal/instructor"
	entrypoint "github.com/louisbranch/dice-instructor/internal/platform/cmd"
	"github.com/louisbranch/dice-instructor/internal/settings"
	"github.com/louisbranch/dice-instructor/internal/settings/storage/sqlite"
)

// Config holds instructor command configuration.
type Config struct {
	AvailableDice string `env:"AVAILABLE_DICE" envDefault:"4,6,8,10,12,20,100"`
	MaxRollCount  int    `env:"MAX_ROLL_COUNT" envDefault:"3"`
	Locale        string `env:"LOCALE"         envDefault:"en-US"`
	DBPath        string `env:"DB_PATH"`
	// Calc runs one calculation and exits instead of starting the loop.
	Calc string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.AvailableDice, "dice", cfg.AvailableDice, "comma separated list of available dice sides")
	fs.IntVar(&cfg.MaxRollCount, "max-roll-count", cfg.MaxRollCount, "maximum number of dice in a compound roll")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "message locale (en-US or pt-BR)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite file that persists settings (empty keeps them in memory)")
	fs.StringVar(&cfg.Calc, "calc", cfg.Calc, "print instructions for this die and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Settings builds the starting settings from the configuration.
func (c Config) Settings() (settings.Settings, error) {
	available, err := settings.ParseDiceList(c.AvailableDice)
	if err != nil {
		return settings.Settings{}, err
	}
	return settings.New(available, c.MaxRollCount)
}

// Run starts the instructor. Settings saved in the database take precedence
// over the configured ones.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if errOut == nil {
		errOut = io.Discard
	}
	current, err := cfg.Settings()
	if err != nil {
		return fmt.Errorf("configure settings: %w", err)
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceInstructor, func(ctx context.Context) error {
		var store settings.Store
		if cfg.DBPath != "" {
			sqliteStore, err := sqlite.Open(ctx, cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open settings store: %w", err)
			}
			defer func() {
				if err := sqliteStore.Close(); err != nil {
					log.New(errOut, "", 0).Printf("close settings store: %v", err)
				}
			}()
			saved, found, err := sqliteStore.Load(ctx)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			if found {
				current = saved
			}
			store = sqliteStore
		}

		inst := instructor.New(instructor.Config{
			Settings: current,
			Store:    store,
			Locale:   cfg.Locale,
			Out:      out,
			ErrOut:   errOut,
		})
		if cfg.Calc != "" {
			_, err := inst.Execute(ctx, instructor.CommandCalc+" "+cfg.Calc)
			return err
		}
		return inst.Run(ctx, in)
	})
}
