// Package main reports the translation status of the embedded catalogs.
package main

import (
	"flag"
	"os"

	"github.com/louisbranch/dice-instructor/internal/platform/config"
	i18ncatalog "github.com/louisbranch/dice-instructor/internal/platform/i18n/catalog"
	"github.com/louisbranch/dice-instructor/internal/tools/i18nstatus"
)

func main() {
	baseLocale := flag.String("base-locale", i18ncatalog.BaseLocale, "base locale used as translation source of truth")
	asJSON := flag.Bool("json", false, "write the report as JSON")
	strict := flag.Bool("strict", false, "exit with an error when any locale is incomplete")
	flag.Parse()

	bundle, err := i18ncatalog.LoadEmbedded()
	if err != nil {
		config.Exitf("load i18n catalogs: %v", err)
	}
	report, err := i18nstatus.Build(bundle, *baseLocale)
	if err != nil {
		config.Exitf("build report: %v", err)
	}

	write := i18nstatus.WriteText
	if *asJSON {
		write = i18nstatus.WriteJSON
	}
	if err := write(os.Stdout, report); err != nil {
		config.Exitf("write report: %v", err)
	}
	if *strict && !report.Complete() {
		config.Exitf("catalogs are incomplete")
	}
}
