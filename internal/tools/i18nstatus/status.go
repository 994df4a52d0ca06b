// Package i18nstatus compares every catalog locale against the base locale
// and reports untranslated and orphaned message keys.
package i18nstatus

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strings"

	i18ncatalog "github.com/louisbranch/dice-instructor/internal/platform/i18n/catalog"
)

// Report is the translation status of a catalog bundle.
type Report struct {
	BaseLocale string         `json:"base_locale"`
	Locales    []LocaleStatus `json:"locales"`
}

// LocaleStatus summarizes one locale against the base locale.
type LocaleStatus struct {
	Locale      string            `json:"locale"`
	BaseKeys    int               `json:"base_keys"`
	Translated  int               `json:"translated"`
	Completion  float64           `json:"completion"`
	Namespaces  []NamespaceStatus `json:"namespaces"`
	MissingKeys []string          `json:"missing_keys"`
	ExtraKeys   []string          `json:"extra_keys"`
}

// NamespaceStatus summarizes one namespace of a locale.
type NamespaceStatus struct {
	Namespace  string  `json:"namespace"`
	BaseKeys   int     `json:"base_keys"`
	Translated int     `json:"translated"`
	Completion float64 `json:"completion"`
}

// Complete reports whether every locale has exactly the base keys.
func (r Report) Complete() bool {
	for _, locale := range r.Locales {
		if len(locale.MissingKeys) > 0 || len(locale.ExtraKeys) > 0 {
			return false
		}
	}
	return true
}

// Build compares every locale of bundle with baseLocale.
func Build(bundle *i18ncatalog.Bundle, baseLocale string) (Report, error) {
	if bundle == nil {
		return Report{}, fmt.Errorf("catalog bundle is required")
	}
	if !bundle.HasLocale(baseLocale) {
		return Report{}, fmt.Errorf("base locale %q is missing from catalogs", baseLocale)
	}

	baseMessages := bundle.LocaleMessages(baseLocale)
	report := Report{BaseLocale: baseLocale}
	for _, locale := range bundle.Locales() {
		localeMessages := bundle.LocaleMessages(locale)
		missing := keysNotIn(baseMessages, localeMessages)
		translated := len(baseMessages) - len(missing)

		namespaces := bundle.Namespaces(baseLocale)
		for _, namespace := range bundle.Namespaces(locale) {
			if !slices.Contains(namespaces, namespace) {
				namespaces = append(namespaces, namespace)
			}
		}
		sort.Strings(namespaces)

		status := LocaleStatus{
			Locale:      locale,
			BaseKeys:    len(baseMessages),
			Translated:  translated,
			Completion:  percent(translated, len(baseMessages)),
			MissingKeys: missing,
			ExtraKeys:   keysNotIn(localeMessages, baseMessages),
		}
		for _, namespace := range namespaces {
			baseNS := bundle.NamespaceMessages(baseLocale, namespace)
			nsTranslated := len(baseNS) - len(keysNotIn(baseNS, bundle.NamespaceMessages(locale, namespace)))
			status.Namespaces = append(status.Namespaces, NamespaceStatus{
				Namespace:  namespace,
				BaseKeys:   len(baseNS),
				Translated: nsTranslated,
				Completion: percent(nsTranslated, len(baseNS)),
			})
		}
		report.Locales = append(report.Locales, status)
	}
	sort.Slice(report.Locales, func(i, j int) bool {
		return report.Locales[i].Locale < report.Locales[j].Locale
	})
	return report, nil
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteText writes a terminal friendly summary of the report.
func WriteText(w io.Writer, report Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "base locale: %s\n", report.BaseLocale)
	for _, locale := range report.Locales {
		fmt.Fprintf(&b, "%s: %d/%d (%.1f%%)\n", locale.Locale, locale.Translated, locale.BaseKeys, locale.Completion)
		for _, ns := range locale.Namespaces {
			fmt.Fprintf(&b, "  %s: %d/%d\n", ns.Namespace, ns.Translated, ns.BaseKeys)
		}
		for _, key := range locale.MissingKeys {
			fmt.Fprintf(&b, "  missing %s\n", key)
		}
		for _, key := range locale.ExtraKeys {
			fmt.Fprintf(&b, "  extra %s\n", key)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// keysNotIn returns the sorted keys of source absent from target.
func keysNotIn(source map[string]string, target map[string]string) []string {
	out := make([]string, 0)
	for key := range source {
		if _, ok := target[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func percent(numerator int, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	value := float64(numerator) * 100 / float64(denominator)
	return math.Round(value*10) / 10
}
