package catalog

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tag resolves locale to the closest locale this bundle carries, falling back
// to BaseLocale for unknown or malformed input.
func (b *Bundle) Tag(locale string) language.Tag {
	base := language.MustParse(BaseLocale)
	tags := []language.Tag{base}
	for _, available := range b.Locales() {
		if available == BaseLocale {
			continue
		}
		tag, err := language.Parse(available)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}

	requested, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return base
	}
	_, index, confidence := language.NewMatcher(tags).Match(requested)
	if confidence == language.No {
		return base
	}
	return tags[index]
}

// Printer returns a message printer translating catalog keys for locale.
func (b *Bundle) Printer(locale string) *message.Printer {
	return message.NewPrinter(b.Tag(locale))
}
