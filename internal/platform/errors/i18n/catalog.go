// Package i18n renders localized error messages from the "errors" namespace
// of the locale catalogs.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/dice-instructor/internal/platform/i18n/catalog"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// errorsNamespace holds error templates in the locale catalogs.
const errorsNamespace = "errors"

// Catalog renders the error templates of one locale.
type Catalog struct {
	locale    string
	templates map[Code]*template.Template
	raw       map[Code]string
}

// catalogs caches catalogs by resolved locale.
var catalogs sync.Map

// GetCatalog returns the catalog closest to locale. Unknown, malformed and
// empty locales resolve to the base locale.
func GetCatalog(locale string) *Catalog {
	bundle := i18ncatalog.Default()
	resolved := bundle.Tag(strings.TrimSpace(locale)).String()
	if cached, ok := catalogs.Load(resolved); ok {
		return cached.(*Catalog)
	}
	resolved, messages := bundle.NamespaceMessagesWithFallback(resolved, errorsNamespace)
	cached, _ := catalogs.LoadOrStore(resolved, NewCatalog(resolved, messages))
	return cached.(*Catalog)
}

// NewCatalog parses messages into a catalog. Templates that fail to parse
// render verbatim.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	c := &Catalog{
		locale:    locale,
		templates: make(map[Code]*template.Template, len(messages)),
		raw:       make(map[Code]string, len(messages)),
	}
	for code, text := range messages {
		c.raw[code] = text
		if tmpl, err := template.New(code).Parse(text); err == nil {
			c.templates[code] = tmpl
		}
	}
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with metadata. Unknown codes render as
// the code itself; missing metadata renders as "<no value>".
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	text, ok := c.raw[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return text
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return text
	}
	return b.String()
}
