// Package catalog loads the embedded locale message catalogs and registers
// them with golang.org/x/text/message so printers can translate by key.
//
// Catalog files live at locales/<locale>/<namespace>.yaml:
//
//	locale: "en-US"
//	namespace: "commands"
//	messages:
//	  "commands.prompt": "$: "
//
// Dotted keys must start with their namespace, and a key may appear in only
// one namespace per locale.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

// catalogFile is the on-disk shape of one namespace file.
type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// localeMessages holds every namespace of one locale.
type localeMessages struct {
	namespaces map[string]map[string]string
	all        map[string]string
}

// Bundle contains all locale catalogs.
type Bundle struct {
	locales map[string]*localeMessages
}

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

var defaultBundle = mustLoadAndRegisterEmbedded()

// Default returns the process-wide embedded catalog bundle. Its messages are
// registered with message.DefaultCatalog.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads catalog files from locales/*/*.yaml in catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	slices.Sort(paths)

	bundle := &Bundle{locales: map[string]*localeMessages{}}
	for _, filePath := range paths {
		data, err := fs.ReadFile(catalogFS, filePath)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", filePath, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", filePath, err)
		}
		if err := bundle.add(filePath, file); err != nil {
			return nil, err
		}
	}

	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

func (b *Bundle) add(filePath string, file catalogFile) error {
	wantLocale := path.Base(path.Dir(filePath))
	wantNamespace := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))

	locale := strings.TrimSpace(file.Locale)
	namespace := strings.TrimSpace(file.Namespace)
	switch {
	case locale != wantLocale:
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", filePath, locale, wantLocale)
	case namespace != wantNamespace:
		return fmt.Errorf("catalog %s: namespace %q must match filename namespace %q", filePath, namespace, wantNamespace)
	case len(file.Messages) == 0:
		return fmt.Errorf("catalog %s: messages are required", filePath)
	}

	entry, ok := b.locales[locale]
	if !ok {
		entry = &localeMessages{namespaces: map[string]map[string]string{}, all: map[string]string{}}
		b.locales[locale] = entry
	}
	if _, exists := entry.namespaces[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already defined for locale %q", filePath, namespace, locale)
	}

	messages := make(map[string]string, len(file.Messages))
	for rawKey, value := range file.Messages {
		key := strings.TrimSpace(rawKey)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", filePath)
		}
		if prefix, _, dotted := strings.Cut(key, "."); dotted && prefix != namespace {
			return fmt.Errorf("catalog %s: key %q must be defined in %s namespace", filePath, key, prefix)
		}
		if _, exists := entry.all[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", filePath, key, locale)
		}
		entry.all[key] = value
		messages[key] = value
	}
	entry.namespaces[namespace] = messages
	return nil
}

// Register adds every message to message.DefaultCatalog under the locale tag
// and, when different, its base language tag.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, confidence := tag.Base(); confidence != language.No {
			if baseTag, err := language.Parse(base.String()); err == nil && baseTag.String() != tag.String() {
				tags = append(tags, baseTag)
			}
		}
		messages := b.locales[locale].all
		for _, key := range slices.Sorted(maps.Keys(messages)) {
			for _, registerTag := range tags {
				if err := message.SetString(registerTag, key, messages[key]); err != nil {
					return fmt.Errorf("register %s %s: %w", locale, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all available locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.locales))
}

// LocaleMessages returns a copy of every message of locale.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	if !b.HasLocale(locale) {
		return map[string]string{}
	}
	return maps.Clone(b.locales[strings.TrimSpace(locale)].all)
}

// Namespaces returns sorted namespace names for a locale.
func (b *Bundle) Namespaces(locale string) []string {
	if !b.HasLocale(locale) {
		return nil
	}
	return slices.Sorted(maps.Keys(b.locales[strings.TrimSpace(locale)].namespaces))
}

// NamespaceMessages returns a copy of one namespace of locale.
func (b *Bundle) NamespaceMessages(locale string, namespace string) map[string]string {
	if !b.HasLocale(locale) {
		return map[string]string{}
	}
	messages, ok := b.locales[strings.TrimSpace(locale)].namespaces[strings.TrimSpace(namespace)]
	if !ok {
		return map[string]string{}
	}
	return maps.Clone(messages)
}

// NamespaceMessagesWithFallback returns namespace messages and the locale
// that satisfied the lookup, falling back to BaseLocale.
func (b *Bundle) NamespaceMessagesWithFallback(locale string, namespace string) (string, map[string]string) {
	locale = strings.TrimSpace(locale)
	if messages := b.NamespaceMessages(locale, namespace); len(messages) > 0 {
		return locale, messages
	}
	return BaseLocale, b.NamespaceMessages(BaseLocale, namespace)
}

func mustLoadAndRegisterEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}
