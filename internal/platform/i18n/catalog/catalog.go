// Package catalog loads the embedded locale files that hold every
// user-facing string: flat messages registered with x/text/message and
// ordered lists the narrator cycles through for combat and quest text.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale; every other locale falls
// back to it.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustDefault()

// localeCatalog holds the merged strings of one locale. Lists keep file
// order, which the narrator relies on for deterministic cycling.
type localeCatalog struct {
	messages       map[string]string
	lists          map[string][]string
	namespaces     map[string]map[string]string
	listNamespaces map[string]map[string][]string
}

// Bundle is a read-only set of locale catalogs.
type Bundle struct {
	locales map[string]*localeCatalog
}

// Default returns the process-wide bundle built from the embedded files.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded builds a bundle from the files compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS builds a bundle from locales/<locale>/<namespace>.yaml
// files found under fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*localeCatalog{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		parsed, err := parseCatalogFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.merge(p, parsed); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

// merge folds one parsed file into the bundle after checking that its
// header matches its path and that no key collides across namespaces.
func (b *Bundle) merge(filePath string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	namespace := strings.TrimSpace(file.Namespace)
	pathLocale := path.Base(path.Dir(filePath))
	pathNamespace := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	switch {
	case locale == "":
		return fmt.Errorf("catalog %s: locale is required", filePath)
	case locale != pathLocale:
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", filePath, locale, pathLocale)
	case namespace == "":
		return fmt.Errorf("catalog %s: namespace is required", filePath)
	case namespace != pathNamespace:
		return fmt.Errorf("catalog %s: namespace %q must match filename namespace %q", filePath, namespace, pathNamespace)
	case file.Messages == nil:
		return fmt.Errorf("catalog %s: messages map is required", filePath)
	}

	cat := b.locales[locale]
	if cat == nil {
		cat = &localeCatalog{
			messages:       map[string]string{},
			lists:          map[string][]string{},
			namespaces:     map[string]map[string]string{},
			listNamespaces: map[string]map[string][]string{},
		}
		b.locales[locale] = cat
	}
	if _, dup := cat.namespaces[namespace]; dup {
		return fmt.Errorf("catalog %s: namespace %q already defined for locale %q", filePath, namespace, locale)
	}

	if err := cat.addMessages(filePath, locale, namespace, file.Messages); err != nil {
		return err
	}
	return cat.addLists(filePath, locale, namespace, file.Lists)
}

// addMessages records a namespace's messages, rejecting blank keys,
// core.* keys outside the core namespace, and keys already claimed by
// another namespace of the same locale.
func (c *localeCatalog) addMessages(filePath, locale, namespace string, entries map[string]string) error {
	bucket := make(map[string]string, len(entries))
	for rawKey, value := range entries {
		key := strings.TrimSpace(rawKey)
		if key == "" {
			return fmt.Errorf("catalog %s: blank message key", filePath)
		}
		if strings.HasPrefix(key, "core.") && namespace != "core" {
			return fmt.Errorf("catalog %s: key %q belongs in the core namespace", filePath, key)
		}
		if _, dup := c.messages[key]; dup {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", filePath, key, locale)
		}
		c.messages[key] = value
		bucket[key] = value
	}
	c.namespaces[namespace] = bucket
	return nil
}

// addLists records a namespace's ordered lists under the same key rules
// as messages. Empty lists are rejected so callers can index freely.
func (c *localeCatalog) addLists(filePath, locale, namespace string, entries map[string][]string) error {
	bucket := make(map[string][]string, len(entries))
	for rawKey, values := range entries {
		key := strings.TrimSpace(rawKey)
		if key == "" {
			return fmt.Errorf("catalog %s: blank list key", filePath)
		}
		if strings.HasPrefix(key, "core.") && namespace != "core" {
			return fmt.Errorf("catalog %s: key %q belongs in the core namespace", filePath, key)
		}
		if _, dup := c.lists[key]; dup {
			return fmt.Errorf("catalog %s: duplicate list key %q in locale %q", filePath, key, locale)
		}
		if len(values) == 0 {
			return fmt.Errorf("catalog %s: list %q has no items", filePath, key)
		}
		copied := append([]string(nil), values...)
		c.lists[key] = copied
		bucket[key] = copied
	}
	c.listNamespaces[namespace] = bucket
	return nil
}

// Register installs every message into the x/text/message default
// catalog so printers built on language tags resolve them. Each message
// registers under both the full tag and its bare base language.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		messages := b.LocaleMessages(locale)
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, target := range registerTags(tag) {
				message.SetString(target, key, messages[key])
			}
		}
	}
	return nil
}

// registerTags returns tag plus its bare base language when that differs.
func registerTags(tag language.Tag) []language.Tag {
	tags := []language.Tag{tag}
	base, _ := tag.Base()
	if name := base.String(); name != "" && name != "und" {
		if baseTag, err := language.Parse(name); err == nil && baseTag.String() != tag.String() {
			tags = append(tags, baseTag)
		}
	}
	return tags
}

// lookup returns the catalogs to consult for locale: the locale itself
// when present, then the base locale.
func (b *Bundle) lookup(locale string) []*localeCatalog {
	if b == nil {
		return nil
	}
	var chain []*localeCatalog
	trimmed := strings.TrimSpace(locale)
	if cat := b.locales[trimmed]; cat != nil {
		chain = append(chain, cat)
	}
	if trimmed != BaseLocale {
		if cat := b.locales[BaseLocale]; cat != nil {
			chain = append(chain, cat)
		}
	}
	return chain
}

// HasLocale reports whether locale is present in the bundle.
func (b *Bundle) HasLocale(locale string) bool {
	return b != nil && b.locales[strings.TrimSpace(locale)] != nil
}

// Locales returns the sorted locale names.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.locales))
	for name := range b.locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LocaleMessages returns a copy of every message for locale, with no
// fallback.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	cat := b.locales[strings.TrimSpace(locale)]
	if cat == nil {
		return map[string]string{}
	}
	return copyMessages(cat.messages)
}

// Message resolves one key for locale, falling back to the base locale.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	for _, cat := range b.lookup(locale) {
		if value, ok := cat.messages[key]; ok {
			return value, true
		}
	}
	return "", false
}

// NamespaceMessages returns a copy of one namespace for locale, with no
// fallback.
func (b *Bundle) NamespaceMessages(locale string, namespace string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	cat := b.locales[strings.TrimSpace(locale)]
	if cat == nil {
		return map[string]string{}
	}
	messages, ok := cat.namespaces[strings.TrimSpace(namespace)]
	if !ok {
		return map[string]string{}
	}
	return copyMessages(messages)
}

// NamespaceMessagesWithFallback resolves a namespace for locale and
// reports which locale satisfied the lookup.
func (b *Bundle) NamespaceMessagesWithFallback(locale string, namespace string) (string, map[string]string) {
	locale = strings.TrimSpace(locale)
	namespace = strings.TrimSpace(namespace)
	if messages := b.NamespaceMessages(locale, namespace); len(messages) > 0 {
		return locale, messages
	}
	return BaseLocale, b.NamespaceMessages(BaseLocale, namespace)
}

// List resolves one ordered list for locale, falling back to the base
// locale. The returned slice is a copy.
func (b *Bundle) List(locale string, key string) ([]string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	for _, cat := range b.lookup(locale) {
		if values, ok := cat.lists[key]; ok {
			return append([]string(nil), values...), true
		}
	}
	return nil, false
}

// NamespaceLists returns a copy of one namespace's lists for locale,
// with no fallback.
func (b *Bundle) NamespaceLists(locale string, namespace string) map[string][]string {
	if b == nil {
		return map[string][]string{}
	}
	cat := b.locales[strings.TrimSpace(locale)]
	if cat == nil {
		return map[string][]string{}
	}
	lists, ok := cat.listNamespaces[strings.TrimSpace(namespace)]
	if !ok {
		return map[string][]string{}
	}
	return copyLists(lists)
}

// NamespaceListsWithFallback resolves a namespace's lists for locale and
// reports which locale satisfied the lookup.
func (b *Bundle) NamespaceListsWithFallback(locale string, namespace string) (string, map[string][]string) {
	locale = strings.TrimSpace(locale)
	namespace = strings.TrimSpace(namespace)
	if lists := b.NamespaceLists(locale, namespace); len(lists) > 0 {
		return locale, lists
	}
	return BaseLocale, b.NamespaceLists(BaseLocale, namespace)
}

func copyMessages(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func copyLists(src map[string][]string) map[string][]string {
	dst := make(map[string][]string, len(src))
	for key, values := range src {
		dst[key] = append([]string(nil), values...)
	}
	return dst
}

func mustDefault() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}
