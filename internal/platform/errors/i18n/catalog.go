// Package i18n renders error messages for a locale. Codes map to text
// templates; formatting never fails, degrading to the raw template or
// the bare code instead.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/i18n/catalog"
)

// Code is a machine-readable error code. It mirrors the errors package
// codes as plain strings to avoid an import cycle.
type Code = string

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// registry holds built catalogs keyed by locale.
type registry struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
}

var defaultRegistry = &registry{catalogs: map[string]*Catalog{}}

func (r *registry) get(locale string) (*Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, ok := r.catalogs[locale]
	return cat, ok
}

func (r *registry) put(locale string, cat *Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[locale] = cat
}

// putIfAbsent keeps the first catalog stored for a locale so concurrent
// builders converge on one instance.
func (r *registry) putIfAbsent(locale string, cat *Catalog) *Catalog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.catalogs[locale]; ok {
		return existing
	}
	r.catalogs[locale] = cat
	return cat
}

// GetCatalog returns the catalog for locale, building it from the
// embedded locale files on first use. Unsupported locales resolve to
// en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}

	if cat, ok := defaultRegistry.get(requested); ok {
		return cat
	}

	resolved, messages := i18ncatalog.Default().NamespaceMessagesWithFallback(requested, "errors")
	if cat, ok := defaultRegistry.get(resolved); ok {
		return cat
	}
	return defaultRegistry.putIfAbsent(resolved, NewCatalog(resolved, messages))
}

// Locale returns the locale this catalog renders.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the template for code with the given metadata. Unknown
// codes come back as-is and template failures return the raw template,
// so callers always get something printable. Metadata may be nil;
// template variables then render as their zero placeholders.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	text, ok := c.messages[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	tmpl, err := template.New("msg").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return text
	}
	return buf.String()
}

// RegisterCatalog installs a catalog for the given locale, replacing any
// existing one. The in-code en-US catalog registers itself at init;
// everything else is built lazily from the embedded locale files.
func RegisterCatalog(locale string, cat *Catalog) {
	defaultRegistry.put(locale, cat)
}

// NewCatalog builds a catalog from a copy of messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{locale: locale, messages: cloned}
}
