// Package i18n resolves request locales and builds per-locale narration
// packs for the showcase service. A session's locale is fixed when the
// session is created; nothing here re-resolves language mid-run.
package i18n

import (
	"net/http"
	"strings"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam names the query parameter that pins a request language.
const LangParam = "lang"

var supported = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("pt-BR"),
}

var locales = map[language.Tag]string{
	supported[0]: "en-US",
	supported[1]: "pt-BR",
}

var matcher = language.NewMatcher(supported)

// SupportedTags returns the list of supported language tags.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return supported[0]
}

// Printer builds the x/text printer narration runs through for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ParseTag matches a raw tag value against the supported set. The bool is
// false when the value is empty, malformed, or matches nothing.
func ParseTag(value string) (language.Tag, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DefaultTag(), false
	}
	parsed, err := language.Parse(trimmed)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return DefaultTag(), false
	}
	return supported[index], true
}

// MatchTags picks the best supported tag for an Accept-Language chain.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[index]
}

// ResolveTag determines the language for a request: the lang query
// parameter wins, then the Accept-Language header, then the default.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return DefaultTag()
	}

	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, ok := ParseTag(value); ok {
			return tag
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return MatchTags(tags)
		}
	}

	return DefaultTag()
}

// Locale returns the catalog locale identifier for a tag.
func Locale(tag language.Tag) string {
	if locale, ok := locales[tag]; ok {
		return locale
	}
	return catalog.BaseLocale
}

// ParseLocale matches a raw value and returns the catalog locale it
// resolves to. The bool is false for unsupported values.
func ParseLocale(value string) (string, bool) {
	tag, ok := ParseTag(value)
	if !ok {
		return catalog.BaseLocale, false
	}
	return Locale(tag), true
}
