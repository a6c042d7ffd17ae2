package i18n

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveTag(t *testing.T) {
	tcs := []struct {
		name   string
		target string
		accept string
		want   string
	}{
		{name: "defaults to en-US", target: "/sessions", want: "en-US"},
		{name: "lang param wins", target: "/sessions?lang=pt-BR", accept: "en-US", want: "pt-BR"},
		{name: "lang param base form", target: "/sessions?lang=pt", want: "pt-BR"},
		{name: "invalid lang param falls through", target: "/sessions?lang=??", accept: "pt-BR", want: "pt-BR"},
		{name: "accept header", target: "/sessions", accept: "pt-BR,pt;q=0.9,en;q=0.5", want: "pt-BR"},
		{name: "unsupported accept falls back", target: "/sessions", accept: "it-IT", want: "en-US"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.target, nil)
			if tc.accept != "" {
				r.Header.Set("Accept-Language", tc.accept)
			}
			if got := ResolveTag(r).String(); got != tc.want {
				t.Fatalf("ResolveTag = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveTagNilRequest(t *testing.T) {
	if got := ResolveTag(nil); got != DefaultTag() {
		t.Fatalf("ResolveTag(nil) = %v, want default", got)
	}
}

func TestParseLocale(t *testing.T) {
	tcs := []struct {
		value  string
		want   string
		wantOK bool
	}{
		{value: "pt-BR", want: "pt-BR", wantOK: true},
		{value: "en", want: "en-US", wantOK: true},
		{value: "", want: "en-US", wantOK: false},
		{value: "zz-ZZ", want: "en-US", wantOK: false},
	}

	for _, tc := range tcs {
		got, ok := ParseLocale(tc.value)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("ParseLocale(%q) = (%q, %t), want (%q, %t)", tc.value, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestLocaleForSupportedTags(t *testing.T) {
	if got := Locale(language.MustParse("pt-BR")); got != "pt-BR" {
		t.Fatalf("Locale(pt-BR) = %q", got)
	}
	if got := Locale(language.MustParse("en-US")); got != "en-US" {
		t.Fatalf("Locale(en-US) = %q", got)
	}
	if got := Locale(language.MustParse("it-IT")); got != "en-US" {
		t.Fatalf("Locale(it-IT) = %q, want base locale", got)
	}
}
