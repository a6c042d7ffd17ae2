package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// catalogFile is one parsed locales/<locale>/<namespace>.yaml file.
type catalogFile struct {
	Locale    string
	Namespace string
	Messages  map[string]string
	Lists     map[string][]string
}

// fileParser consumes the restricted YAML subset the locale files use:
// two quoted header fields, a flat messages map, and a lists section of
// quoted sequences. Indentation carries no meaning; section headers and
// leading dashes drive the state.
type fileParser struct {
	out     catalogFile
	section string
	list    string
}

func parseCatalogFile(data []byte) (catalogFile, error) {
	p := fileParser{out: catalogFile{Messages: map[string]string{}, Lists: map[string][]string{}}}
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := p.consume(line); err != nil {
			return catalogFile{}, err
		}
	}
	return p.finish()
}

func (p *fileParser) consume(line string) error {
	switch {
	case strings.HasPrefix(line, "locale:"):
		value, err := unquote(strings.TrimPrefix(line, "locale:"))
		if err != nil {
			return fmt.Errorf("parse locale: %w", err)
		}
		p.out.Locale = value
		return nil
	case strings.HasPrefix(line, "namespace:"):
		value, err := unquote(strings.TrimPrefix(line, "namespace:"))
		if err != nil {
			return fmt.Errorf("parse namespace: %w", err)
		}
		p.out.Namespace = value
		return nil
	case line == "messages:":
		p.section = "messages"
		return nil
	case line == "lists:":
		p.section = "lists"
		p.list = ""
		return nil
	}

	switch p.section {
	case "messages":
		return p.consumeMessage(line)
	case "lists":
		return p.consumeListLine(line)
	default:
		return fmt.Errorf("unexpected line %q", line)
	}
}

func (p *fileParser) consumeMessage(line string) error {
	token, rest, err := cutQuoted(line)
	if err != nil {
		return fmt.Errorf("parse message entry %q: %w", line, err)
	}
	key, err := strconv.Unquote(token)
	if err != nil {
		return fmt.Errorf("parse message entry %q: unquote key: %w", line, err)
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ":") {
		return fmt.Errorf("parse message entry %q: missing ':' separator", line)
	}
	value, err := unquote(strings.TrimPrefix(rest, ":"))
	if err != nil {
		return fmt.Errorf("parse message entry %q: unquote value: %w", line, err)
	}
	p.out.Messages[key] = value
	return nil
}

func (p *fileParser) consumeListLine(line string) error {
	if strings.HasPrefix(line, "-") {
		if p.list == "" {
			return fmt.Errorf("list item %q has no list key", line)
		}
		value, err := unquote(strings.TrimPrefix(line, "-"))
		if err != nil {
			return fmt.Errorf("parse list item %q: %w", line, err)
		}
		p.out.Lists[p.list] = append(p.out.Lists[p.list], value)
		return nil
	}

	token, rest, err := cutQuoted(line)
	if err != nil {
		return fmt.Errorf("parse list key %q: %w", line, err)
	}
	if strings.TrimSpace(rest) != ":" {
		return fmt.Errorf("parse list key %q: expected ':' after key", line)
	}
	key, err := strconv.Unquote(token)
	if err != nil {
		return fmt.Errorf("parse list key %q: unquote key: %w", line, err)
	}
	if _, dup := p.out.Lists[key]; dup {
		return fmt.Errorf("duplicate list key %q", key)
	}
	p.out.Lists[key] = []string{}
	p.list = key
	return nil
}

func (p *fileParser) finish() (catalogFile, error) {
	switch {
	case p.out.Locale == "":
		return catalogFile{}, fmt.Errorf("missing locale")
	case p.out.Namespace == "":
		return catalogFile{}, fmt.Errorf("missing namespace")
	case len(p.out.Messages) == 0 && len(p.out.Lists) == 0:
		return catalogFile{}, fmt.Errorf("missing messages")
	}
	return p.out, nil
}

// unquote strips surrounding whitespace and parses a Go-style quoted
// string.
func unquote(value string) (string, error) {
	return strconv.Unquote(strings.TrimSpace(value))
}

// cutQuoted splits line into its leading quoted token and the remainder,
// honoring backslash escapes inside the quotes.
func cutQuoted(line string) (string, string, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "\"") {
		return "", "", fmt.Errorf("expected quoted token")
	}
	inEscape := false
	for i := 1; i < len(trimmed); i++ {
		switch {
		case inEscape:
			inEscape = false
		case trimmed[i] == '\\':
			inEscape = true
		case trimmed[i] == '"':
			return trimmed[:i+1], trimmed[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated quoted token")
}
