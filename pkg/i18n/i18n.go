// Package i18n holds the embedded message bundles used for labels and UI text.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Fallback is the locale used when nothing better matches.
const Fallback = "en"

type plural struct {
	One   string `yaml:"one"`
	Other string `yaml:"other"`
}

type document struct {
	Relative map[string]plural `yaml:"relative"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle is the message set of one locale. It is read-only after load.
type Bundle struct {
	lang     string
	relative map[string]plural
	messages map[string]string
	fallback *Bundle
}

var (
	loadOnce sync.Once
	bundles  map[string]*Bundle
	matcher  language.Matcher
	tags     []language.Tag
	loadErr  error
)

func load() {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		loadErr = err
		return
	}
	bundles = make(map[string]*Bundle, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		raw, err := locales.ReadFile("locales/" + e.Name())
		if err != nil {
			loadErr = err
			return
		}
		var doc document
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			loadErr = fmt.Errorf("i18n: decode %s: %w", e.Name(), err)
			return
		}
		name := e.Name()[:len(e.Name())-len(".yaml")]
		bundles[name] = &Bundle{lang: name, relative: doc.Relative, messages: doc.Messages}
		names = append(names, name)
	}
	fb, ok := bundles[Fallback]
	if !ok {
		loadErr = fmt.Errorf("i18n: fallback locale %s missing", Fallback)
		return
	}
	// The fallback goes first so the matcher prefers it on ties.
	sort.Slice(names, func(i, j int) bool {
		if names[i] == Fallback || names[j] == Fallback {
			return names[i] == Fallback
		}
		return names[i] < names[j]
	})
	tags = make([]language.Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, language.Make(n))
		if b := bundles[n]; b != fb {
			b.fallback = fb
		}
	}
	matcher = language.NewMatcher(tags)
}

// Supported lists the embedded locales, fallback first.
func Supported() []string {
	loadOnce.Do(load)
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}

// For returns the bundle best matching the requested locale (for example
// "es-MX" selects "es"). Unknown locales get the fallback bundle.
func For(locale string) *Bundle {
	loadOnce.Do(load)
	if loadErr != nil {
		panic(loadErr)
	}
	if locale == "" {
		return bundles[Fallback]
	}
	_, idx, _ := matcher.Match(language.Make(locale))
	if b, ok := bundles[tags[idx].String()]; ok {
		return b
	}
	return bundles[Fallback]
}

// Default returns the fallback bundle.
func Default() *Bundle {
	return For(Fallback)
}

// Lang is the locale of the bundle.
func (b *Bundle) Lang() string { return b.lang }

// Plural formats n with the singular form for unit when n <= 1 and the plural
// form otherwise.
func (b *Bundle) Plural(unit string, n int) string {
	p, ok := b.relative[unit]
	if !ok {
		if b.fallback != nil {
			return b.fallback.Plural(unit, n)
		}
		return fmt.Sprintf("%d %s", n, unit)
	}
	format := p.One
	if n > 1 {
		format = p.Other
	}
	return fmt.Sprintf(format, n)
}

// T returns the message for key, formatted with args when given. Missing keys
// fall back to the default locale and finally to the key itself.
func (b *Bundle) T(key string, args ...any) string {
	msg, ok := b.messages[key]
	if !ok {
		if b.fallback != nil {
			return b.fallback.T(key, args...)
		}
		msg = key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
