// Package i18n serves the user-facing strings from the embedded catalogs.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// DefaultLanguage is used for unknown languages and for keys missing from a
// catalog.
const DefaultLanguage = "en"

//go:embed locales/*.po
var locales embed.FS

// Catalog resolves message keys for one language.
type Catalog struct {
	lang     string
	po       *gotext.Po
	fallback *gotext.Po
}

// Languages lists the embedded catalogs.
func Languages() []string {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return []string{DefaultLanguage}
	}
	var langs []string
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), ".po"))
	}
	return langs
}

func load(lang string) (*gotext.Po, error) {
	raw, err := locales.ReadFile("locales/" + lang + ".po")
	if err != nil {
		return nil, fmt.Errorf("no catalog for %q: %w", lang, err)
	}
	po := gotext.NewPo()
	po.Parse(raw)
	return po, nil
}

// New returns the catalog for lang, or the default catalog if lang is not
// embedded.
func New(lang string) *Catalog {
	fallback, err := load(DefaultLanguage)
	if err != nil {
		panic(err) // embedded at build time
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	po, err := load(lang)
	if err != nil {
		return &Catalog{lang: DefaultLanguage, po: fallback, fallback: fallback}
	}
	return &Catalog{lang: lang, po: po, fallback: fallback}
}

// Language returns the language actually served.
func (c *Catalog) Language() string {
	return c.lang
}

// Get returns the string for key, falling back to the default language and
// then to the key itself.
func (c *Catalog) Get(key string) string {
	if s := c.po.Get(key); s != key {
		return s
	}
	return c.fallback.Get(key)
}

// Getf formats the string for key with args.
func (c *Catalog) Getf(key string, args ...interface{}) string {
	return fmt.Sprintf(c.Get(key), args...)
}
