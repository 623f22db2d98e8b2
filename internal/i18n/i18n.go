// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n serves the static UI strings (navigation labels, button
// text) from embedded TOML catalogs. Content translations live in the
// database; this package covers only the chrome around them.
package i18n

import (
	"embed"
	"fmt"
	"log/slog"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Translator resolves UI message IDs per locale. Locales without a
// catalog file fall back to the default locale's messages.
type Translator struct {
	localizers map[string]*goi18n.Localizer
	def        string
}

// New loads the embedded catalogs and builds one localizer per
// supported locale. Missing catalog files are fine; unreadable ones
// are not.
func New(defaultLocale string, supported []string, log *slog.Logger) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read embedded catalogs: %w", err)
	}
	loaded := make(map[string]bool)
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+e.Name()); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", e.Name(), err)
		}
		loaded[e.Name()] = true
	}

	t := &Translator{
		localizers: make(map[string]*goi18n.Localizer, len(supported)),
		def:        defaultLocale,
	}
	for _, code := range supported {
		if !loaded["active."+code+".toml"] {
			log.Debug("no UI catalog for locale, using default", "locale", code, "default", defaultLocale)
		}
		t.localizers[code] = goi18n.NewLocalizer(bundle, code, defaultLocale)
	}
	return t, nil
}

// T returns the message for id in the given locale. Unknown locales use
// the default localizer; unknown ids return the id itself so a missing
// string is visible instead of blank.
func (t *Translator) T(locale, id string, data map[string]any) string {
	loc, ok := t.localizers[locale]
	if !ok {
		loc = t.localizers[t.def]
	}
	if loc == nil {
		return id
	}
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}
