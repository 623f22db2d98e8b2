// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale holds the process-wide locale registry and the
// per-request locale resolution logic. The registry is built once at
// startup from static configuration and is immutable afterwards, so it
// is safe for concurrent reads from any number of request goroutines.
package locale

import (
	"fmt"
	"strings"

	"github.com/linguacms/linguacms/internal/model"
)

// Registry is the validated, ordered set of supported locales with a
// designated default. Construction is the only mutation point.
type Registry struct {
	ordered  []model.Locale
	byCode   map[string]model.Locale
	def      model.Locale
	fallback string
}

// NewRegistry builds a registry from the configured locale codes.
// defaultCode must be a member of codes; fallbackCode is the last
// resort of the content fallback chain and may be empty, in which case
// the default locale is used. A bad configuration is fatal: the caller
// aborts the process on error.
func NewRegistry(codes []string, defaultCode, fallbackCode string) (*Registry, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("locale registry: no supported locales configured")
	}

	r := &Registry{
		byCode:   make(map[string]model.Locale, len(codes)),
		fallback: strings.ToLower(fallbackCode),
	}

	defaultCode = strings.ToLower(defaultCode)
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			return nil, fmt.Errorf("locale registry: empty locale code")
		}
		if _, dup := r.byCode[code]; dup {
			return nil, fmt.Errorf("locale registry: duplicate locale code %q", code)
		}

		loc, ok := model.LookupCommonLocale(code)
		if !ok {
			loc = model.Locale{Code: code, Name: code, NativeName: code, Direction: model.DirectionLTR}
		}
		loc.IsDefault = code == defaultCode

		r.ordered = append(r.ordered, loc)
		r.byCode[code] = loc
	}

	def, ok := r.byCode[defaultCode]
	if !ok {
		return nil, fmt.Errorf("locale registry: default locale %q is not in the supported set %v", defaultCode, codes)
	}
	r.def = def

	if r.fallback == "" {
		r.fallback = def.Code
	}
	if _, ok := r.byCode[r.fallback]; !ok {
		return nil, fmt.Errorf("locale registry: fallback locale %q is not in the supported set %v", fallbackCode, codes)
	}

	return r, nil
}

// Supported returns the supported locales in configuration order.
// The returned slice is a copy.
func (r *Registry) Supported() []model.Locale {
	out := make([]model.Locale, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Codes returns the supported locale codes in configuration order.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.ordered))
	for i, l := range r.ordered {
		out[i] = l.Code
	}
	return out
}

// Default returns the default locale.
func (r *Registry) Default() model.Locale {
	return r.def
}

// Fallback returns the code of the content fallback locale.
func (r *Registry) Fallback() string {
	return r.fallback
}

// IsSupported reports whether code names a supported locale.
// Matching is by whole known code, not by code length: registries may
// carry codes like "pt-br" alongside two-letter ones.
func (r *Registry) IsSupported(code string) bool {
	_, ok := r.byCode[strings.ToLower(code)]
	return ok
}

// Get returns the locale for code, or false when unsupported.
func (r *Registry) Get(code string) (model.Locale, bool) {
	l, ok := r.byCode[strings.ToLower(code)]
	return l, ok
}
