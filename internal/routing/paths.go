// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package routing builds the full localized route table at startup.
// Logical routes and their per-locale path segments are static
// configuration; the generated table is immutable at runtime.
package routing

// PathTable maps (logical route key, locale code) to the URL path
// segment used for that locale.
type PathTable map[string]map[string]string

// Resolve returns the path segment for a logical route key in a locale.
// When no translation exists for the pair, the key itself is returned
// verbatim; that is the documented fallback for locales that reuse the
// default-language path (e.g. "jp" reusing "about").
func (t PathTable) Resolve(key, locale string) string {
	if byLocale, ok := t[key]; ok {
		if seg, ok := byLocale[locale]; ok {
			return seg
		}
	}
	return key
}
