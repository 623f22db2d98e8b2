// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import (
	"strings"

	"github.com/linguacms/linguacms/internal/model"
)

// Resolution is the outcome of resolving a request path against the
// registry: the active locale, the path with any locale prefix
// consumed, and whether a prefix was present.
type Resolution struct {
	Locale   model.Locale
	Path     string
	Prefixed bool
}

// ResolvePath inspects the first segment of a request path. If it is a
// supported locale code, that locale becomes active and the segment is
// consumed; otherwise the default locale is active and the path is
// returned unmodified. Unsupported or malformed segments are never an
// error, they simply mean "no locale prefix".
func ResolvePath(path string, r *Registry) Resolution {
	trimmed := strings.TrimPrefix(path, "/")
	seg := trimmed
	rest := ""
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		seg, rest = trimmed[:i], trimmed[i:]
	}

	if loc, ok := r.Get(seg); ok {
		if rest == "" {
			rest = "/"
		}
		return Resolution{Locale: loc, Path: rest, Prefixed: true}
	}
	return Resolution{Locale: r.Default(), Path: path}
}
