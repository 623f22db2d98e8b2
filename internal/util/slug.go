// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

const maxSlugLength = 96

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)
	slugValidRe   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	localeCodeRe  = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]{2,8})?$`)
)

// Slugify converts a display name to a URL-safe slug. Non-ASCII text
// is transliterated first, so "Culinária" becomes "culinaria" and
// "料理" becomes "liao-li" rather than an empty string.
func Slugify(s string) string {
	s = unidecode.Unidecode(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.Trim(s[:maxSlugLength], "-")
	}
	return s
}

// IsValidSlug reports whether s is a well-formed slug.
func IsValidSlug(s string) bool {
	return s != "" && slugValidRe.MatchString(s)
}

// IsValidLocaleCode reports whether s looks like a locale code such as
// "en", "jp", or "pt-br". It checks shape only, not registration with
// any standards body.
func IsValidLocaleCode(s string) bool {
	return localeCodeRe.MatchString(s)
}
