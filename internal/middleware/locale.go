// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware holds the HTTP middleware stack: per-request
// locale resolution, request timeouts, trailing slash normalization,
// and write rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/linguacms/linguacms/internal/locale"
	"github.com/linguacms/linguacms/internal/model"
)

type contextKey string

const localeKey contextKey = "locale"

// localeCookie remembers an explicit ?lang choice across visits to the
// unprefixed homepage.
const localeCookie = "lingua_locale"

// ActiveLocale returns the locale resolved for this request. Handlers
// running outside the resolver middleware get the zero Locale.
func ActiveLocale(ctx context.Context) model.Locale {
	loc, _ := ctx.Value(localeKey).(model.Locale)
	return loc
}

// WithLocale returns a context carrying loc. Exposed for tests.
func WithLocale(ctx context.Context, loc model.Locale) context.Context {
	return context.WithValue(ctx, localeKey, loc)
}

// LocaleResolver resolves the active locale for every request and
// stores it in the request context. Priority:
//
//  1. ?lang= query parameter (also persisted in a cookie)
//  2. locale prefix in the request path
//  3. cookie, then Accept-Language, on the unprefixed homepage only
//  4. the default locale
//
// Unsupported values at any step fall through silently.
func LocaleResolver(reg *locale.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := locale.ResolvePath(r.URL.Path, reg)
			active := res.Locale

			if lang := r.URL.Query().Get("lang"); lang != "" {
				if loc, ok := reg.Get(lang); ok {
					active = loc
					http.SetCookie(w, &http.Cookie{
						Name:     localeCookie,
						Value:    loc.Code,
						Path:     "/",
						MaxAge:   365 * 24 * 60 * 60,
						HttpOnly: true,
						SameSite: http.SameSiteLaxMode,
					})
				}
			} else if !res.Prefixed && r.URL.Path == "/" {
				if loc, ok := preferredLocale(r, reg); ok {
					active = loc
				}
			}

			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), active)))
		})
	}
}

// preferredLocale checks the locale cookie, then the Accept-Language
// header, for a supported locale.
func preferredLocale(r *http.Request, reg *locale.Registry) (model.Locale, bool) {
	if c, err := r.Cookie(localeCookie); err == nil {
		if loc, ok := reg.Get(c.Value); ok {
			return loc, true
		}
	}
	if code := matchAcceptLanguage(r.Header.Get("Accept-Language"), reg); code != "" {
		return reg.Get(code)
	}
	return model.Locale{}, false
}

// matchAcceptLanguage returns the first supported locale named by the
// Accept-Language header, honoring listed order. Region subtags are
// tried in full first ("pt-br"), then reduced to the base language.
func matchAcceptLanguage(header string, reg *locale.Registry) string {
	if header == "" {
		return ""
	}
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = strings.TrimSpace(tag[:i])
		}
		tag = strings.ToLower(tag)
		if tag == "" || tag == "*" {
			continue
		}
		if reg.IsSupported(tag) {
			return tag
		}
		if i := strings.IndexByte(tag, '-'); i >= 0 {
			if base := tag[:i]; reg.IsSupported(base) {
				return base
			}
		}
	}
	return ""
}
