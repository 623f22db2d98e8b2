// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package routing

import (
	"fmt"
	"strings"

	"github.com/linguacms/linguacms/internal/locale"
)

// LogicalRoute is a language-independent route definition. Key is the
// stable identity used for path translation and entry naming; Suffix is
// an optional chi pattern appended after the translated segment, e.g.
// "/{slug}"; HandlerRef names the handler the mounted entry dispatches
// to.
type LogicalRoute struct {
	Key        string
	Method     string
	Suffix     string
	HandlerRef string
}

// Entry is one concrete route of the generated table: a (logical route
// x locale) pair with its final path and unique name.
type Entry struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	Name       string `json:"name"`
	Locale     string `json:"locale"`
	Key        string `json:"key"`
	HandlerRef string `json:"handler"`
}

// Table is the complete localized route table, built once at startup
// and read-only afterwards.
type Table struct {
	entries []Entry
	byName  map[string]Entry
}

// Build generates one entry per (logical route x supported locale), in
// registry order. The default locale is served unprefixed; every other
// locale carries a leading locale segment. A duplicate path or name is
// a configuration error: the caller aborts startup.
func Build(routes []LogicalRoute, reg *locale.Registry, paths PathTable) (*Table, error) {
	t := &Table{byName: make(map[string]Entry, len(routes)*len(reg.Codes()))}
	seenPath := make(map[string]string)

	for _, route := range routes {
		if route.Key == "" {
			return nil, fmt.Errorf("route table: route with empty key")
		}
		method := route.Method
		if method == "" {
			method = "GET"
		}

		for _, loc := range reg.Supported() {
			segment := paths.Resolve(route.Key, loc.Code)
			entry := Entry{
				Method:     method,
				Path:       fullPath(loc.Code, loc.IsDefault, segment, route.Suffix),
				Name:       route.Key + "." + loc.Code,
				Locale:     loc.Code,
				Key:        route.Key,
				HandlerRef: route.HandlerRef,
			}

			if prev, ok := t.byName[entry.Name]; ok {
				return nil, fmt.Errorf("route table: duplicate name %q (paths %q and %q)", entry.Name, prev.Path, entry.Path)
			}
			pathKey := entry.Method + " " + entry.Path
			if prevName, ok := seenPath[pathKey]; ok {
				return nil, fmt.Errorf("route table: duplicate path %q for %q and %q", entry.Path, prevName, entry.Name)
			}

			t.byName[entry.Name] = entry
			seenPath[pathKey] = entry.Name
			t.entries = append(t.entries, entry)
		}
	}

	return t, nil
}

// fullPath assembles the final URL pattern for one entry.
func fullPath(code string, isDefault bool, segment, suffix string) string {
	var b strings.Builder
	if !isDefault {
		b.WriteString("/")
		b.WriteString(code)
	}
	if segment != "" {
		b.WriteString("/")
		b.WriteString(segment)
	}
	b.WriteString(suffix)
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Entries returns the table entries in build order. The slice is a copy.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the entry named "{key}.{locale}".
func (t *Table) Lookup(key, locale string) (Entry, bool) {
	e, ok := t.byName[key+"."+locale]
	return e, ok
}

// URLFor returns the path pattern for a logical route in a locale.
// Pattern placeholders (e.g. {slug}) are replaced from params, given as
// alternating name/value pairs.
func (t *Table) URLFor(key, locale string, params ...string) (string, bool) {
	e, ok := t.byName[key+"."+locale]
	if !ok {
		return "", false
	}
	path := e.Path
	for i := 0; i+1 < len(params); i += 2 {
		path = strings.ReplaceAll(path, "{"+params[i]+"}", params[i+1])
	}
	return path, true
}
