// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/linguacms/linguacms/internal/locale"
)

func testRegistry(t *testing.T) *locale.Registry {
	t.Helper()
	r, err := locale.NewRegistry([]string{"en", "pt", "fr", "jp"}, "en", "")
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func testPaths() PathTable {
	return PathTable{
		"about": {
			"en": "about",
			"pt": "sobre",
			"fr": "a-propos",
			// jp deliberately absent: falls back to the key
		},
		"contact": {
			"en": "contact",
			"pt": "contato",
			"fr": "contact-fr",
		},
		"home": {
			"en": "", "pt": "", "fr": "", "jp": "",
		},
	}
}

func TestPathTableResolve(t *testing.T) {
	paths := testPaths()

	tests := []struct {
		key    string
		locale string
		want   string
	}{
		{"about", "fr", "a-propos"},
		{"about", "pt", "sobre"},
		{"about", "en", "about"},
		{"about", "jp", "about"},     // missing pair falls back to the key
		{"unknown", "en", "unknown"}, // unknown key falls back verbatim
	}

	for _, tt := range tests {
		if got := paths.Resolve(tt.key, tt.locale); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.key, tt.locale, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	reg := testRegistry(t)
	routes := []LogicalRoute{
		{Key: "home", HandlerRef: "page.home"},
		{Key: "about", HandlerRef: "page.about"},
		{Key: "contact", HandlerRef: "page.contact"},
	}

	table, err := Build(routes, reg, testPaths())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Exactly one entry per (route x locale).
	if table.Len() != len(routes)*4 {
		t.Fatalf("Len() = %d, want %d", table.Len(), len(routes)*4)
	}

	// No duplicate paths or names.
	paths := make(map[string]bool)
	names := make(map[string]bool)
	for _, e := range table.Entries() {
		if paths[e.Path] {
			t.Errorf("duplicate path %q", e.Path)
		}
		if names[e.Name] {
			t.Errorf("duplicate name %q", e.Name)
		}
		paths[e.Path] = true
		names[e.Name] = true
	}

	tests := []struct {
		name     string
		wantPath string
	}{
		{"about.en", "/about"}, // default locale is unprefixed
		{"about.fr", "/fr/a-propos"},
		{"about.pt", "/pt/sobre"},
		{"about.jp", "/jp/about"}, // jp reuses the english segment
		{"home.en", "/"},
		{"home.fr", "/fr"},
		{"contact.pt", "/pt/contato"},
	}
	for _, tt := range tests {
		e, ok := table.byName[tt.name]
		if !ok {
			t.Errorf("entry %q missing", tt.name)
			continue
		}
		if e.Path != tt.wantPath {
			t.Errorf("entry %q path = %q, want %q", tt.name, e.Path, tt.wantPath)
		}
		if e.Method != "GET" {
			t.Errorf("entry %q method = %q, want GET", tt.name, e.Method)
		}
	}
}

func TestBuildWithSuffix(t *testing.T) {
	reg := testRegistry(t)
	paths := PathTable{
		"category": {"en": "category", "pt": "categoria", "fr": "categorie"},
	}
	routes := []LogicalRoute{
		{Key: "category", Suffix: "/{slug}", HandlerRef: "content.category"},
	}

	table, err := Build(routes, reg, paths)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	e, ok := table.Lookup("category", "fr")
	if !ok {
		t.Fatal("Lookup(category, fr) not found")
	}
	if e.Path != "/fr/categorie/{slug}" {
		t.Errorf("path = %q, want /fr/categorie/{slug}", e.Path)
	}

	url, ok := table.URLFor("category", "fr", "slug", "nouvelles")
	if !ok {
		t.Fatal("URLFor(category, fr) not found")
	}
	if url != "/fr/categorie/nouvelles" {
		t.Errorf("URLFor = %q, want /fr/categorie/nouvelles", url)
	}
}

func TestBuildDuplicateDetection(t *testing.T) {
	reg := testRegistry(t)

	t.Run("duplicate key collides on name", func(t *testing.T) {
		routes := []LogicalRoute{
			{Key: "about", HandlerRef: "a"},
			{Key: "about", HandlerRef: "b"},
		}
		if _, err := Build(routes, reg, testPaths()); err == nil {
			t.Fatal("Build() expected error for duplicate route key")
		}
	})

	t.Run("distinct keys colliding on path", func(t *testing.T) {
		paths := PathTable{
			"imprint": {"en": "legal"},
			"terms":   {"en": "legal"},
		}
		routes := []LogicalRoute{
			{Key: "imprint", HandlerRef: "a"},
			{Key: "terms", HandlerRef: "b"},
		}
		if _, err := Build(routes, reg, paths); err == nil {
			t.Fatal("Build() expected error for duplicate path")
		}
	})

	t.Run("empty key", func(t *testing.T) {
		if _, err := Build([]LogicalRoute{{Key: ""}}, reg, testPaths()); err == nil {
			t.Fatal("Build() expected error for empty key")
		}
	})
}

func TestMount(t *testing.T) {
	reg := testRegistry(t)
	routes := []LogicalRoute{
		{Key: "about", HandlerRef: "page.about"},
	}
	table, err := Build(routes, reg, testPaths())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var served string
	handlers := HandlerSet{
		"page.about": func(w http.ResponseWriter, r *http.Request) {
			served = r.URL.Path
			w.WriteHeader(http.StatusOK)
		},
	}

	r := chi.NewRouter()
	if err := Mount(r, table, handlers); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	for _, path := range []string{"/about", "/fr/a-propos", "/pt/sobre", "/jp/about"} {
		served = ""
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
		if served != path {
			t.Errorf("GET %s served path %q", path, served)
		}
	}
}

func TestMountUnknownHandler(t *testing.T) {
	reg := testRegistry(t)
	table, err := Build([]LogicalRoute{{Key: "about", HandlerRef: "missing"}}, reg, testPaths())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := Mount(chi.NewRouter(), table, HandlerSet{}); err == nil {
		t.Fatal("Mount() expected error for unknown handler ref")
	}
}
