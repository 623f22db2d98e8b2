// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linguacms/linguacms/internal/cache"
	"github.com/linguacms/linguacms/internal/i18n"
	"github.com/linguacms/linguacms/internal/locale"
	"github.com/linguacms/linguacms/internal/middleware"
	"github.com/linguacms/linguacms/internal/routing"
	"github.com/linguacms/linguacms/internal/store"
	"github.com/linguacms/linguacms/internal/translation"
)

// testApp wires the full router the way main does, over a seeded
// temp database.
func testApp(t *testing.T) (http.Handler, *store.Queries) {
	t.Helper()

	log := slog.New(slog.DiscardHandler)

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := store.Seed(t.Context(), db, log); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	reg, err := locale.NewRegistry([]string{"en", "pt", "fr", "jp"}, "en", "")
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	table, err := routing.Build(routing.DefaultRoutes(), reg, routing.DefaultPaths())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ui, err := i18n.New("en", reg.Codes(), log)
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}

	q := store.New(db)
	c := cache.NewMemory(time.Minute)
	tr := translation.NewService(q, reg, cache.NewTranslations(c), log)

	frontend := NewFrontend(q, tr, ui, table, reg, log)
	api := NewAPI(q, tr, reg, log)
	diag := NewDiagnostics(db, q, table, c, log)

	r := chi.NewRouter()
	r.Use(middleware.TrimTrailingSlash)
	r.Use(middleware.LocaleResolver(reg))
	if err := routing.Mount(r, table, frontend.Handlers()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	r.Route("/api/v1", api.Routes)
	diag.Routes(r)

	return r, q
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:9999"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: bad JSON response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, out
}

func TestHomeLocalized(t *testing.T) {
	h, _ := testApp(t)

	rec, body := doJSON(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := body["locale"].(map[string]any)["code"]; code != "en" {
		t.Errorf("locale = %v, want en", code)
	}

	rec, body = doJSON(t, h, http.MethodGet, "/fr", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/fr status = %d", rec.Code)
	}
	nav := body["nav"].(map[string]any)
	if nav["about"] != "À propos" {
		t.Errorf("fr nav.about = %v", nav["about"])
	}
	if len(body["recent_posts"].([]any)) == 0 {
		t.Error("home has no recent posts")
	}
}

func TestStaticPageTranslatedSegments(t *testing.T) {
	h, _ := testApp(t)

	tests := []struct {
		path  string
		title string
	}{
		{"/about", "About us"},
		{"/fr/a-propos", "À propos de nous"},
		{"/pt/sobre", "Sobre nós"},
		{"/jp/about", "About us"}, // jp reuses English segments and strings
	}
	for _, tt := range tests {
		rec, body := doJSON(t, h, http.MethodGet, tt.path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", tt.path, rec.Code)
			continue
		}
		if body["title"] != tt.title {
			t.Errorf("%s: title = %v, want %q", tt.path, body["title"], tt.title)
		}
	}

	// The French segment is not served unprefixed.
	rec, _ := doJSON(t, h, http.MethodGet, "/a-propos", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("/a-propos status = %d, want 404", rec.Code)
	}
}

func TestBlogListsOnlyPublished(t *testing.T) {
	h, _ := testApp(t)

	rec, body := doJSON(t, h, http.MethodGet, "/blog", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	posts := body["posts"].([]any)
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2 (the scheduled one stays hidden)", len(posts))
	}
}

func TestCategorySlugIsLocaleExact(t *testing.T) {
	h, _ := testApp(t)

	rec, body := doJSON(t, h, http.MethodGet, "/fr/categorie/voyage", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fr slug status = %d", rec.Code)
	}
	cat := body["category"].(map[string]any)
	if cat["name"] != "Voyage" {
		t.Errorf("name = %v, want Voyage", cat["name"])
	}

	// The French slug does not exist under the English route.
	rec, _ = doJSON(t, h, http.MethodGet, "/category/voyage", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("en route with fr slug: status = %d, want 404", rec.Code)
	}

	// jp has its own slug for the cooking category.
	rec, _ = doJSON(t, h, http.MethodGet, "/jp/category/ryouri", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("jp slug status = %d, want 200", rec.Code)
	}
}

func TestPostRenderingAndAlternates(t *testing.T) {
	h, _ := testApp(t)

	rec, body := doJSON(t, h, http.MethodGet, "/fr/article/une-semaine-a-lisbonne", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	post := body["post"].(map[string]any)
	if post["locale"] != "fr" {
		t.Errorf("post locale = %v, want fr", post["locale"])
	}
	html := post["content_html"].(string)
	if !strings.Contains(html, "<p>") {
		t.Errorf("content_html = %q, want rendered markdown", html)
	}

	// Alternates carry each locale's own slug.
	var ptURL string
	for _, a := range body["alternates"].([]any) {
		alt := a.(map[string]any)
		if alt["locale"] == "pt" {
			ptURL = alt["url"].(string)
		}
	}
	if ptURL != "/pt/postagem/uma-semana-em-lisboa" {
		t.Errorf("pt alternate = %q", ptURL)
	}
}

func TestUnpublishedPostHidden(t *testing.T) {
	h, _ := testApp(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/post/packing-light", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("scheduled post status = %d, want 404", rec.Code)
	}
}

func TestLocalizedNotFoundMessage(t *testing.T) {
	h, _ := testApp(t)

	rec, body := doJSON(t, h, http.MethodGet, "/fr/article/nexiste-pas", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["error"] != "Page introuvable" {
		t.Errorf("error = %v, want localized message", body["error"])
	}
}

func TestAPICategoryLifecycle(t *testing.T) {
	h, _ := testApp(t)

	rec, body := doJSON(t, h, http.MethodPost, "/api/v1/categories", map[string]any{
		"position": 5,
		"translations": map[string]any{
			"en": map[string]string{"name": "Music"},
			"fr": map[string]string{"name": "Musique"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %v", rec.Code, body)
	}
	id := int64(body["id"].(float64))
	if len(body["translations"].([]any)) != 2 {
		t.Errorf("got %d translations, want 2", len(body["translations"].([]any)))
	}

	// Slug was derived from the name.
	rec, body = doJSON(t, h, http.MethodGet, "/fr/categorie/musique", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("derived slug not routable: %d %v", rec.Code, body)
	}

	// Unsupported locale on write is rejected, not silently remapped.
	rec, _ = doJSON(t, h, http.MethodPut, apiPath("categories", id, "de"), map[string]string{"name": "Musik"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unsupported locale write status = %d, want 422", rec.Code)
	}

	rec, _ = doJSON(t, h, http.MethodDelete, apiPath("categories", id, "fr"), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete translation status = %d, want 204", rec.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, categoryPath(id), nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNoContent {
		t.Errorf("delete category status = %d, want 204", rec2.Code)
	}
}

func apiPath(kind string, id int64, locale string) string {
	return "/api/v1/" + kind + "/" + strconv.FormatInt(id, 10) + "/translations/" + locale
}

func categoryPath(id int64) string {
	return "/api/v1/categories/" + strconv.FormatInt(id, 10)
}

func TestAPIDeleteCategoryWithPostsConflicts(t *testing.T) {
	h, q := testApp(t)

	cats, err := q.ListCategories(t.Context())
	if err != nil || len(cats) == 0 {
		t.Fatalf("ListCategories: %v", err)
	}

	rec, body := doJSON(t, h, http.MethodDelete, categoryPath(cats[0].ID), nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %v", rec.Code, body)
	}
}

func TestAPILocalesReadOnly(t *testing.T) {
	h, _ := testApp(t)

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/locales", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["default"] != "en" {
		t.Errorf("default = %v, want en", body["default"])
	}
	if got := len(body["locales"].([]any)); got != 4 {
		t.Errorf("got %d locales, want 4", got)
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/locales", map[string]string{"code": "de"})
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /locales status = %d, want 405", rec.Code)
	}
}

func TestRouteTableEndpoint(t *testing.T) {
	h, _ := testApp(t)

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/routes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// 6 logical routes x 4 locales.
	if got := body["count"].(float64); got != 24 {
		t.Errorf("count = %v, want 24", got)
	}
}

func TestHealth(t *testing.T) {
	h, _ := testApp(t)

	rec, body := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["database"] != "ok" {
		t.Errorf("database = %v, want ok", body["database"])
	}

	rec, _ = doJSON(t, h, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}
}
