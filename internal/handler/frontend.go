// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/linguacms/linguacms/internal/i18n"
	"github.com/linguacms/linguacms/internal/locale"
	"github.com/linguacms/linguacms/internal/middleware"
	"github.com/linguacms/linguacms/internal/model"
	"github.com/linguacms/linguacms/internal/routing"
	"github.com/linguacms/linguacms/internal/store"
	"github.com/linguacms/linguacms/internal/translation"
)

// Frontend serves the localized read endpoints generated from the
// route table. Everything is JSON; post bodies are stored as Markdown
// and rendered to sanitized HTML on the way out.
type Frontend struct {
	q        *store.Queries
	tr       *translation.Service
	ui       *i18n.Translator
	table    *routing.Table
	reg      *locale.Registry
	log      *slog.Logger
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

// NewFrontend wires the localized read handlers.
func NewFrontend(q *store.Queries, tr *translation.Service, ui *i18n.Translator, table *routing.Table, reg *locale.Registry, log *slog.Logger) *Frontend {
	return &Frontend{
		q:     q,
		tr:    tr,
		ui:    ui,
		table: table,
		reg:   reg,
		log:   log,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		sanitize: bluemonday.UGCPolicy(),
	}
}

// Handlers returns the handler set the route table mounts.
func (f *Frontend) Handlers() routing.HandlerSet {
	return routing.HandlerSet{
		"home":     f.Home,
		"about":    f.StaticPage("page_title_about"),
		"contact":  f.StaticPage("page_title_contact"),
		"blog":     f.Blog,
		"category": f.Category,
		"post":     f.Post,
	}
}

// renderMarkdown converts stored Markdown to sanitized HTML.
func (f *Frontend) renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := f.md.Convert([]byte(src), &buf); err != nil {
		f.log.Warn("markdown render failed", "source", "frontend", "error", err)
		return ""
	}
	return string(f.sanitize.SanitizeBytes(buf.Bytes()))
}

type altLink struct {
	Locale string `json:"locale"`
	URL    string `json:"url"`
}

// alternates lists the hreflang links of a logical route across every
// supported locale, substituting params into the path pattern.
func (f *Frontend) alternates(key string, params ...string) []altLink {
	out := make([]altLink, 0, len(f.reg.Codes()))
	for _, code := range f.reg.Codes() {
		if url, ok := f.table.URLFor(key, code, params...); ok {
			out = append(out, altLink{Locale: code, URL: url})
		}
	}
	return out
}

type localeView struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Direction  string `json:"direction"`
	IsDefault  bool   `json:"is_default"`
}

func toLocaleView(l model.Locale) localeView {
	return localeView{
		Code:       l.Code,
		Name:       l.Name,
		NativeName: l.NativeName,
		Direction:  l.Direction,
		IsDefault:  l.IsDefault,
	}
}

type postView struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Locale      string `json:"locale"`
	URL         string `json:"url,omitempty"`
	ContentHTML string `json:"content_html,omitempty"`
}

// postViews localizes a batch of posts for the active locale. Posts
// with no translation anywhere in the fallback chain are skipped, not
// errored: a half-translated site still serves what it has.
func (f *Frontend) postViews(r *http.Request, active model.Locale, posts []model.Post, withContent bool) []postView {
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		tr, err := f.tr.Get(r.Context(), model.EntityKindPost, p.ID, active.Code)
		if errors.Is(err, translation.ErrNotFound) {
			continue
		}
		if err != nil {
			f.log.Error("localizing post", "source", "frontend", "post", p.ID, "error", err)
			continue
		}
		v := postView{
			ID:         p.ID,
			CategoryID: p.CategoryID,
			Name:       tr.Name,
			Slug:       tr.Slug,
			Locale:     tr.Locale,
		}
		// Link with the slug of the locale that actually served the
		// row, so the URL resolves.
		if url, ok := f.table.URLFor("post", tr.Locale, "slug", tr.Slug); ok {
			v.URL = url
		}
		if withContent {
			v.ContentHTML = f.renderMarkdown(tr.Content)
		}
		out = append(out, v)
	}
	return out
}

// Home serves the localized landing payload: the active locale, the
// supported set with links, navigation labels, and recent posts.
func (f *Frontend) Home(w http.ResponseWriter, r *http.Request) {
	active := middleware.ActiveLocale(r.Context())

	posts, err := f.q.ListPublishedPosts(r.Context(), store.ListPublishedPostsParams{Limit: 5, Offset: 0})
	if err != nil {
		f.log.Error("listing posts", "source", "frontend", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	locales := make([]localeView, 0, len(f.reg.Codes()))
	for _, l := range f.reg.Supported() {
		locales = append(locales, toLocaleView(l))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"locale":  toLocaleView(active),
		"locales": locales,
		"nav": map[string]string{
			"home":    f.ui.T(active.Code, "nav_home", nil),
			"blog":    f.ui.T(active.Code, "nav_blog", nil),
			"about":   f.ui.T(active.Code, "nav_about", nil),
			"contact": f.ui.T(active.Code, "nav_contact", nil),
		},
		"alternates":   f.alternates("home"),
		"recent_posts": f.postViews(r, active, posts, false),
	})
}

// StaticPage serves a fixed page identified by its title message id.
func (f *Frontend) StaticPage(titleID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active := middleware.ActiveLocale(r.Context())
		key := routeKey(r, f.table)
		writeJSON(w, http.StatusOK, map[string]any{
			"locale":     toLocaleView(active),
			"title":      f.ui.T(active.Code, titleID, nil),
			"alternates": f.alternates(key),
		})
	}
}

// routeKey recovers the logical route key for the matched chi pattern
// by scanning the table. Falls back to empty (no alternates).
func routeKey(r *http.Request, t *routing.Table) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	pattern := rctx.RoutePattern()
	for _, e := range t.Entries() {
		if e.Path == pattern {
			return e.Key
		}
	}
	return ""
}

// Blog serves the paginated published-post index.
func (f *Frontend) Blog(w http.ResponseWriter, r *http.Request) {
	active := middleware.ActiveLocale(r.Context())
	page := parsePagination(r)

	posts, err := f.q.ListPublishedPosts(r.Context(), store.ListPublishedPostsParams{
		Limit:  page.limit(),
		Offset: page.offset(),
	})
	if err != nil {
		f.log.Error("listing posts", "source", "frontend", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	total, err := f.q.CountPosts(r.Context())
	if err != nil {
		f.log.Error("counting posts", "source", "frontend", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	page.Total = total

	writeJSON(w, http.StatusOK, map[string]any{
		"locale":     toLocaleView(active),
		"title":      f.ui.T(active.Code, "page_title_blog", nil),
		"alternates": f.alternates("blog"),
		"posts":      f.postViews(r, active, posts, false),
		"pagination": page,
	})
}

// Category resolves a localized category slug and lists its published
// posts. The slug must exist in the active locale exactly; a French
// URL never matches a Portuguese slug.
func (f *Frontend) Category(w http.ResponseWriter, r *http.Request) {
	active := middleware.ActiveLocale(r.Context())
	slug := chi.URLParam(r, "slug")

	catTr, err := f.tr.BySlug(r.Context(), model.EntityKindCategory, active.Code, slug)
	if errors.Is(err, translation.ErrNotFound) {
		writeError(w, http.StatusNotFound, f.ui.T(active.Code, "not_found", nil))
		return
	}
	if err != nil {
		f.log.Error("resolving category slug", "source", "frontend", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	posts, err := f.q.ListPublishedPostsByCategory(r.Context(), catTr.EntityID)
	if err != nil {
		f.log.Error("listing category posts", "source", "frontend", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"locale": toLocaleView(active),
		"category": map[string]any{
			"id":     catTr.EntityID,
			"name":   catTr.Name,
			"slug":   catTr.Slug,
			"locale": catTr.Locale,
		},
		"alternates": f.entityAlternates("category", model.EntityKindCategory, catTr.EntityID, r),
		"posts":      f.postViews(r, active, posts, false),
	})
}

// Post serves one post with rendered content.
func (f *Frontend) Post(w http.ResponseWriter, r *http.Request) {
	active := middleware.ActiveLocale(r.Context())
	slug := chi.URLParam(r, "slug")

	tr, err := f.tr.BySlug(r.Context(), model.EntityKindPost, active.Code, slug)
	if errors.Is(err, translation.ErrNotFound) {
		writeError(w, http.StatusNotFound, f.ui.T(active.Code, "not_found", nil))
		return
	}
	if err != nil {
		f.log.Error("resolving post slug", "source", "frontend", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	post, err := f.q.GetPostByID(r.Context(), tr.EntityID)
	if err != nil {
		f.log.Error("loading post", "source", "frontend", "post", tr.EntityID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !post.IsPublished() {
		writeError(w, http.StatusNotFound, f.ui.T(active.Code, "not_found", nil))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"locale": toLocaleView(active),
		"post": postView{
			ID:          post.ID,
			CategoryID:  post.CategoryID,
			Name:        tr.Name,
			Slug:        tr.Slug,
			Locale:      tr.Locale,
			ContentHTML: f.renderMarkdown(tr.Content),
		},
		"alternates": f.entityAlternates("post", model.EntityKindPost, tr.EntityID, r),
	})
}

// entityAlternates builds hreflang links for an entity-backed route:
// each locale link carries that locale's own slug, and locales without
// a translation row get no link at all.
func (f *Frontend) entityAlternates(routeKey, kind string, entityID int64, r *http.Request) []altLink {
	rows, err := f.tr.GetAll(r.Context(), kind, entityID)
	if err != nil {
		f.log.Error("listing entity translations", "source", "frontend", "entity", entityID, "error", err)
		return nil
	}
	out := make([]altLink, 0, len(rows))
	for _, code := range f.reg.Codes() {
		for _, row := range rows {
			if row.Locale != code {
				continue
			}
			if url, ok := f.table.URLFor(routeKey, code, "slug", row.Slug); ok {
				out = append(out, altLink{Locale: code, URL: url})
			}
		}
	}
	return out
}
