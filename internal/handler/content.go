// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linguacms/linguacms/internal/locale"
	"github.com/linguacms/linguacms/internal/model"
	"github.com/linguacms/linguacms/internal/store"
	"github.com/linguacms/linguacms/internal/translation"
)

// API serves the content management endpoints under /api/v1.
type API struct {
	q   *store.Queries
	tr  *translation.Service
	reg *locale.Registry
	log *slog.Logger
}

// NewAPI wires the management API handlers.
func NewAPI(q *store.Queries, tr *translation.Service, reg *locale.Registry, log *slog.Logger) *API {
	return &API{q: q, tr: tr, reg: reg, log: log}
}

// Routes registers the management endpoints on r. The caller wraps r
// with the write rate limiter.
func (a *API) Routes(r chi.Router) {
	r.Get("/locales", a.ListLocales)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", a.ListCategories)
		r.Post("/", a.CreateCategory)
		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", a.GetCategory)
			r.Delete("/", a.DeleteCategory)
			r.Put("/translations/{locale}", a.PutCategoryTranslation)
			r.Delete("/translations/{locale}", a.DeleteCategoryTranslation)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", a.ListPosts)
		r.Post("/", a.CreatePost)
		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", a.GetPost)
			r.Patch("/", a.UpdatePost)
			r.Delete("/", a.DeletePost)
			r.Put("/translations/{locale}", a.PutPostTranslation)
			r.Delete("/translations/{locale}", a.DeletePostTranslation)
		})
	})
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// translationInput is the write shape for one locale's translation.
type translationInput struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
}

func (in translationInput) fields() model.TranslationFields {
	return model.TranslationFields{Name: in.Name, Slug: in.Slug, Content: in.Content}
}

// writeTranslationError maps service write errors to HTTP statuses.
func (a *API) writeTranslationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, translation.ErrUnsupportedLocale):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, translation.ErrInvalidFields):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.log.Error("translation write", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ListLocales exposes the configured locale registry. The set is
// static configuration, so this endpoint is read-only.
func (a *API) ListLocales(w http.ResponseWriter, r *http.Request) {
	out := make([]localeView, 0)
	for _, l := range a.reg.Supported() {
		out = append(out, toLocaleView(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locales":  out,
		"default":  a.reg.Default().Code,
		"fallback": a.reg.Fallback(),
	})
}

type categoryView struct {
	ID           int64               `json:"id"`
	Position     int64               `json:"position"`
	Translations []model.Translation `json:"translations"`
}

func (a *API) categoryView(r *http.Request, c model.Category) (categoryView, error) {
	trs, err := a.tr.GetAll(r.Context(), model.EntityKindCategory, c.ID)
	if err != nil {
		return categoryView{}, err
	}
	if trs == nil {
		trs = []model.Translation{}
	}
	return categoryView{ID: c.ID, Position: c.Position, Translations: trs}, nil
}

func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.q.ListCategories(r.Context())
	if err != nil {
		a.log.Error("listing categories", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		v, err := a.categoryView(r, c)
		if err != nil {
			a.log.Error("loading category translations", "source", "api", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

type createCategoryRequest struct {
	Position     int64                       `json:"position"`
	Translations map[string]translationInput `json:"translations"`
}

func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	now := time.Now().UTC()
	cat, err := a.q.CreateCategory(r.Context(), store.CreateCategoryParams{
		Position:  req.Position,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		a.log.Error("creating category", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	for code, in := range req.Translations {
		if _, err := a.tr.Put(r.Context(), model.EntityKindCategory, cat.ID, code, in.fields()); err != nil {
			a.writeTranslationError(w, err)
			return
		}
	}

	v, err := a.categoryView(r, cat)
	if err != nil {
		a.log.Error("loading category translations", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (a *API) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	cat, err := a.q.GetCategoryByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		a.log.Error("loading category", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	v, err := a.categoryView(r, cat)
	if err != nil {
		a.log.Error("loading category translations", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// DeleteCategory removes a category and, via the cascade, all its
// translation rows. Categories that still hold posts cannot be
// deleted: the posts' foreign key has no cascade on purpose.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	n, err := a.q.CountPostsByCategory(r.Context(), id)
	if err != nil {
		a.log.Error("counting posts", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if n > 0 {
		writeError(w, http.StatusConflict, "category still has posts")
		return
	}

	if err := a.q.DeleteCategory(r.Context(), id); err != nil {
		a.log.Error("deleting category", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	a.tr.Invalidate(r.Context(), model.EntityKindCategory, id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) PutCategoryTranslation(w http.ResponseWriter, r *http.Request) {
	a.putTranslation(w, r, model.EntityKindCategory)
}

func (a *API) DeleteCategoryTranslation(w http.ResponseWriter, r *http.Request) {
	a.deleteTranslation(w, r, model.EntityKindCategory)
}

func (a *API) putTranslation(w http.ResponseWriter, r *http.Request, kind string) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	code := chi.URLParam(r, "locale")

	var in translationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tr, err := a.tr.Put(r.Context(), kind, id, code, in.fields())
	if err != nil {
		a.writeTranslationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (a *API) deleteTranslation(w http.ResponseWriter, r *http.Request, kind string) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := a.tr.Delete(r.Context(), kind, id, chi.URLParam(r, "locale")); err != nil {
		a.log.Error("deleting translation", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type postDetail struct {
	ID           int64               `json:"id"`
	CategoryID   int64               `json:"category_id"`
	Status       string              `json:"status"`
	PublishAt    *time.Time          `json:"publish_at,omitempty"`
	Translations []model.Translation `json:"translations"`
}

func (a *API) postDetail(r *http.Request, p model.Post) (postDetail, error) {
	trs, err := a.tr.GetAll(r.Context(), model.EntityKindPost, p.ID)
	if err != nil {
		return postDetail{}, err
	}
	if trs == nil {
		trs = []model.Translation{}
	}
	d := postDetail{
		ID:           p.ID,
		CategoryID:   p.CategoryID,
		Status:       p.Status,
		Translations: trs,
	}
	if p.PublishAt.Valid {
		t := p.PublishAt.Time
		d.PublishAt = &t
	}
	return d, nil
}

func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := parsePagination(r)

	posts, err := a.q.ListPosts(r.Context(), store.ListPostsParams{
		Limit:  page.limit(),
		Offset: page.offset(),
	})
	if err != nil {
		a.log.Error("listing posts", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	total, err := a.q.CountPosts(r.Context())
	if err != nil {
		a.log.Error("counting posts", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	page.Total = total

	out := make([]postDetail, 0, len(posts))
	for _, p := range posts {
		d, err := a.postDetail(r, p)
		if err != nil {
			a.log.Error("loading post translations", "source", "api", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": out, "pagination": page})
}

type createPostRequest struct {
	CategoryID   int64                       `json:"category_id"`
	Status       string                      `json:"status"`
	PublishAt    *time.Time                  `json:"publish_at"`
	Translations map[string]translationInput `json:"translations"`
}

func validStatus(s string) bool {
	switch s {
	case model.StatusDraft, model.StatusScheduled, model.StatusPublished:
		return true
	}
	return false
}

func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Status == "" {
		req.Status = model.StatusDraft
	}
	if !validStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status "+strconv.Quote(req.Status))
		return
	}
	if req.Status == model.StatusScheduled && req.PublishAt == nil {
		writeError(w, http.StatusBadRequest, "scheduled posts need publish_at")
		return
	}

	if _, err := a.q.GetCategoryByID(r.Context(), req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusUnprocessableEntity, "category does not exist")
			return
		}
		a.log.Error("loading category", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now().UTC()
	var publishAt sql.NullTime
	if req.PublishAt != nil {
		publishAt = sql.NullTime{Time: req.PublishAt.UTC(), Valid: true}
	}

	post, err := a.q.CreatePost(r.Context(), store.CreatePostParams{
		CategoryID: req.CategoryID,
		Status:     req.Status,
		PublishAt:  publishAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		a.log.Error("creating post", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	for code, in := range req.Translations {
		if _, err := a.tr.Put(r.Context(), model.EntityKindPost, post.ID, code, in.fields()); err != nil {
			a.writeTranslationError(w, err)
			return
		}
	}

	d, err := a.postDetail(r, post)
	if err != nil {
		a.log.Error("loading post translations", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	post, err := a.q.GetPostByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		a.log.Error("loading post", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	d, err := a.postDetail(r, post)
	if err != nil {
		a.log.Error("loading post translations", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type updatePostRequest struct {
	CategoryID *int64     `json:"category_id"`
	Status     *string    `json:"status"`
	PublishAt  *time.Time `json:"publish_at"`
}

func (a *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	post, err := a.q.GetPostByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		a.log.Error("loading post", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	categoryID := post.CategoryID
	if req.CategoryID != nil {
		categoryID = *req.CategoryID
	}
	status := post.Status
	if req.Status != nil {
		status = *req.Status
	}
	if !validStatus(status) {
		writeError(w, http.StatusBadRequest, "invalid status "+strconv.Quote(status))
		return
	}
	publishAt := post.PublishAt
	if req.PublishAt != nil {
		publishAt = sql.NullTime{Time: req.PublishAt.UTC(), Valid: true}
	}

	updated, err := a.q.UpdatePost(r.Context(), store.UpdatePostParams{
		ID:         id,
		CategoryID: categoryID,
		Status:     status,
		PublishAt:  publishAt,
		UpdatedAt:  time.Now().UTC(),
	})
	if err != nil {
		a.log.Error("updating post", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	a.tr.Invalidate(r.Context(), model.EntityKindPost, id)

	d, err := a.postDetail(r, updated)
	if err != nil {
		a.log.Error("loading post translations", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeletePost removes a post; translation rows cascade away with it.
func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := a.q.DeletePost(r.Context(), id); err != nil {
		a.log.Error("deleting post", "source", "api", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	a.tr.Invalidate(r.Context(), model.EntityKindPost, id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) PutPostTranslation(w http.ResponseWriter, r *http.Request) {
	a.putTranslation(w, r, model.EntityKindPost)
}

func (a *API) DeletePostTranslation(w http.ResponseWriter, r *http.Request) {
	a.deleteTranslation(w, r, model.EntityKindPost)
}
