// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translation resolves localized content rows with a fallback
// chain: the requested locale first, then the default locale, then the
// configured fallback locale. A miss across the whole chain is
// ErrNotFound.
package translation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linguacms/linguacms/internal/cache"
	"github.com/linguacms/linguacms/internal/locale"
	"github.com/linguacms/linguacms/internal/model"
	"github.com/linguacms/linguacms/internal/store"
	"github.com/linguacms/linguacms/internal/util"
)

var (
	// ErrNotFound means no translation exists for the entity in any
	// locale of the fallback chain.
	ErrNotFound = errors.New("translation not found")

	// ErrUnsupportedLocale means the locale is not in the configured set.
	ErrUnsupportedLocale = errors.New("unsupported locale")

	// ErrInvalidFields means a write carried a malformed name or slug.
	ErrInvalidFields = errors.New("invalid translation fields")
)

// Service is the translation lookup and write coordinator.
type Service struct {
	q     *store.Queries
	reg   *locale.Registry
	cache *cache.Translations
	log   *slog.Logger
}

// NewService wires a Service. cache may be nil to disable caching.
func NewService(q *store.Queries, reg *locale.Registry, c *cache.Translations, log *slog.Logger) *Service {
	return &Service{q: q, reg: reg, cache: c, log: log}
}

// chain returns the locales to try for a request, in order, without
// duplicates. An unsupported requested locale is skipped rather than
// rejected: reads are forgiving, writes are not.
func (s *Service) chain(requested string) []string {
	out := make([]string, 0, 3)
	seen := map[string]bool{}
	add := func(code string) {
		if code != "" && !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	if s.reg.IsSupported(requested) {
		add(requested)
	}
	add(s.reg.Default().Code)
	add(s.reg.Fallback())
	return out
}

// Get resolves the translation of (kind, entityID) for the requested
// locale, walking the fallback chain. The returned row's Locale field
// tells the caller which locale actually served the request.
func (s *Service) Get(ctx context.Context, kind string, entityID int64, requested string) (model.Translation, error) {
	if s.cache != nil {
		if tr, ok := s.cache.Get(ctx, kind, entityID, requested); ok {
			return tr, nil
		}
	}

	for _, code := range s.chain(requested) {
		tr, err := s.q.GetTranslation(ctx, store.GetTranslationParams{
			Kind:     kind,
			EntityID: entityID,
			Locale:   code,
		})
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return model.Translation{}, fmt.Errorf("get translation %s/%d/%s: %w", kind, entityID, code, err)
		}
		if s.cache != nil {
			s.cache.Set(ctx, kind, entityID, requested, tr)
		}
		return tr, nil
	}
	return model.Translation{}, ErrNotFound
}

// GetAll returns every stored translation of an entity, ordered by
// locale. No fallback applies; an entity with no rows yields an empty
// slice, not an error.
func (s *Service) GetAll(ctx context.Context, kind string, entityID int64) ([]model.Translation, error) {
	return s.q.ListTranslations(ctx, kind, entityID)
}

// BySlug resolves a localized slug to its translation row. Slugs are
// looked up in the exact locale only: "/fr/categorie/voyage" must not
// match the Portuguese slug.
func (s *Service) BySlug(ctx context.Context, kind, localeCode, slug string) (model.Translation, error) {
	tr, err := s.q.GetTranslationBySlug(ctx, store.GetTranslationBySlugParams{
		Kind:   kind,
		Locale: localeCode,
		Slug:   slug,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model.Translation{}, ErrNotFound
	}
	return tr, err
}

// Put creates or overwrites the translation of (kind, entityID) in a
// supported locale. An empty slug is derived from the name. The entity
// cache is invalidated afterwards, so stale fallback rows cached under
// other requested locales cannot outlive the write.
func (s *Service) Put(ctx context.Context, kind string, entityID int64, localeCode string, fields model.TranslationFields) (model.Translation, error) {
	if !s.reg.IsSupported(localeCode) {
		return model.Translation{}, fmt.Errorf("%w: %q", ErrUnsupportedLocale, localeCode)
	}
	if fields.Name == "" {
		return model.Translation{}, fmt.Errorf("%w: name is required", ErrInvalidFields)
	}
	slug := fields.Slug
	if slug == "" {
		slug = util.Slugify(fields.Name)
	}
	if !util.IsValidSlug(slug) {
		return model.Translation{}, fmt.Errorf("%w: bad slug %q", ErrInvalidFields, slug)
	}

	tr, err := s.q.UpsertTranslation(ctx, store.UpsertTranslationParams{
		Kind:     kind,
		EntityID: entityID,
		Locale:   localeCode,
		Name:     fields.Name,
		Slug:     slug,
		Content:  fields.Content,
		Now:      time.Now().UTC(),
	})
	if err != nil {
		return model.Translation{}, fmt.Errorf("upsert translation %s/%d/%s: %w", kind, entityID, localeCode, err)
	}

	if s.cache != nil {
		s.cache.InvalidateEntity(ctx, kind, entityID)
	}
	s.log.Debug("translation saved", "kind", kind, "entity", entityID, "locale", localeCode, "slug", slug)
	return tr, nil
}

// Delete removes a single locale's translation of an entity.
func (s *Service) Delete(ctx context.Context, kind string, entityID int64, localeCode string) error {
	if err := s.q.DeleteTranslation(ctx, store.GetTranslationParams{
		Kind:     kind,
		EntityID: entityID,
		Locale:   localeCode,
	}); err != nil {
		return fmt.Errorf("delete translation %s/%d/%s: %w", kind, entityID, localeCode, err)
	}
	if s.cache != nil {
		s.cache.InvalidateEntity(ctx, kind, entityID)
	}
	return nil
}

// Invalidate drops cached rows for one entity, for callers that mutate
// the entity outside this service (post publishing, entity deletes).
func (s *Service) Invalidate(ctx context.Context, kind string, entityID int64) {
	if s.cache != nil {
		s.cache.InvalidateEntity(ctx, kind, entityID)
	}
}
