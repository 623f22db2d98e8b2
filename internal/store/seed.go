// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/linguacms/linguacms/internal/model"
)

type seedTranslation struct {
	locale  string
	name    string
	slug    string
	content string
}

// Seed populates an empty database with demo content. It is a no-op
// when categories already exist, so restarts are safe. Translation
// coverage is deliberately partial: some locales are left out to
// exercise the fallback chain at runtime.
func Seed(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	q := New(db)

	n, err := q.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("seed: count categories: %w", err)
	}
	if n > 0 {
		log.Debug("seed skipped, database not empty", "categories", n)
		return nil
	}

	now := time.Now().UTC()

	categories := []struct {
		position     int64
		translations []seedTranslation
	}{
		{
			position: 1,
			translations: []seedTranslation{
				{"en", "Travel", "travel", "Stories from the road."},
				{"fr", "Voyage", "voyage", "Récits de voyage."},
				{"pt", "Viagem", "viagem", "Histórias da estrada."},
				// no jp row: jp readers fall back
			},
		},
		{
			position: 2,
			translations: []seedTranslation{
				{"en", "Cooking", "cooking", "Recipes and kitchen notes."},
				{"fr", "Cuisine", "cuisine", "Recettes et notes de cuisine."},
				{"pt", "Culinária", "culinaria", "Receitas e notas de cozinha."},
				{"jp", "料理", "ryouri", "レシピとキッチンノート。"},
			},
		},
	}

	var categoryIDs []int64
	for _, c := range categories {
		cat, err := q.CreateCategory(ctx, CreateCategoryParams{
			Position:  c.position,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seed: create category: %w", err)
		}
		categoryIDs = append(categoryIDs, cat.ID)

		for _, tr := range c.translations {
			if _, err := q.UpsertTranslation(ctx, UpsertTranslationParams{
				Kind:     model.EntityKindCategory,
				EntityID: cat.ID,
				Locale:   tr.locale,
				Name:     tr.name,
				Slug:     tr.slug,
				Content:  tr.content,
				Now:      now,
			}); err != nil {
				return fmt.Errorf("seed: category translation %s: %w", tr.locale, err)
			}
		}
	}

	posts := []struct {
		category     int
		status       string
		publishAt    sql.NullTime
		translations []seedTranslation
	}{
		{
			category: 0,
			status:   model.StatusPublished,
			translations: []seedTranslation{
				{"en", "A Week in Lisbon", "a-week-in-lisbon", "Seven days of tram rides and pastel de nata."},
				{"fr", "Une semaine à Lisbonne", "une-semaine-a-lisbonne", "Sept jours de tramways et de pastel de nata."},
				{"pt", "Uma semana em Lisboa", "uma-semana-em-lisboa", "Sete dias de elétricos e pastéis de nata."},
			},
		},
		{
			category: 1,
			status:   model.StatusPublished,
			translations: []seedTranslation{
				{"en", "Weeknight Ramen", "weeknight-ramen", "A shortcut broth that still tastes slow."},
				{"jp", "平日のラーメン", "heijitsu-no-ramen", "手早く作れるのに本格的なスープ。"},
			},
		},
		{
			category:  0,
			status:    model.StatusScheduled,
			publishAt: sql.NullTime{Time: now.Add(24 * time.Hour), Valid: true},
			translations: []seedTranslation{
				{"en", "Packing Light", "packing-light", "One bag, two weeks, no regrets."},
			},
		},
	}

	for _, p := range posts {
		post, err := q.CreatePost(ctx, CreatePostParams{
			CategoryID: categoryIDs[p.category],
			Status:     p.status,
			PublishAt:  p.publishAt,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return fmt.Errorf("seed: create post: %w", err)
		}
		for _, tr := range p.translations {
			if _, err := q.UpsertTranslation(ctx, UpsertTranslationParams{
				Kind:     model.EntityKindPost,
				EntityID: post.ID,
				Locale:   tr.locale,
				Name:     tr.name,
				Slug:     tr.slug,
				Content:  tr.content,
				Now:      now,
			}); err != nil {
				return fmt.Errorf("seed: post translation %s: %w", tr.locale, err)
			}
		}
	}

	log.Info("seeded demo content", "categories", len(categories), "posts", len(posts))
	return nil
}
