// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/linguacms/linguacms/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func createCategory(t *testing.T, q *Queries) model.Category {
	t.Helper()
	now := time.Now().UTC()
	c, err := q.CreateCategory(context.Background(), CreateCategoryParams{
		Position:  1,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return c
}

func TestUpsertTranslationOverwrites(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	cat := createCategory(t, q)

	first, err := q.UpsertTranslation(ctx, UpsertTranslationParams{
		Kind:     model.EntityKindCategory,
		EntityID: cat.ID,
		Locale:   "fr",
		Name:     "Voyage",
		Slug:     "voyage",
		Now:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := q.UpsertTranslation(ctx, UpsertTranslationParams{
		Kind:     model.EntityKindCategory,
		EntityID: cat.ID,
		Locale:   "fr",
		Name:     "Voyages",
		Slug:     "voyages",
		Now:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second upsert created a new row: id %d != %d", second.ID, first.ID)
	}
	if second.Name != "Voyages" {
		t.Errorf("name = %q, want %q", second.Name, "Voyages")
	}

	all, err := q.ListTranslations(ctx, model.EntityKindCategory, cat.ID)
	if err != nil {
		t.Fatalf("ListTranslations: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d translation rows, want 1", len(all))
	}
	if all[0].Slug != "voyages" {
		t.Errorf("slug = %q, want %q", all[0].Slug, "voyages")
	}
}

func TestDeleteCategoryCascadesTranslations(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	cat := createCategory(t, q)

	for _, loc := range []string{"en", "fr", "pt"} {
		if _, err := q.UpsertTranslation(ctx, UpsertTranslationParams{
			Kind:     model.EntityKindCategory,
			EntityID: cat.ID,
			Locale:   loc,
			Name:     "Travel " + loc,
			Slug:     "travel-" + loc,
			Now:      time.Now().UTC(),
		}); err != nil {
			t.Fatalf("upsert %s: %v", loc, err)
		}
	}

	if err := q.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	all, err := q.ListTranslations(ctx, model.EntityKindCategory, cat.ID)
	if err != nil {
		t.Fatalf("ListTranslations: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("got %d orphaned translation rows after delete, want 0", len(all))
	}
}

func TestGetTranslationMissingReturnsNoRows(t *testing.T) {
	q := New(testDB(t))
	cat := createCategory(t, q)

	_, err := q.GetTranslation(context.Background(), GetTranslationParams{
		Kind:     model.EntityKindCategory,
		EntityID: cat.ID,
		Locale:   "jp",
	})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestGetTranslationBySlug(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	cat := createCategory(t, q)

	if _, err := q.UpsertTranslation(ctx, UpsertTranslationParams{
		Kind:     model.EntityKindCategory,
		EntityID: cat.ID,
		Locale:   "pt",
		Name:     "Culinária",
		Slug:     "culinaria",
		Now:      time.Now().UTC(),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	tr, err := q.GetTranslationBySlug(ctx, GetTranslationBySlugParams{
		Kind:   model.EntityKindCategory,
		Locale: "pt",
		Slug:   "culinaria",
	})
	if err != nil {
		t.Fatalf("GetTranslationBySlug: %v", err)
	}
	if tr.EntityID != cat.ID {
		t.Errorf("entity id = %d, want %d", tr.EntityID, cat.ID)
	}

	// Same slug under another locale does not match.
	_, err = q.GetTranslationBySlug(ctx, GetTranslationBySlugParams{
		Kind:   model.EntityKindCategory,
		Locale: "fr",
		Slug:   "culinaria",
	})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("cross-locale lookup err = %v, want sql.ErrNoRows", err)
	}
}

func TestUnknownTranslationKind(t *testing.T) {
	q := New(testDB(t))
	_, err := q.GetTranslation(context.Background(), GetTranslationParams{
		Kind:     "widget",
		EntityID: 1,
		Locale:   "en",
	})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestListDueScheduledPosts(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	cat := createCategory(t, q)
	now := time.Now().UTC()

	due, err := q.CreatePost(ctx, CreatePostParams{
		CategoryID: cat.ID,
		Status:     model.StatusScheduled,
		PublishAt:  sql.NullTime{Time: now.Add(-time.Minute), Valid: true},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("create due post: %v", err)
	}
	if _, err := q.CreatePost(ctx, CreatePostParams{
		CategoryID: cat.ID,
		Status:     model.StatusScheduled,
		PublishAt:  sql.NullTime{Time: now.Add(time.Hour), Valid: true},
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("create future post: %v", err)
	}

	got, err := q.ListDueScheduledPosts(ctx, now)
	if err != nil {
		t.Fatalf("ListDueScheduledPosts: %v", err)
	}
	if len(got) != 1 || got[0].ID != due.ID {
		t.Fatalf("got %d due posts, want exactly the past-due one", len(got))
	}

	if err := q.PublishPost(ctx, PublishPostParams{ID: due.ID, UpdatedAt: now}); err != nil {
		t.Fatalf("PublishPost: %v", err)
	}
	p, err := q.GetPostByID(ctx, due.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if p.Status != model.StatusPublished {
		t.Errorf("status = %q, want published", p.Status)
	}
}

func TestSeedIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	if err := Seed(ctx, db, log); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	q := New(db)
	n1, err := q.CountCategories(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n1 == 0 {
		t.Fatal("seed created no categories")
	}

	if err := Seed(ctx, db, log); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	n2, err := q.CountCategories(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n2 != n1 {
		t.Errorf("second seed changed category count: %d -> %d", n1, n2)
	}
}
