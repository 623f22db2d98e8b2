// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/linguacms/linguacms/internal/locale"
	"github.com/linguacms/linguacms/internal/model"
	"github.com/linguacms/linguacms/internal/store"
	"github.com/linguacms/linguacms/internal/translation"
)

func testScheduler(t *testing.T) (*Scheduler, *store.Queries) {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	reg, err := locale.NewRegistry([]string{"en"}, "en", "")
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	q := store.New(db)
	log := slog.New(slog.DiscardHandler)
	tr := translation.NewService(q, reg, nil, log)
	return New(q, tr, log), q
}

func TestPublishDuePosts(t *testing.T) {
	s, q := testScheduler(t)
	ctx := context.Background()
	now := time.Now().UTC()

	cat, err := q.CreateCategory(ctx, store.CreateCategoryParams{Position: 1, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	due, err := q.CreatePost(ctx, store.CreatePostParams{
		CategoryID: cat.ID,
		Status:     model.StatusScheduled,
		PublishAt:  sql.NullTime{Time: now.Add(-time.Minute), Valid: true},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("create due post: %v", err)
	}
	future, err := q.CreatePost(ctx, store.CreatePostParams{
		CategoryID: cat.ID,
		Status:     model.StatusScheduled,
		PublishAt:  sql.NullTime{Time: now.Add(time.Hour), Valid: true},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("create future post: %v", err)
	}

	s.publishDuePosts()

	p, err := q.GetPostByID(ctx, due.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if p.Status != model.StatusPublished {
		t.Errorf("due post status = %q, want published", p.Status)
	}

	p, err = q.GetPostByID(ctx, future.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if p.Status != model.StatusScheduled {
		t.Errorf("future post status = %q, want still scheduled", p.Status)
	}
}
