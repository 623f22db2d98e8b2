// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linguacms/linguacms/internal/model"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer needs.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries wraps a database handle with typed query methods.
type Queries struct {
	db DBTX
}

// New creates a Queries instance over db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// translationTable returns the satellite table and entity column for a
// translation kind. Unknown kinds are a programming error.
func translationTable(kind string) (table, entityCol string, err error) {
	switch kind {
	case model.EntityKindCategory:
		return "category_translations", "category_id", nil
	case model.EntityKindPost:
		return "post_translations", "post_id", nil
	default:
		return "", "", fmt.Errorf("store: unknown translation kind %q", kind)
	}
}

// CreateCategoryParams holds fields for CreateCategory.
type CreateCategoryParams struct {
	Position  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCategory inserts a category row.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO categories (position, created_at, updated_at)
		VALUES (?, ?, ?)
		RETURNING id, position, created_at, updated_at`,
		arg.Position, arg.CreatedAt, arg.UpdatedAt,
	)
	var c model.Category
	err := row.Scan(&c.ID, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetCategoryByID fetches a category by id.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, position, created_at, updated_at FROM categories WHERE id = ?`, id)
	var c model.Category
	err := row.Scan(&c.ID, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListCategories returns all categories ordered by position, then id.
func (q *Queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, position, created_at, updated_at
		FROM categories ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountCategories returns the number of categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}

// CountPostsByCategory returns the number of posts referencing a category.
func (q *Queries) CountPostsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE category_id = ?`, categoryID).Scan(&n)
	return n, err
}

// DeleteCategory removes a category. Its translation rows go with it
// via the ON DELETE CASCADE foreign key.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

// CreatePostParams holds fields for CreatePost.
type CreatePostParams struct {
	CategoryID int64
	Status     string
	PublishAt  sql.NullTime
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreatePost inserts a post row.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (category_id, status, publish_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, category_id, status, publish_at, created_at, updated_at`,
		arg.CategoryID, arg.Status, arg.PublishAt, arg.CreatedAt, arg.UpdatedAt,
	)
	return scanPost(row)
}

// GetPostByID fetches a post by id.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, category_id, status, publish_at, created_at, updated_at
		FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// ListPostsParams holds pagination for ListPosts.
type ListPostsParams struct {
	Limit  int64
	Offset int64
}

// ListPosts returns posts ordered newest first.
func (q *Queries) ListPosts(ctx context.Context, arg ListPostsParams) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, category_id, status, publish_at, created_at, updated_at
		FROM posts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// ListPublishedPostsParams holds pagination for ListPublishedPosts.
type ListPublishedPostsParams struct {
	Limit  int64
	Offset int64
}

// ListPublishedPosts returns published posts ordered newest first.
func (q *Queries) ListPublishedPosts(ctx context.Context, arg ListPublishedPostsParams) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, category_id, status, publish_at, created_at, updated_at
		FROM posts WHERE status = 'published'
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// ListPublishedPostsByCategory returns published posts in a category.
func (q *Queries) ListPublishedPostsByCategory(ctx context.Context, categoryID int64) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, category_id, status, publish_at, created_at, updated_at
		FROM posts WHERE category_id = ? AND status = 'published'
		ORDER BY created_at DESC, id DESC`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// CountPosts returns the number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// UpdatePostParams holds fields for UpdatePost.
type UpdatePostParams struct {
	ID         int64
	CategoryID int64
	Status     string
	PublishAt  sql.NullTime
	UpdatedAt  time.Time
}

// UpdatePost updates a post's category, status, and schedule.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE posts SET category_id = ?, status = ?, publish_at = ?, updated_at = ?
		WHERE id = ?
		RETURNING id, category_id, status, publish_at, created_at, updated_at`,
		arg.CategoryID, arg.Status, arg.PublishAt, arg.UpdatedAt, arg.ID,
	)
	return scanPost(row)
}

// ListDueScheduledPosts returns scheduled posts whose publish time has passed.
func (q *Queries) ListDueScheduledPosts(ctx context.Context, now time.Time) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, category_id, status, publish_at, created_at, updated_at
		FROM posts WHERE status = 'scheduled' AND publish_at IS NOT NULL AND publish_at <= ?
		ORDER BY publish_at`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// PublishPostParams holds fields for PublishPost.
type PublishPostParams struct {
	ID        int64
	UpdatedAt time.Time
}

// PublishPost flips a post to published.
func (q *Queries) PublishPost(ctx context.Context, arg PublishPostParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE posts SET status = 'published', updated_at = ? WHERE id = ?`,
		arg.UpdatedAt, arg.ID)
	return err
}

// DeletePost removes a post and, via cascade, its translation rows.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

// UpsertTranslationParams identifies a translation row and its fields.
type UpsertTranslationParams struct {
	Kind     string
	EntityID int64
	Locale   string
	Name     string
	Slug     string
	Content  string
	Now      time.Time
}

// UpsertTranslation inserts or overwrites the translation for an
// (entity, locale) pair. The UNIQUE constraint plus ON CONFLICT DO
// UPDATE makes a repeated put update in place: last writer wins, never
// a duplicate row, and readers never observe a partial write.
func (q *Queries) UpsertTranslation(ctx context.Context, arg UpsertTranslationParams) (model.Translation, error) {
	table, entityCol, err := translationTable(arg.Kind)
	if err != nil {
		return model.Translation{}, err
	}

	row := q.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, locale, name, slug, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (%[2]s, locale) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			content = excluded.content,
			updated_at = excluded.updated_at
		RETURNING id, %[2]s, locale, name, slug, content, created_at, updated_at`,
		table, entityCol),
		arg.EntityID, arg.Locale, arg.Name, arg.Slug, arg.Content, arg.Now, arg.Now,
	)
	return scanTranslation(row, arg.Kind)
}

// GetTranslationParams identifies a translation row.
type GetTranslationParams struct {
	Kind     string
	EntityID int64
	Locale   string
}

// GetTranslation fetches the translation for an (entity, locale) pair.
// Returns sql.ErrNoRows when the pair has no translation.
func (q *Queries) GetTranslation(ctx context.Context, arg GetTranslationParams) (model.Translation, error) {
	table, entityCol, err := translationTable(arg.Kind)
	if err != nil {
		return model.Translation{}, err
	}

	row := q.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, %[2]s, locale, name, slug, content, created_at, updated_at
		FROM %[1]s WHERE %[2]s = ? AND locale = ?`, table, entityCol),
		arg.EntityID, arg.Locale,
	)
	return scanTranslation(row, arg.Kind)
}

// ListTranslations returns all translations of an entity.
func (q *Queries) ListTranslations(ctx context.Context, kind string, entityID int64) ([]model.Translation, error) {
	table, entityCol, err := translationTable(kind)
	if err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, %[2]s, locale, name, slug, content, created_at, updated_at
		FROM %[1]s WHERE %[2]s = ? ORDER BY locale`, table, entityCol),
		entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Translation
	for rows.Next() {
		var tr model.Translation
		if err := rows.Scan(&tr.ID, &tr.EntityID, &tr.Locale, &tr.Name, &tr.Slug, &tr.Content, &tr.CreatedAt, &tr.UpdatedAt); err != nil {
			return nil, err
		}
		tr.EntityKind = kind
		out = append(out, tr)
	}
	return out, rows.Err()
}

// GetTranslationBySlugParams identifies a translation by localized slug.
type GetTranslationBySlugParams struct {
	Kind   string
	Locale string
	Slug   string
}

// GetTranslationBySlug resolves a localized slug to its translation
// row (and thereby the locale-independent entity id).
func (q *Queries) GetTranslationBySlug(ctx context.Context, arg GetTranslationBySlugParams) (model.Translation, error) {
	table, entityCol, err := translationTable(arg.Kind)
	if err != nil {
		return model.Translation{}, err
	}

	row := q.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, %[2]s, locale, name, slug, content, created_at, updated_at
		FROM %[1]s WHERE locale = ? AND slug = ?`, table, entityCol),
		arg.Locale, arg.Slug,
	)
	return scanTranslation(row, arg.Kind)
}

// DeleteTranslation removes a single (entity, locale) translation.
func (q *Queries) DeleteTranslation(ctx context.Context, arg GetTranslationParams) error {
	table, entityCol, err := translationTable(arg.Kind)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM %[1]s WHERE %[2]s = ? AND locale = ?`, table, entityCol),
		arg.EntityID, arg.Locale)
	return err
}

// CreateEventParams holds fields for CreateEvent.
type CreateEventParams struct {
	Level     string
	Source    string
	Message   string
	Meta      string
	CreatedAt time.Time
}

// CreateEvent appends an audit record to the event log.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO events (level, source, message, meta, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Source, arg.Message, arg.Meta, arg.CreatedAt)
	return err
}

// ListRecentEvents returns the newest events up to limit.
func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, source, message, meta, created_at
		FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Source, &e.Message, &e.Meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranslation(row rowScanner, kind string) (model.Translation, error) {
	var tr model.Translation
	err := row.Scan(&tr.ID, &tr.EntityID, &tr.Locale, &tr.Name, &tr.Slug, &tr.Content, &tr.CreatedAt, &tr.UpdatedAt)
	if err != nil {
		return model.Translation{}, err
	}
	tr.EntityKind = kind
	return tr, nil
}

func scanPost(row rowScanner) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.CategoryID, &p.Status, &p.PublishAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	var out []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Status, &p.PublishAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
