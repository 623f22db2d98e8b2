// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the data types shared by the store, cache,
// translation, and handler layers.
package model

import (
	"database/sql"
	"time"
)

// Entity kinds owning translation rows.
const (
	EntityKindCategory = "category"
	EntityKindPost     = "post"
)

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// Category is a locale-independent content grouping. All localized
// fields (name, slug) live in translation rows keyed by the category id.
type Category struct {
	ID        int64     `json:"id"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Post is a locale-independent article. The category foreign key
// references the category id, never one of its translation rows.
type Post struct {
	ID         int64        `json:"id"`
	CategoryID int64        `json:"category_id"`
	Status     string       `json:"status"`
	PublishAt  sql.NullTime `json:"publish_at"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// IsPublished returns true if the post is visible on the frontend.
func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// Translation holds the localized fields of an entity for one locale.
// At most one translation exists per (entity, locale) pair. Categories
// use Name and Slug; posts additionally use Content (Markdown source).
type Translation struct {
	ID         int64     `json:"id"`
	EntityKind string    `json:"entity_kind"`
	EntityID   int64     `json:"entity_id"`
	Locale     string    `json:"locale"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TranslationFields are the caller-supplied localized fields of an
// upsert. Identity (entity, locale) is passed separately.
type TranslationFields struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Content string `json:"content,omitempty"`
}

// Event is an audit record written by the event log slog handler.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Meta      string    `json:"meta,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
