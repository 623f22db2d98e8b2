// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linguacms/linguacms/internal/cache"
	"github.com/linguacms/linguacms/internal/model"
	"github.com/linguacms/linguacms/internal/routing"
	"github.com/linguacms/linguacms/internal/store"
	"github.com/linguacms/linguacms/internal/version"
)

// Diagnostics exposes health probes, the built route table, cache
// stats, and the recent event log.
type Diagnostics struct {
	db    *sql.DB
	q     *store.Queries
	table *routing.Table
	cache cache.Cache
	log   *slog.Logger
}

// NewDiagnostics wires the diagnostics handlers.
func NewDiagnostics(db *sql.DB, q *store.Queries, table *routing.Table, c cache.Cache, log *slog.Logger) *Diagnostics {
	return &Diagnostics{db: db, q: q, table: table, cache: c, log: log}
}

// Routes registers the diagnostics endpoints on r.
func (d *Diagnostics) Routes(r chi.Router) {
	r.Get("/health", d.Health)
	r.Get("/health/live", d.Live)
	r.Get("/health/ready", d.Ready)
	r.Get("/api/v1/routes", d.RouteTable)
	r.Get("/api/v1/stats", d.Stats)
	r.Get("/api/v1/events", d.Events)
}

// Health reports overall status with version info.
func (d *Diagnostics) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	dbStatus := "ok"
	if err := d.db.PingContext(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unreachable"
	}
	writeJSON(w, status, map[string]any{
		"status":   http.StatusText(status),
		"version":  version.Version,
		"commit":   version.Commit,
		"database": dbStatus,
	})
}

// Live answers as long as the process is up.
func (d *Diagnostics) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready answers OK only when the database is reachable.
func (d *Diagnostics) Ready(w http.ResponseWriter, r *http.Request) {
	if err := d.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// RouteTable lists every generated (route x locale) entry, in build
// order. Useful for verifying the localized path layout.
func (d *Diagnostics) RouteTable(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  d.table.Len(),
		"routes": d.table.Entries(),
	})
}

// Stats reports cache hit rates and content counts.
func (d *Diagnostics) Stats(w http.ResponseWriter, r *http.Request) {
	categories, err := d.q.CountCategories(r.Context())
	if err != nil {
		d.log.Error("counting categories", "source", "diagnostics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	posts, err := d.q.CountPosts(r.Context())
	if err != nil {
		d.log.Error("counting posts", "source", "diagnostics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	stats := d.cache.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"cache": map[string]any{
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"entries":  stats.Entries,
			"hit_rate": stats.HitRate(),
		},
		"content": map[string]int64{
			"categories": categories,
			"posts":      posts,
		},
	})
}

// Events returns the newest persisted log events.
func (d *Diagnostics) Events(w http.ResponseWriter, r *http.Request) {
	events, err := d.q.ListRecentEvents(r.Context(), 100)
	if err != nil {
		d.log.Error("listing events", "source", "diagnostics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
