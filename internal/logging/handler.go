// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging wires slog to the events table so warnings and
// errors survive process restarts and show up in the diagnostics API.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/linguacms/linguacms/internal/store"
)

// EventLogHandler forwards records to an inner handler and, for WARN
// and above, writes them to the events table. Database failures while
// persisting are swallowed: logging must never take the process down.
type EventLogHandler struct {
	inner slog.Handler
	q     *store.Queries
}

// NewEventLogHandler wraps inner with event persistence.
func NewEventLogHandler(inner slog.Handler, q *store.Queries) *EventLogHandler {
	return &EventLogHandler{inner: inner, q: q}
}

func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.persist(r)
	}
	return h.inner.Handle(ctx, r)
}

func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), q: h.q}
}

func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), q: h.q}
}

func (h *EventLogHandler) persist(r slog.Record) {
	meta := make(map[string]any)
	var source string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "source" {
			source = a.Value.String()
			return true
		}
		meta[a.Key] = a.Value.Any()
		return true
	})

	var metaJSON string
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metaJSON = string(b)
		}
	}

	// Detached context: the triggering request may already be canceled.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = h.q.CreateEvent(ctx, store.CreateEventParams{
		Level:     r.Level.String(),
		Source:    source,
		Message:   r.Message,
		Meta:      metaJSON,
		CreatedAt: r.Time.UTC(),
	})
}
