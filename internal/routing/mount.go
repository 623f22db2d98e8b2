// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package routing

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HandlerSet maps handler references from logical routes to the
// functions that serve them.
type HandlerSet map[string]http.HandlerFunc

// Mount registers every table entry on the router. An entry whose
// HandlerRef is not present in handlers is a configuration error.
func Mount(r chi.Router, t *Table, handlers HandlerSet) error {
	for _, e := range t.entries {
		h, ok := handlers[e.HandlerRef]
		if !ok {
			return fmt.Errorf("route table: entry %q references unknown handler %q", e.Name, e.HandlerRef)
		}
		r.Method(e.Method, e.Path, h)
	}
	return nil
}
