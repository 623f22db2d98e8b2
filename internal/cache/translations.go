// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linguacms/linguacms/internal/model"
)

// Translations is a typed view over a Cache for resolved translation
// rows. Keys include the entity kind, id, and locale, so invalidating
// one entity clears all of its locale variants with a prefix delete.
type Translations struct {
	c Cache
}

// NewTranslations wraps c with translation-specific keys.
func NewTranslations(c Cache) *Translations {
	return &Translations{c: c}
}

func entityPrefix(kind string, entityID int64) string {
	return fmt.Sprintf("tr:%s:%d:", kind, entityID)
}

func translationKey(kind string, entityID int64, locale string) string {
	return entityPrefix(kind, entityID) + locale
}

// Get returns the cached translation for (kind, entityID, locale).
func (t *Translations) Get(ctx context.Context, kind string, entityID int64, locale string) (model.Translation, bool) {
	data, ok := t.c.Get(ctx, translationKey(kind, entityID, locale))
	if !ok {
		return model.Translation{}, false
	}
	var tr model.Translation
	if err := json.Unmarshal(data, &tr); err != nil {
		t.c.Delete(ctx, translationKey(kind, entityID, locale))
		return model.Translation{}, false
	}
	return tr, true
}

// Set stores a resolved translation. Note the key uses the requested
// locale, which after fallback may differ from tr.Locale.
func (t *Translations) Set(ctx context.Context, kind string, entityID int64, locale string, tr model.Translation) {
	data, err := json.Marshal(tr)
	if err != nil {
		return
	}
	t.c.Set(ctx, translationKey(kind, entityID, locale), data)
}

// InvalidateEntity drops every cached locale variant of one entity.
func (t *Translations) InvalidateEntity(ctx context.Context, kind string, entityID int64) {
	t.c.DeletePrefix(ctx, entityPrefix(kind, entityID))
}

// Stats exposes the underlying backend counters.
func (t *Translations) Stats() Stats {
	return t.c.Stats()
}
