// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the background publishing loop: scheduled
// posts whose publish time has passed flip to published once a minute.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/linguacms/linguacms/internal/model"
	"github.com/linguacms/linguacms/internal/store"
	"github.com/linguacms/linguacms/internal/translation"
)

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	cron *cron.Cron
	q    *store.Queries
	tr   *translation.Service
	log  *slog.Logger
}

// New creates a scheduler. Call Start to begin running jobs.
func New(q *store.Queries, tr *translation.Service, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		q:    q,
		tr:   tr,
		log:  log,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", s.publishDuePosts); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", "source", "scheduler")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped", "source", "scheduler")
}

func (s *Scheduler) publishDuePosts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	due, err := s.q.ListDueScheduledPosts(ctx, now)
	if err != nil {
		s.log.Error("listing due posts", "source", "scheduler", "error", err)
		return
	}

	for _, p := range due {
		if err := s.q.PublishPost(ctx, store.PublishPostParams{ID: p.ID, UpdatedAt: now}); err != nil {
			s.log.Error("publishing post", "source", "scheduler", "post", p.ID, "error", err)
			continue
		}
		s.tr.Invalidate(ctx, model.EntityKindPost, p.ID)
		s.log.Info("published scheduled post", "source", "scheduler", "post", p.ID)
	}
}
