// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package services

import "context"

// GCRunner matches the snapshot store's background garbage-collection loop.
type GCRunner interface {
	RunGC(ctx context.Context) error
}

// StoreGCService runs the store's value-log garbage collection under
// supervision, restarting the loop if it ever fails.
type StoreGCService struct {
	store GCRunner
}

// NewStoreGCService creates the store GC service wrapper.
func NewStoreGCService(store GCRunner) *StoreGCService {
	return &StoreGCService{store: store}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	return s.store.RunGC(ctx)
}

// String implements fmt.Stringer; suture uses it to identify the service.
func (s *StoreGCService) String() string {
	return "store-gc"
}
