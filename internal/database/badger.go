// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

// Package database opens the embedded BadgerDB instance shared by the corpus,
// credential and quota stores.
//
// Each store namespaces its keys with a prefix ("item:", "cred:", "quota:"),
// so a single DB serves all of them.
package database

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/logging"
)

// Options configures Open.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Used in tests and for ephemeral runs.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// Open opens (or creates) the BadgerDB described by opts.
func Open(opts Options) (*badger.DB, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("database path is required for on-disk mode")
	}

	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil // badger's logger is noisy and bypasses zerolog
	bopts.SyncWrites = opts.SyncWrites
	bopts.ValueLogFileSize = 64 << 20

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	logging.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.InMemory).
		Msg("BadgerDB opened")
	return db, nil
}

// OpenInMemory is shorthand for tests.
func OpenInMemory() (*badger.DB, error) {
	return Open(Options{InMemory: true})
}

// RunGC runs one value-log garbage collection pass. badger.ErrNoRewrite
// means there was nothing to collect and is not reported.
func RunGC(db *badger.DB, discardRatio float64) error {
	err := db.RunValueLogGC(discardRatio)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
		return fmt.Errorf("badger value log gc: %w", err)
	}
	return nil
}
