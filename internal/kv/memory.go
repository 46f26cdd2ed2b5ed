package kv

import memorystore "affordhostel/internal/infra/kv/memory"

// NewMemory returns an in-memory kv.Store suitable for tests.
func NewMemory() Store { return memorystore.New() }
