package kv

import "affordhostel/internal/infra/kv/sqlite"

// NewSQLite constructs a kv.Store backed by an embedded sqlite database.
func NewSQLite(path string) (Store, error) {
	return sqlite.New(path)
}
