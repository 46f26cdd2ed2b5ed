package kv

import "affordhostel/internal/infra/kv/file"

// NewFile constructs a kv.Store persisted as a JSON document at path.
func NewFile(path string) (Store, error) {
	return file.New(path)
}
