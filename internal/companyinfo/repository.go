// Package companyinfo persists the company about-us content in a durable
// key/value slot.
package companyinfo

import (
	"affordhostel/internal/kv"
	"affordhostel/pkg/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Key is the durable slot holding the JSON encoded company info.
const Key = "affordhostel_company_info"

// Repository loads and saves domain.CompanyInfo through a kv.Store.
type Repository struct {
	store kv.Store
}

// NewRepository wraps store.
func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

// Load returns the persisted company info. A missing slot yields the
// defaults with a nil error. A corrupt slot yields the defaults together
// with the decode error so callers can log it.
func (r *Repository) Load(ctx context.Context) (domain.CompanyInfo, error) {
	raw, err := r.store.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("load company info: %w", err)
	}
	info, err := Decode(raw)
	if err != nil {
		return Defaults(), fmt.Errorf("decode company info: %w", err)
	}
	return info, nil
}

// Save writes info to the slot.
func (r *Repository) Save(ctx context.Context, info domain.CompanyInfo) error {
	if info.Team == nil {
		info.Team = []domain.TeamMember{}
	}
	b, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode company info: %w", err)
	}
	if err := r.store.Set(ctx, Key, b); err != nil {
		return fmt.Errorf("save company info: %w", err)
	}
	return nil
}

// Decode parses a stored document, defaulting each field on its own: the
// mission and vision when absent, empty or not strings, the team when it is
// not an array of members.
func Decode(raw []byte) (domain.CompanyInfo, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.CompanyInfo{}, err
	}
	if doc == nil {
		return domain.CompanyInfo{}, errors.New("company info is not an object")
	}
	def := Defaults()
	info := domain.CompanyInfo{
		Mission: stringOr(doc["mission"], def.Mission),
		Vision:  stringOr(doc["vision"], def.Vision),
		Team:    def.Team,
	}
	if team, ok := doc["team"]; ok && bytes.HasPrefix(bytes.TrimSpace(team), []byte("[")) {
		var members []domain.TeamMember
		if err := json.Unmarshal(team, &members); err == nil {
			if members == nil {
				members = []domain.TeamMember{}
			}
			info.Team = members
		}
	}
	return info, nil
}

func stringOr(raw json.RawMessage, fallback string) string {
	if len(raw) == 0 {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return fallback
	}
	return s
}
