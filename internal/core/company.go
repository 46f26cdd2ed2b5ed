package core

import (
	"context"

	"affordhostel/pkg/domain"

	"github.com/google/uuid"
)

// CompanyInfo returns a copy of the about-us content.
func (s *Service) CompanyInfo() CompanyInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.companyInfo.Clone()
}

// UpdateCompanyInfo replaces the patched fields and persists the result.
func (s *Service) UpdateCompanyInfo(ctx context.Context, patch domain.CompanyInfoPatch) (CompanyInfo, error) {
	var out CompanyInfo
	err := s.observe(ctx, opUpdateCompanyInfo, func(ctx context.Context) (string, error) {
		out = s.mutateCompanyInfo(ctx, func(info *CompanyInfo) error {
			patch.Apply(info)
			return nil
		})
		return "", nil
	})
	return out, err
}

// AddTeamMember appends a roster entry with a generated id.
func (s *Service) AddTeamMember(ctx context.Context, in domain.TeamMemberInput) (TeamMember, error) {
	var member TeamMember
	err := s.observe(ctx, opAddTeamMember, func(ctx context.Context) (string, error) {
		if err := in.Validate(); err != nil {
			return "", err
		}
		member = TeamMember{
			ID:     uuid.NewString(),
			Name:   in.Name,
			Role:   in.Role,
			Bio:    in.Bio,
			Image:  in.Image,
			Order:  in.Order,
			Active: in.Active,
		}
		s.mutateCompanyInfo(ctx, func(info *CompanyInfo) error {
			info.Team = append(info.Team, member)
			return nil
		})
		return member.ID, nil
	})
	return member, err
}

// UpdateTeamMember merges patch into the roster entry id.
func (s *Service) UpdateTeamMember(ctx context.Context, id string, patch domain.TeamMemberPatch) (TeamMember, error) {
	var member TeamMember
	err := s.observe(ctx, opUpdateTeamMember, func(ctx context.Context) (string, error) {
		if err := patch.Validate(); err != nil {
			return id, err
		}
		var mutateErr error
		s.mutateCompanyInfo(ctx, func(info *CompanyInfo) error {
			for i := range info.Team {
				if info.Team[i].ID == id {
					patch.Apply(&info.Team[i])
					member = info.Team[i]
					return nil
				}
			}
			mutateErr = domain.NotFoundError{Entity: domain.EntityTeamMember, ID: id}
			return mutateErr
		})
		return id, mutateErr
	})
	return member, err
}

// RemoveTeamMember drops the roster entry id.
func (s *Service) RemoveTeamMember(ctx context.Context, id string) error {
	return s.observe(ctx, opRemoveTeamMember, func(ctx context.Context) (string, error) {
		var mutateErr error
		s.mutateCompanyInfo(ctx, func(info *CompanyInfo) error {
			for i, m := range info.Team {
				if m.ID == id {
					info.Team = append(info.Team[:i:i], info.Team[i+1:]...)
					return nil
				}
			}
			mutateErr = domain.NotFoundError{Entity: domain.EntityTeamMember, ID: id}
			return mutateErr
		})
		return id, mutateErr
	})
}

// mutateCompanyInfo applies fn to a copy of the company info, installs the
// result and persists it while holding the session lock so saves land in
// order. Persistence failures are logged and ignored. When fn fails nothing
// changes.
func (s *Service) mutateCompanyInfo(ctx context.Context, fn func(*CompanyInfo) error) CompanyInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.companyInfo.Clone()
	if err := fn(&next); err != nil {
		return s.companyInfo.Clone()
	}
	s.companyInfo = next
	if err := s.company.Save(ctx, next); err != nil {
		s.logger.Warn("company info persist failed", "error", err)
	}
	return next.Clone()
}
