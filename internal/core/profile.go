package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"affordhostel/internal/blob"
	"affordhostel/pkg/domain"
)

// UpdateUserProfile merges patch into the session user. The id and role are fixed.
func (s *Service) UpdateUserProfile(ctx context.Context, patch domain.ProfilePatch) (User, error) {
	var updated User
	err := s.observe(ctx, opUpdateProfile, func(context.Context) (string, error) {
		if err := patch.Validate(); err != nil {
			return "", err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.session.user == nil {
			return "", domain.ErrUnauthorized
		}
		u := *s.session.user
		patch.Apply(&u)
		s.session.user = &u
		updated = u
		return u.ID, nil
	})
	return updated, err
}

// UploadProfilePicture stores an avatar image through the gateway and points
// the session user's avatar at it. It returns the avatar URL.
func (s *Service) UploadProfilePicture(ctx context.Context, upload domain.Upload) (string, error) {
	var url string
	err := s.observe(ctx, opUploadAvatar, func(ctx context.Context) (string, error) {
		user, err := s.requireUser()
		if err != nil {
			return "", err
		}
		if err := upload.ValidateImage(); err != nil {
			return user.ID, err
		}
		key := blob.AvatarKey(user.ID, upload.Filename)
		if err := s.gateway.Call(ctx, opUploadAvatar, func(ctx context.Context) error {
			var err error
			url, err = s.storeUpload(ctx, key, upload)
			return err
		}); err != nil {
			return user.ID, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.session.user == nil || s.session.user.ID != user.ID {
			return user.ID, domain.ErrUnauthorized
		}
		u := *s.session.user
		u.Avatar = url
		s.session.user = &u
		return user.ID, nil
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

// Media opens a stored upload for download. Missing and malformed keys are
// reported as not found.
func (s *Service) Media(ctx context.Context, key string) (blob.Object, io.ReadCloser, error) {
	obj, err := s.blobs.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidKey) {
			return blob.Object{}, nil, fmt.Errorf("media %q: %w", key, domain.ErrNotFound)
		}
		return blob.Object{}, nil, err
	}
	_, body, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return blob.Object{}, nil, fmt.Errorf("media %q: %w", key, domain.ErrNotFound)
		}
		return blob.Object{}, nil, err
	}
	return obj, body, nil
}
