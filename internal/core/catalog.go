package core

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"

	"affordhostel/internal/blob"
	"affordhostel/pkg/domain"
)

// AddHostel lists a new hostel for the current landlord. Listings start
// unverified and pending submission with every room available.
func (s *Service) AddHostel(ctx context.Context, req domain.AddHostelRequest) (Hostel, Result, error) {
	var created Hostel
	res, err := s.run(ctx, opAddHostel, func(tx Transaction) (string, error) {
		user, err := s.requireUser()
		if err != nil {
			return "", err
		}
		if err := req.Validate(); err != nil {
			return "", err
		}
		rooms := make([]RoomType, len(req.RoomTypes))
		for i, rt := range req.RoomTypes {
			rooms[i] = RoomType{
				ID:        strconv.Itoa(i + 1),
				Type:      rt.Type,
				Price:     rt.Price,
				Available: rt.Total,
				Total:     rt.Total,
				Features:  append([]string(nil), rt.Features...),
			}
		}
		created, err = tx.CreateHostel(Hostel{
			Name:               req.Name,
			Description:        req.Description,
			Price:              req.Price,
			Location:           req.Location,
			University:         req.University,
			Images:             append([]string(nil), req.Images...),
			Amenities:          append([]string(nil), req.Amenities...),
			RoomTypes:          rooms,
			LandlordID:         user.ID,
			Available:          true,
			VerificationStatus: domain.VerificationPendingSubmission,
		})
		return created.ID, err
	})
	return created, res, err
}

// UpdateHostel merges patch into the hostel. Verification fields are not patchable.
func (s *Service) UpdateHostel(ctx context.Context, id string, patch domain.HostelPatch) (Hostel, Result, error) {
	var updated Hostel
	res, err := s.run(ctx, opUpdateHostel, func(tx Transaction) (string, error) {
		if err := patch.Validate(); err != nil {
			return id, err
		}
		var err error
		updated, err = tx.UpdateHostel(id, func(h *Hostel) error {
			patch.Apply(h)
			return nil
		})
		return id, err
	})
	return updated, res, err
}

// AssignAgentToHostel hands the hostel to an agent and moves it to pending review.
func (s *Service) AssignAgentToHostel(ctx context.Context, hostelID, agentID string) (Hostel, Result, error) {
	var updated Hostel
	res, err := s.run(ctx, opAssignAgent, func(tx Transaction) (string, error) {
		if agentID == "" {
			return hostelID, domain.NewValidationError("agent_id", "required")
		}
		var err error
		updated, err = tx.UpdateHostel(hostelID, func(h *Hostel) error {
			agent := agentID
			h.AssignedAgentID = &agent
			h.VerificationStatus = domain.VerificationPendingReview
			h.Verified = false
			return nil
		})
		return hostelID, err
	})
	return updated, res, err
}

// SubmitVerificationReport records an agent's finding, applies its status to
// the hostel and notifies the landlord. Uploaded photos are stored in the
// blob store and referenced by URL.
func (s *Service) SubmitVerificationReport(ctx context.Context, hostelID string, req domain.VerificationReportRequest) (VerificationReport, Result, error) {
	var report VerificationReport
	var res Result
	err := s.observe(ctx, opSubmitReport, func(ctx context.Context) (string, error) {
		if err := req.Validate(); err != nil {
			return "", err
		}
		if _, ok := s.store.GetHostel(hostelID); !ok {
			return "", domain.NotFoundError{Entity: domain.EntityHostel, ID: hostelID}
		}
		photos := append([]string(nil), req.Photos...)
		for _, upload := range req.Uploads {
			url, err := s.storeUpload(ctx, blob.ReportPhotoKey(hostelID, upload.Filename), upload)
			if err != nil {
				return "", err
			}
			photos = append(photos, url)
		}
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			hostel, ok := tx.FindHostel(hostelID)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityHostel, ID: hostelID}
			}
			agentID := req.AgentID
			if agentID == "" && hostel.AssignedAgentID != nil {
				agentID = *hostel.AssignedAgentID
			}
			if agentID == "" {
				if u, ok := s.CurrentUser(); ok {
					agentID = u.ID
				}
			}
			var err error
			report, err = tx.CreateVerificationReport(VerificationReport{
				HostelID: hostelID,
				AgentID:  agentID,
				Comments: req.Comments,
				Photos:   photos,
				Status:   req.Status,
			})
			if err != nil {
				return err
			}
			hostel, err = tx.UpdateHostel(hostelID, func(h *Hostel) error {
				h.VerificationStatus = req.Status
				h.Verified = req.Status == domain.VerificationVerified
				return nil
			})
			if err != nil {
				return err
			}
			_, err = tx.CreateNotification(reportNotification(hostel, req.Status))
			return err
		})
		return report.ID, err
	})
	s.logWarnings(opSubmitReport, res)
	return report, res, err
}

func reportNotification(h Hostel, status domain.VerificationStatus) Notification {
	n := Notification{UserID: h.LandlordID}
	switch status {
	case domain.VerificationVerified:
		n.Title = "Property Verification Complete"
		n.Message = fmt.Sprintf("Your property %s has been verified.", h.Name)
		n.Type = domain.NotificationSuccess
	case domain.VerificationRejected:
		n.Title = "Property Verification Rejected"
		n.Message = fmt.Sprintf("Your property %s did not pass verification.", h.Name)
		n.Type = domain.NotificationError
	default:
		n.Title = "More Information Needed"
		n.Message = fmt.Sprintf("Your property %s needs more information before it can be verified.", h.Name)
		n.Type = domain.NotificationWarning
	}
	return n
}

// ResubmitHostel returns a rejected or incomplete listing to the review queue.
// Without an assigned agent the listing goes back to pending submission.
func (s *Service) ResubmitHostel(ctx context.Context, hostelID string) (Hostel, Result, error) {
	var updated Hostel
	res, err := s.run(ctx, opResubmitHostel, func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateHostel(hostelID, func(h *Hostel) error {
			if h.VerificationStatus != domain.VerificationRejected && h.VerificationStatus != domain.VerificationNeedsMoreInfo {
				return fmt.Errorf("%w: hostel %s is %s", domain.ErrInvalidTransition, hostelID, h.VerificationStatus)
			}
			if h.AssignedAgentID != nil {
				h.VerificationStatus = domain.VerificationPendingReview
			} else {
				h.VerificationStatus = domain.VerificationPendingSubmission
			}
			return nil
		})
		return hostelID, err
	})
	return updated, res, err
}

// GetHostel returns a hostel by id.
func (s *Service) GetHostel(id string) (Hostel, bool) {
	return s.store.GetHostel(id)
}

// ListHostels returns the catalog in insertion order.
func (s *Service) ListHostels() []Hostel {
	return s.store.ListHostels()
}

// SearchHostels filters and orders the catalog. Ties keep insertion order.
func (s *Service) SearchHostels(q domain.HostelQuery) ([]Hostel, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var out []Hostel
	for _, h := range s.store.ListHostels() {
		if q.Matches(h) {
			out = append(out, h)
		}
	}
	sortHostels(out, q.Sort)
	return out, nil
}

func sortHostels(hostels []Hostel, order domain.HostelSort) {
	var less func(a, b Hostel) bool
	switch order {
	case domain.SortPriceLow:
		less = func(a, b Hostel) bool { return a.Price < b.Price }
	case domain.SortPriceHigh:
		less = func(a, b Hostel) bool { return a.Price > b.Price }
	case domain.SortRating:
		less = func(a, b Hostel) bool { return a.Rating > b.Rating }
	case domain.SortName:
		less = func(a, b Hostel) bool { return a.Name < b.Name }
	case domain.SortNewest:
		less = func(a, b Hostel) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		return
	}
	sort.SliceStable(hostels, func(i, j int) bool { return less(hostels[i], hostels[j]) })
}

// Amenities returns the distinct amenities of the catalog, sorted.
func (s *Service) Amenities() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, h := range s.store.ListHostels() {
		for _, a := range h.Amenities {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}

// storeUpload validates an image upload, writes it under key and returns its URL.
func (s *Service) storeUpload(ctx context.Context, key string, upload domain.Upload) (string, error) {
	if err := upload.ValidateImage(); err != nil {
		return "", err
	}
	if _, err := s.blobs.Put(ctx, key, bytes.NewReader(upload.Body), blob.PutOptions{
		ContentType: upload.ContentType,
		Metadata:    map[string]string{"filename": upload.Filename},
	}); err != nil {
		return "", fmt.Errorf("store upload %s: %w", key, err)
	}
	url, err := s.blobs.URL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("resolve upload url %s: %w", key, err)
	}
	return url, nil
}
