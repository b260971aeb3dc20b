// Package faces orchestrates face enrollment and face-verified attendance
// marking: extraction, gallery lookup, matching, and the resulting
// state-machine transition.
package faces

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/recognition"
	"Cortex-Attendance-Backend/src/services/attendance"
	"Cortex-Attendance-Backend/src/storage"
)

// ErrUnrecognizedFace is returned when a probe matches no enrolled member.
var ErrUnrecognizedFace = errors.New("face does not match any enrolled member")

// Transition names the state-machine edge a verification produced.
type Transition string

const (
	TransitionCheckIn  Transition = "check_in"
	TransitionCheckOut Transition = "check_out"
)

// Service wires the extractor, matcher, gallery and attendance state
// machine together.
type Service struct {
	extractor  recognition.Extractor
	matcher    *recognition.Matcher
	gallery    storage.GalleryStore
	users      storage.UserStore
	blobs      storage.BlobStore
	attendance *attendance.Service
}

func NewService(
	extractor recognition.Extractor,
	matcher *recognition.Matcher,
	gallery storage.GalleryStore,
	users storage.UserStore,
	blobs storage.BlobStore,
	att *attendance.Service,
) *Service {
	return &Service{
		extractor:  extractor,
		matcher:    matcher,
		gallery:    gallery,
		users:      users,
		blobs:      blobs,
		attendance: att,
	}
}

// Enroll extracts a descriptor from the uploaded image and replaces the
// member's gallery entry. When extraction fails nothing is written: not
// the image, not the gallery, not the user's enrolled flag.
func (s *Service) Enroll(ctx context.Context, userID primitive.ObjectID, imageData []byte) error {
	descriptor, err := s.extractor.Extract(imageData)
	if err != nil {
		return err
	}

	path, err := s.blobs.Put(userID, imageData)
	if err != nil {
		return fmt.Errorf("failed to store enrollment image: %w", err)
	}

	enc := models.FaceEncoding{
		UserID:     userID,
		Descriptor: descriptor,
		EnrolledAt: time.Now(),
	}
	if err := s.gallery.Upsert(ctx, enc); err != nil {
		return err
	}

	return s.users.SetFaceRegistered(ctx, userID, path)
}

// RemoveEnrollment drops a member's descriptor and stored image. Used when
// an admin removes the member.
func (s *Service) RemoveEnrollment(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.gallery.Remove(ctx, userID); err != nil {
		return err
	}
	return s.blobs.Remove(userID)
}

// VerifyResult is what a successful verification hands back to the caller.
type VerifyResult struct {
	User       *models.User             `json:"user"`
	Transition Transition               `json:"transition"`
	Record     *models.AttendanceRecord `json:"record"`
	Distance   float64                  `json:"distance"`
	Confidence float64                  `json:"confidence"`
}

// VerifyAndMark matches the probe against the gallery and performs exactly
// one attendance transition for the matched member: check-in when today
// has no open record, check-out when it does. An unmatched probe mutates
// nothing. Concurrent probes for the same member are resolved by the
// store's conditional writes - one transition wins, the other surfaces a
// state-conflict error.
func (s *Service) VerifyAndMark(ctx context.Context, imageData []byte, at time.Time) (*VerifyResult, error) {
	probe, err := s.extractor.Extract(imageData)
	if err != nil {
		return nil, err
	}

	gallery, err := s.gallery.Load(ctx)
	if err != nil {
		return nil, err
	}

	match, ok := s.matcher.Match(probe, gallery)
	if !ok {
		return nil, ErrUnrecognizedFace
	}

	user, err := s.users.FindByID(ctx, match.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// stale encoding for a removed account
			return nil, ErrUnrecognizedFace
		}
		return nil, err
	}

	state, _, err := s.attendance.StateFor(ctx, user.ID, at)
	if err != nil {
		return nil, err
	}

	if state == attendance.StateCheckedIn {
		rec, err := s.attendance.CheckOut(ctx, user.ID, at)
		if err != nil {
			return nil, err
		}
		return &VerifyResult{
			User:       user,
			Transition: TransitionCheckOut,
			Record:     rec,
			Distance:   match.Distance,
			Confidence: match.Confidence,
		}, nil
	}

	// NOT_CHECKED_IN, or a terminal record; a closed day surfaces
	// ErrAlreadyCheckedIn from the conditional insert.
	rec, err := s.attendance.CheckIn(ctx, user, at, models.SourceFace, match.Confidence)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		User:       user,
		Transition: TransitionCheckIn,
		Record:     rec,
		Distance:   match.Distance,
		Confidence: match.Confidence,
	}, nil
}
