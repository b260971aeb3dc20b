// Package storage defines the persistence interfaces the attendance core
// works against. There are two implementations: mongostore for production
// and memstore for tests - the core never branches on which one is active.
package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"Cortex-Attendance-Backend/src/models"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateRecord is returned by conditional inserts when a record
	// already exists for the same key.
	ErrDuplicateRecord = errors.New("record already exists")
	// ErrNoOpenRecord is returned when closing a record that is not open.
	ErrNoOpenRecord = errors.New("no open attendance record")
)

// GalleryStore persists enrolled face descriptors, one per identity.
// Upsert must be atomic per identity: concurrent upserts for different
// users may interleave, but a reader never observes a torn descriptor.
type GalleryStore interface {
	// Load returns the full gallery in enrolledAt order.
	Load(ctx context.Context) ([]models.FaceEncoding, error)
	// Save replaces the entire persisted set.
	Save(ctx context.Context, encodings []models.FaceEncoding) error
	// Upsert inserts or replaces the entry for one identity.
	Upsert(ctx context.Context, enc models.FaceEncoding) error
	// Remove drops the entry for one identity, if present.
	Remove(ctx context.Context, userID primitive.ObjectID) error
}

// AttendanceStore persists per-user per-day attendance records.
// InsertIfAbsent is the serialization point that keeps two concurrent
// check-ins for the same (user, date) from both succeeding.
type AttendanceStore interface {
	// InsertIfAbsent inserts rec unless a record for (rec.UserID, rec.Date)
	// already exists, in which case it returns ErrDuplicateRecord.
	InsertIfAbsent(ctx context.Context, rec *models.AttendanceRecord) error
	// FindByUserDate returns the record for the given user and date.
	FindByUserDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.AttendanceRecord, error)
	// CloseOpenRecord atomically sets the check-out on the open record
	// (check-in set, check-out unset) and returns the updated record.
	// Returns ErrNoOpenRecord when no open record matches.
	CloseOpenRecord(ctx context.Context, userID primitive.ObjectID, date string, at time.Time, status models.AttendanceStatus) (*models.AttendanceRecord, error)
	// FindByUser returns the user's records, newest date first.
	FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.AttendanceRecord, error)
	// FindByDate returns every record for one calendar day.
	FindByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error)
	// FindSince returns every record on or after the given date.
	FindSince(ctx context.Context, date string) ([]models.AttendanceRecord, error)
}

// UserStore persists accounts.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRole(ctx context.Context, role string) ([]models.User, error)
	CountByRole(ctx context.Context, role string, activeOnly bool) (int64, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	SetFaceRegistered(ctx context.Context, id primitive.ObjectID, imagePath string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BlobStore holds the raw enrollment images, keyed by identity. One write
// per enrollment; re-enrollment overwrites.
type BlobStore interface {
	Put(userID primitive.ObjectID, data []byte) (string, error)
	Remove(userID primitive.ObjectID) error
}
