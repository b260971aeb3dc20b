// Package mongostore implements the storage interfaces on MongoDB.
package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection      = "users"
	attendanceCollection = "attendance"
	encodingsCollection  = "face_encodings"
)

// Store bundles the Mongo-backed stores built on an injected database handle.
type Store struct {
	Users      *UserStore
	Attendance *AttendanceStore
	Gallery    *GalleryStore
}

func New(db *mongo.Database) *Store {
	return &Store{
		Users:      &UserStore{col: db.Collection(usersCollection)},
		Attendance: &AttendanceStore{col: db.Collection(attendanceCollection)},
		Gallery:    &GalleryStore{col: db.Collection(encodingsCollection)},
	}
}

// EnsureIndexes creates the indexes the core's guarantees rest on: the
// unique (userId, date) index is what turns a concurrent double check-in
// into a duplicate-key error instead of a second record.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Attendance.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.Users.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
