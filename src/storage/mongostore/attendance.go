package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/storage"
)

// AttendanceStore persists attendance records, one per (userId, date),
// enforced by the unique index created in EnsureIndexes.
type AttendanceStore struct {
	col *mongo.Collection
}

func (a *AttendanceStore) InsertIfAbsent(ctx context.Context, rec *models.AttendanceRecord) error {
	res, err := a.col.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrDuplicateRecord
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = id
	}
	return nil
}

func (a *AttendanceStore) FindByUserDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	err := a.col.FindOne(ctx, bson.M{"userId": userID, "date": date}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// CloseOpenRecord filters on "check-in set, check-out unset" so that of two
// concurrent check-outs only one matches; the other gets ErrNoOpenRecord.
func (a *AttendanceStore) CloseOpenRecord(ctx context.Context, userID primitive.ObjectID, date string, at time.Time, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	filter := bson.M{
		"userId":   userID,
		"date":     date,
		"checkIn":  bson.M{"$ne": nil},
		"checkOut": nil,
	}
	update := bson.M{"$set": bson.M{"checkOut": at, "status": status}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec models.AttendanceRecord
	if err := a.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, storage.ErrNoOpenRecord
		}
		return nil, err
	}
	return &rec, nil
}

func (a *AttendanceStore) FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return a.find(ctx, bson.M{"userId": userID}, opts)
}

func (a *AttendanceStore) FindByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	return a.find(ctx, bson.M{"date": date}, options.Find())
}

func (a *AttendanceStore) FindSince(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return a.find(ctx, bson.M{"date": bson.M{"$gte": date}}, opts)
}

func (a *AttendanceStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.AttendanceRecord, error) {
	cursor, err := a.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.AttendanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
