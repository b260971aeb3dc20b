package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"Cortex-Attendance-Backend/src/models"
)

// GalleryStore keeps one document per identity in face_encodings.
// Descriptors are stored as BSON doubles, so float64 components round-trip
// bit-for-bit.
type GalleryStore struct {
	col *mongo.Collection
}

func (g *GalleryStore) Load(ctx context.Context) ([]models.FaceEncoding, error) {
	opts := options.Find().SetSort(bson.D{{Key: "enrolledAt", Value: 1}})
	cursor, err := g.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var encodings []models.FaceEncoding
	if err := cursor.All(ctx, &encodings); err != nil {
		return nil, err
	}
	return encodings, nil
}

// Save replaces the full persisted set in a single ordered bulk write.
func (g *GalleryStore) Save(ctx context.Context, encodings []models.FaceEncoding) error {
	writes := make([]mongo.WriteModel, 0, len(encodings)+1)
	writes = append(writes, mongo.NewDeleteManyModel().SetFilter(bson.M{}))
	for _, enc := range encodings {
		writes = append(writes, mongo.NewInsertOneModel().SetDocument(enc))
	}

	_, err := g.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	return err
}

// Upsert replaces the one entry keyed by the user's id. ReplaceOne on a
// single document is atomic, so a concurrent Load sees the old or the new
// descriptor, never a partial one.
func (g *GalleryStore) Upsert(ctx context.Context, enc models.FaceEncoding) error {
	_, err := g.col.ReplaceOne(ctx,
		bson.M{"_id": enc.UserID},
		enc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (g *GalleryStore) Remove(ctx context.Context, userID primitive.ObjectID) error {
	_, err := g.col.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
