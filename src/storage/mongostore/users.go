package mongostore

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/storage"
)

// UserStore persists accounts in the users collection.
type UserStore struct {
	col *mongo.Collection
}

func (u *UserStore) Insert(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	res, err := u.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrDuplicateRecord
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (u *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return u.findOne(ctx, bson.M{"_id": id})
}

func (u *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (u *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := u.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	cursor, err := u.col.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *UserStore) CountByRole(ctx context.Context, role string, activeOnly bool) (int64, error) {
	filter := bson.M{"role": role}
	if activeOnly {
		filter["isActive"] = true
	}
	return u.col.CountDocuments(ctx, filter)
}

func (u *UserStore) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return u.updateOne(ctx, id, bson.M{"isActive": active})
}

func (u *UserStore) SetFaceRegistered(ctx context.Context, id primitive.ObjectID, imagePath string) error {
	return u.updateOne(ctx, id, bson.M{"faceRegistered": true, "faceImagePath": imagePath})
}

func (u *UserStore) updateOne(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := u.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (u *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := u.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
