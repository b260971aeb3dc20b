package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FaceEncoding - the enrolled descriptor for one identity. The gallery holds
// at most one encoding per user; re-enrollment replaces it wholesale.
type FaceEncoding struct {
	UserID     primitive.ObjectID `bson:"_id" json:"userId"`
	Descriptor []float64          `bson:"descriptor" json:"descriptor"`
	EnrolledAt time.Time          `bson:"enrolledAt" json:"enrolledAt"`
}
