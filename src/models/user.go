package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User - lab member or admin account
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password,omitempty" json:"-"` // ✅ accepted from frontend, never sent back
	Role           string             `bson:"role" json:"role"`
	FaceRegistered bool               `bson:"faceRegistered" json:"faceRegistered"`
	FaceImagePath  string             `bson:"faceImagePath,omitempty" json:"-"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
