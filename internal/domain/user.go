package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account holder. Body metrics are optional and edited through UserPatch.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // unique index
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	Age          *int               `bson:"age,omitempty" json:"age,omitempty"`
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Height       *float64           `bson:"height,omitempty" json:"height,omitempty"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserPatch lists the profile fields a user may change. A nil field is left untouched.
type UserPatch struct {
	Name            *string  `json:"name"`
	Age             *int     `json:"age"`
	Weight          *float64 `json:"weight"`
	Height          *float64 `json:"height"`
	Gender          *string  `json:"gender"`
	CurrentPassword *string  `json:"currentPassword"`
	NewPassword     *string  `json:"newPassword"`
}
