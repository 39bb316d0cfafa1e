package domain

import (
	"context"
	"time"
)

// User is a shop account. PasswordHash is a bcrypt hash and never serialized.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"_id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// UserRepository defines operations for managing users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	Delete(ctx context.Context, id string) error
}
