package models

import "time"

// User represents a registered user
type User struct {
	ID        int64     `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"` // Password is not returned in JSON
	Status    string    `bson:"status" json:"status"` // pending, verified
	OTP       string    `bson:"otp" json:"-"`         // OTP for email verification
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
