package models

import (
	"time"

	"github.com/google/uuid"
)

// VerifyStatus describes the email verification state of a user account.
type VerifyStatus int16

const (
	// Unverified is the initial status assigned at registration.
	Unverified VerifyStatus = iota
	// Verified is set once the email verify token has been consumed.
	Verified
	// Banned accounts keep their records but cannot act.
	Banned
)

// UserDB represents a user record in the database.
//
// EmailVerifyToken is empty once the address has been verified;
// ForgotPasswordToken is empty while no reset is in flight.
type UserDB struct {
	UserID              uuid.UUID    `json:"user_id" db:"user_id"`
	Name                string       `json:"name" db:"name"`
	Email               string       `json:"email" db:"email"`
	Password            string       `json:"-" db:"password"`
	DateOfBirth         time.Time    `json:"date_of_birth" db:"date_of_birth"`
	Verify              VerifyStatus `json:"verify" db:"verify"`
	EmailVerifyToken    string       `json:"-" db:"email_verify_token"`
	ForgotPasswordToken string       `json:"-" db:"forgot_password_token"`
	Bio                 string       `json:"bio" db:"bio"`
	Location            string       `json:"location" db:"location"`
	Website             string       `json:"website" db:"website"`
	Username            string       `json:"username" db:"username"`
	Avatar              string       `json:"avatar" db:"avatar"`
	CoverPhoto          string       `json:"cover_photo" db:"cover_photo"`
	CreatedAt           time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at" db:"updated_at"`
}

// UserPatch holds the filtered set of profile fields a user may update.
// Nil pointers mean "leave unchanged".
type UserPatch struct {
	Name        *string    `json:"name,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Website     *string    `json:"website,omitempty"`
	Username    *string    `json:"username,omitempty"`
	Avatar      *string    `json:"avatar,omitempty"`
	CoverPhoto  *string    `json:"cover_photo,omitempty"`
}
