package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose discriminates the four token kinds. Each purpose is signed
// with its own secret, so a token can never be replayed as another kind.
type TokenPurpose string

const (
	TokenPurposeAccess         TokenPurpose = "access"
	TokenPurposeRefresh        TokenPurpose = "refresh"
	TokenPurposeEmailVerify    TokenPurpose = "email_verify"
	TokenPurposeForgotPassword TokenPurpose = "forgot_password"
)

// TokenPayload is the decoded claim set of a verified token. It exists
// only for the lifetime of one request.
type TokenPayload struct {
	UserID  uuid.UUID    `json:"user_id"`
	Purpose TokenPurpose `json:"token_type"`
	Verify  VerifyStatus `json:"verify"`
}

// RefreshTokenDB pairs a signed refresh token string with its owner.
// The token is valid only while this record exists; deleting it revokes
// the token even though the signature itself would still verify.
type RefreshTokenDB struct {
	Token     string    `json:"token" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	IssuedAt  time.Time `json:"iat" db:"iat"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TokenPair is the access/refresh pair issued on register and login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
