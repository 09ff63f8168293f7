package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the authenticated actor attached to request context. Entity
// policies only ever need the identity, not the full profile.
type User struct {
	ID        int64  `json:"id" db:"id"`
	Email     string `json:"email" db:"email"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// PasswordHasher is the one-way hashing port injected into services that
// store credentials. Verification lives here too but is only used at login.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hashed, plain string) error
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *BcryptHasher) Compare(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is what register and login hand back to the transport layer.
type Session struct {
	User   *User      `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

// CreateUserParams carries the already-hashed registration fields to the
// credential repository.
type CreateUserParams struct {
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	Gender       string
	Email        string
	PasswordHash string
}
