package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wesribeiro/painel-ti/internal/modules/user"
)

const tokenTTL = 8 * time.Hour

type claims struct {
	jwt.StandardClaims
	Name    string `json:"name"`
	RoleID  int64  `json:"roleId"`
	StoreID *int64 `json:"storeId,omitempty"`
}

type service struct {
	userRepo user.Repository
	secret   []byte
}

// NewService creates a new auth service signing tokens with secret.
func NewService(userRepo user.Repository, secret string) Service {
	return &service{userRepo: userRepo, secret: []byte(secret)}
}

func (s *service) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if u.PasswordHash == nil {
		return nil, ErrFirstLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLogin = &now

	token, err := s.sign(u, now)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}

func (s *service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if len(newPassword) < 3 {
		return fmt.Errorf("%w: new password too short", ErrValidation)
	}
	u, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	// First login has no stored hash; nothing to verify against.
	if u.PasswordHash != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(currentPassword)); err != nil {
			return ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, u.ID, string(hash))
}

func (s *service) Verify(token string) (*Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}

	var userID int64
	if _, err := fmt.Sscan(c.Subject, &userID); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{UserID: userID, Name: c.Name, RoleID: c.RoleID, StoreID: c.StoreID}, nil
}

func (s *service) sign(u *user.User, now time.Time) (string, error) {
	c := &claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   fmt.Sprint(u.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tokenTTL).Unix(),
		},
		Name:    u.Name,
		RoleID:  u.RoleID,
		StoreID: u.StoreID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}
