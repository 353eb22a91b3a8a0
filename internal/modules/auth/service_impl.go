package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type claims struct {
	jwt.StandardClaims
	Role string `json:"role"`
}

type service struct {
	userRepo user.Repository
	jwtKey   []byte
}

// NewService creates a new auth service signing tokens with the given secret.
func NewService(userRepo user.Repository, jwtSecret string) Service {
	return &service{userRepo: userRepo, jwtKey: []byte(jwtSecret)}
}

func (s *service) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, errors.New("invalid credentials")
	}
	if !u.IsActive {
		return "", nil, errors.New("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	c := &claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			ExpiresAt: expirationTime.Unix(),
		},
		Role: string(u.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return "", nil, err
	}

	return tokenString, u, nil
}

func (s *service) VerifyToken(tokenString string) (*Principal, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("could not validate credentials")
	}
	role := user.Role(c.Role)
	if c.Subject == "" || !role.Valid() {
		return nil, errors.New("could not validate credentials")
	}
	return &Principal{UserID: c.Subject, Role: role}, nil
}

func (s *service) Me(ctx context.Context, userID string) (*user.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}
