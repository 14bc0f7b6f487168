package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
)

// InterfaceAuthService issues and validates session tokens.
type InterfaceAuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	GenerateToken(user *models.User) (string, error)
	ParseToken(tokenString string) (*Claims, error)
	Me(ctx context.Context, userID uint) (*models.User, error)
	EnsureUser(ctx context.Context, username, name, password string, role models.Role) (*models.User, bool, error)
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Claims carried by the session token.
type Claims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	Name   string      `json:"name"`
	jwt.RegisteredClaims
}

// Actor converts the claims into a service caller.
func (c *Claims) Actor() Actor {
	return Actor{UserID: c.UserID, Role: c.Role, Name: c.Name}
}

// AuthService implements InterfaceAuthService with HS256 tokens and bcrypt passwords.
type AuthService struct {
	Repo   *repository.Repository
	Config *config.Config
	issuer string
	now    func() time.Time
}

// NewAuthService creates the auth service.
func NewAuthService(repo *repository.Repository, cfg *config.Config) InterfaceAuthService {
	return &AuthService{
		Repo:   repo,
		Config: cfg,
		issuer: "rr-guanabara",
		now:    time.Now,
	}
}

// 1 Login checks the credentials and issues a token
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWrongPassword
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrWrongPassword
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.Repo.TouchLastSignedIn(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastSignedIn = &now

	return &LoginResult{Token: token, ExpiresAt: now.Add(s.Config.JWTExpiry), User: user}, nil
}

// 2 GenerateToken signs a session token for user
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.Config.JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.Config.JWTSecretKey))
}

// 3 ParseToken validates the signature and expiry
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.Config.JWTSecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || !claims.Role.Valid() {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// 4 Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// 5 EnsureUser creates the user when the username is free
func (s *AuthService) EnsureUser(ctx context.Context, username, name, password string, role models.Role) (*models.User, bool, error) {
	existing, err := s.Repo.GetUserByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}
	if !role.Valid() {
		return nil, false, invalid("role %q", role)
	}
	if password == "" {
		return nil, false, invalid("password for %s is empty", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Username: username, Name: name, PasswordHash: string(hash), Role: role}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
