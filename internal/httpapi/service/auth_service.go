package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vidshare/internal/config"
	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/models"
	"vidshare/internal/httpapi/repository"
	"vidshare/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried in every access token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	UserType string `json:"user_type"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Register creates a user after eager, field-keyed validation: every
	// problem is reported at once, not just the first.
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (token string, user *models.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type authService struct {
	userRepo       repository.UserRepository
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	userType := req.UserType
	if userType == "" {
		userType = models.UserTypeConsumer
	}

	fieldErrs := FieldErrors{}

	switch {
	case username == "":
		fieldErrs.Add("username", "Username is required")
	case len(username) < 3:
		fieldErrs.Add("username", "Username must be at least 3 characters long")
	default:
		taken, err := s.userRepo.UsernameExists(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			fieldErrs.Add("username", "Username already exists")
		}
	}

	if email == "" {
		fieldErrs.Add("email", "Email is required")
	} else {
		taken, err := s.userRepo.EmailExists(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			fieldErrs.Add("email", "Email already exists")
		}
	}

	if !models.ValidUserType(userType) {
		fieldErrs.Add("user_type", "Invalid user type")
	}

	switch {
	case req.Password1 == "":
		fieldErrs.Add("password1", "Password is required")
	case len(req.Password1) < 8:
		fieldErrs.Add("password1", "Password must be at least 8 characters long")
	}

	if req.Password1 != req.Password2 {
		fieldErrs.Add("password2", "Passwords do not match")
	}

	if fieldErrs.Any() {
		return nil, fieldErrs
	}

	hashedPassword, err := auth.HashPassword(req.Password1)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		UserType: userType,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		// Dummy compare so a missing user takes as long as a wrong password.
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		UserType: user.UserType,
		IsStaff:  user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}
