package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "github.com/akashvinod-2003/empmanage/internal/auth/errors"
	"github.com/akashvinod-2003/empmanage/internal/employee"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	GetMe(ctx context.Context, employeeID string) (AuthResponse, error)
}

type service struct {
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{employees: employees, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	emp, err := s.employees.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login password mismatch", zap.String("email", req.Email))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(emp.ID.String(), string(emp.Role))
	if err != nil {
		return LoginResponse{}, err
	}

	s.logger.Info("login success", zap.String("employee_id", emp.ID.String()))
	return LoginResponse{
		Tokens: tokens,
		Profile: AuthResponse{
			EmployeeID: emp.ID.String(),
			FullName:   emp.FullName,
			Email:      emp.Email,
			Role:       string(emp.Role),
			Department: emp.Department,
		},
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidRefreshToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, autherrors.ErrTokenExpired
		}
		return TokenPair{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenPair{}, autherrors.ErrInvalidRefreshToken
	}
	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)
	if employeeID == "" || role == "" {
		return TokenPair{}, autherrors.ErrInvalidRefreshToken
	}

	// The role is re-read from storage so a demotion takes effect on
	// the next refresh, not only on re-login.
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return TokenPair{}, autherrors.ErrInvalidRefreshToken
	}

	return s.issueTokens(emp.ID.String(), string(emp.Role))
}

func (s *service) GetMe(ctx context.Context, employeeID string) (AuthResponse, error) {
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrInvalidToken
		}
		return AuthResponse{}, err
	}
	return AuthResponse{
		EmployeeID: emp.ID.String(),
		FullName:   emp.FullName,
		Email:      emp.Email,
		Role:       string(emp.Role),
		Department: emp.Department,
	}, nil
}

func (s *service) issueTokens(employeeID, role string) (TokenPair, error) {
	access, err := signToken(employeeID, role, accessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := signToken(employeeID, role, refreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func signToken(employeeID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"employee_id": employeeID,
		"role":        role,
		"exp":         time.Now().Add(ttl).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
