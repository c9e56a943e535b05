package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "github.com/Taanawutana-gai/LMS/internal/auth/errors"
	"github.com/Taanawutana-gai/LMS/internal/employee"
	employeeerrors "github.com/Taanawutana-gai/LMS/internal/employee/errors"
	"github.com/Taanawutana-gai/LMS/internal/identity"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenTTL = 12 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, accessToken string) (LoginResponse, error)
}

type service struct {
	provider  identity.Provider
	employees employee.Service
	logger    *zap.Logger
}

// NewService wires the implicit login: a chat-platform access token is
// verified through the injected provider, then the resulting platform
// user id is resolved against the directory.
func NewService(provider identity.Provider, employees employee.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{provider: provider, employees: employees, logger: l}
}

func (s *service) Login(ctx context.Context, accessToken string) (LoginResponse, error) {
	profile, err := s.provider.Verify(ctx, accessToken)
	if err != nil {
		s.logger.Warn("login identity verification failed", zap.Error(err))
		return LoginResponse{}, autherrors.ErrIdentityVerification
	}

	staffProfile, err := s.employees.CheckUserStatus(ctx, profile.UserID)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrLineIDNotLinked) {
			// the client branches to the linking flow on this code
			return LoginResponse{}, autherrors.ErrIdentityNotLinked
		}
		s.logger.Error("login directory lookup failed", zap.Error(err))
		return LoginResponse{}, err
	}

	token, err := s.issueToken(staffProfile)
	if err != nil {
		s.logger.Error("login token issue failed", zap.Error(err))
		return LoginResponse{}, err
	}

	s.logger.Info("login success", zap.String("staff_id", staffProfile.StaffID))

	return LoginResponse{Token: token, Profile: staffProfile}, nil
}

func (s *service) issueToken(profile employee.ProfileResponse) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"staff_id":     profile.StaffID,
		"site_id":      profile.SiteID,
		"role":         profile.RoleType,
		"line_user_id": profile.LineUserID,
		"iat":          now.Unix(),
		"exp":          now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
