package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Taanawutana-gai/LMS/internal/auth"
	autherrors "github.com/Taanawutana-gai/LMS/internal/auth/errors"
	"github.com/Taanawutana-gai/LMS/internal/employee"
	employeeerrors "github.com/Taanawutana-gai/LMS/internal/employee/errors"
	"github.com/Taanawutana-gai/LMS/internal/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	verifyFn func(ctx context.Context, accessToken string) (identity.Profile, error)
}

func (f *fakeProvider) Verify(ctx context.Context, accessToken string) (identity.Profile, error) {
	return f.verifyFn(ctx, accessToken)
}

type fakeEmployeeService struct {
	checkUserStatusFn func(ctx context.Context, lineUserID string) (employee.ProfileResponse, error)
}

func (f *fakeEmployeeService) CheckUserStatus(ctx context.Context, lineUserID string) (employee.ProfileResponse, error) {
	return f.checkUserStatusFn(ctx, lineUserID)
}

func (f *fakeEmployeeService) GetProfile(ctx context.Context, staffID string) (employee.ProfileResponse, error) {
	return employee.ProfileResponse{}, employeeerrors.ErrEmployeeNotFound
}

func (f *fakeEmployeeService) LinkLineID(ctx context.Context, staffID, lineUserID string) (employee.ProfileResponse, error) {
	return employee.ProfileResponse{}, employeeerrors.ErrEmployeeNotFound
}

func (f *fakeEmployeeService) DirectorySnapshot(ctx context.Context) (employee.DirectorySnapshotResponse, error) {
	return employee.DirectorySnapshotResponse{}, nil
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success issues a claims-bearing token", func(t *testing.T) {
		provider := &fakeProvider{
			verifyFn: func(ctx context.Context, accessToken string) (identity.Profile, error) {
				assert.Equal(t, "line-access-token", accessToken)
				return identity.Profile{UserID: "U1234567890abcdef", DisplayName: "Somchai"}, nil
			},
		}
		employees := &fakeEmployeeService{
			checkUserStatusFn: func(ctx context.Context, lineUserID string) (employee.ProfileResponse, error) {
				assert.Equal(t, "U1234567890abcdef", lineUserID)
				return employee.ProfileResponse{
					LineUserID: lineUserID,
					StaffID:    "EMP001",
					Name:       "Somchai P.",
					SiteID:     "BKK01",
					RoleType:   "Manager",
				}, nil
			},
		}
		svc := auth.NewService(provider, employees)

		resp, err := svc.Login(ctx, "line-access-token")

		assert.NoError(t, err)
		assert.Equal(t, "EMP001", resp.Profile.StaffID)
		assert.NotEmpty(t, resp.Token)

		parsed, err := jwt.Parse(resp.Token, func(t *jwt.Token) (any, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, "EMP001", claims["staff_id"])
		assert.Equal(t, "Manager", claims["role"])
		assert.Equal(t, "BKK01", claims["site_id"])
	})

	t.Run("negative verification failure", func(t *testing.T) {
		provider := &fakeProvider{
			verifyFn: func(ctx context.Context, accessToken string) (identity.Profile, error) {
				return identity.Profile{}, errors.New("token rejected upstream")
			},
		}
		employees := &fakeEmployeeService{
			checkUserStatusFn: func(ctx context.Context, lineUserID string) (employee.ProfileResponse, error) {
				t.Fatal("directory must not be consulted for an unverified identity")
				return employee.ProfileResponse{}, nil
			},
		}
		svc := auth.NewService(provider, employees)

		_, err := svc.Login(ctx, "bad-token")
		assert.ErrorIs(t, err, autherrors.ErrIdentityVerification)
	})

	t.Run("negative verified but not linked", func(t *testing.T) {
		provider := &fakeProvider{
			verifyFn: func(ctx context.Context, accessToken string) (identity.Profile, error) {
				return identity.Profile{UserID: "Uunlinked"}, nil
			},
		}
		employees := &fakeEmployeeService{
			checkUserStatusFn: func(ctx context.Context, lineUserID string) (employee.ProfileResponse, error) {
				return employee.ProfileResponse{}, employeeerrors.ErrLineIDNotLinked
			},
		}
		svc := auth.NewService(provider, employees)

		_, err := svc.Login(ctx, "line-access-token")
		assert.ErrorIs(t, err, autherrors.ErrIdentityNotLinked)
	})
}
