package employee

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	employeeerrors "github.com/Taanawutana-gai/LMS/internal/employee/errors"
	"github.com/Taanawutana-gai/LMS/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const directorySampleLimit = 5

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	CheckUserStatus(ctx context.Context, lineUserID string) (ProfileResponse, error)
	GetProfile(ctx context.Context, staffID string) (ProfileResponse, error)
	LinkLineID(ctx context.Context, staffID, lineUserID string) (ProfileResponse, error)
	DirectorySnapshot(ctx context.Context) (DirectorySnapshotResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) CheckUserStatus(ctx context.Context, lineUserID string) (ProfileResponse, error) {
	if strings.TrimSpace(lineUserID) == "" {
		return ProfileResponse{}, employeeerrors.ErrInvalidLineUserID
	}

	e, err := s.repo.FindByLineUserID(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, employeeerrors.ErrLineIDNotLinked
		}
		s.logger.Error("check user status lookup failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	return mapToProfile(*e), nil
}

func (s *service) GetProfile(ctx context.Context, staffID string) (ProfileResponse, error) {
	if strings.TrimSpace(staffID) == "" {
		return ProfileResponse{}, employeeerrors.ErrInvalidStaffID
	}

	e, err := s.repo.FindByStaffID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		s.logger.Error("get profile lookup failed", zap.String("staff_id", staffID), zap.Error(err))
		return ProfileResponse{}, err
	}

	return mapToProfile(*e), nil
}

// LinkLineID binds a chat identity to one staff record under the
// single-owner rule: a line id held by a different staff record is a
// conflict, re-linking the same record succeeds. The holder row is
// locked for the duration of the transaction so two racing links for
// the same identity cannot both pass the guard.
func (s *service) LinkLineID(ctx context.Context, staffID, lineUserID string) (ProfileResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("link line id requested",
		zap.String("request_id", rid),
		zap.String("staff_id", staffID),
	)

	if strings.TrimSpace(staffID) == "" {
		return ProfileResponse{}, employeeerrors.ErrInvalidStaffID
	}
	if strings.TrimSpace(lineUserID) == "" {
		return ProfileResponse{}, employeeerrors.ErrInvalidLineUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("link line id begin tx failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	holder, err := qtx.FindHolderOfLineIDForUpdate(ctx, lineUserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("link line id holder lookup failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	if holder != nil && holder.StaffID != staffID {
		s.logger.Warn("link line id rejected, identity already bound",
			zap.String("staff_id", staffID),
			zap.String("holder_staff_id", holder.StaffID),
		)
		return ProfileResponse{}, employeeerrors.ErrLineIDAlreadyBound
	}

	target, err := qtx.FindByStaffIDForUpdate(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProfileResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		s.logger.Error("link line id target lookup failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	if err := qtx.BindLineID(ctx, staffID, lineUserID); err != nil {
		s.logger.Error("link line id bind failed", zap.String("staff_id", staffID), zap.Error(err))
		return ProfileResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("link line id commit failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	s.logger.Info("link line id success",
		zap.String("request_id", rid),
		zap.String("staff_id", staffID),
	)

	target.LineUserID = &lineUserID
	return mapToProfile(*target), nil
}

func (s *service) DirectorySnapshot(ctx context.Context) (DirectorySnapshotResponse, error) {
	rows, total, err := s.repo.DirectoryRows(ctx, directorySampleLimit)
	if err != nil {
		s.logger.Error("directory snapshot failed", zap.Error(err))
		return DirectorySnapshotResponse{}, err
	}

	sample := make([]ProfileResponse, len(rows))
	for i, e := range rows {
		sample[i] = mapToProfile(e)
	}

	return DirectorySnapshotResponse{
		TableName: Employee{}.TableName(),
		RowCount:  total,
		Headers:   []string{"line_user_id", "staff_id", "full_name", "site_id", "role_type", "position"},
		Sample:    sample,
	}, nil
}

func mapToProfile(e Employee) ProfileResponse {
	resp := ProfileResponse{
		StaffID:  e.StaffID,
		Name:     e.FullName,
		SiteID:   e.SiteID,
		RoleType: e.RoleType,
		Position: e.Position,
	}
	if e.LineUserID != nil {
		resp.LineUserID = *e.LineUserID
	}
	return resp
}
