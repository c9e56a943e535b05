package balance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	balanceerrors "github.com/Taanawutana-gai/LMS/internal/balance/errors"
	"github.com/Taanawutana-gai/LMS/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	balancesKeyPrefix = "balances:"
	balancesCacheTTL  = 5 * time.Minute
)

func balancesKey(staffID string) string {
	return balancesKeyPrefix + staffID
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetBalances(ctx context.Context, staffID string) (BalancesResponse, error)
	ApplyApproval(ctx context.Context, tx *sql.Tx, staffID, leaveType string, days float64) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetBalances(ctx context.Context, staffID string) (BalancesResponse, error) {
	if strings.TrimSpace(staffID) == "" {
		return BalancesResponse{}, balanceerrors.ErrInvalidStaffID
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, balancesKey(staffID)).Result(); err == nil {
			var resp BalancesResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	// collapse concurrent cache misses for the same row into one read
	v, err, _ := s.sf.Do(staffID, func() (any, error) {
		b, err := s.repo.FindByStaffID(ctx, staffID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return BalancesResponse{}, balanceerrors.ErrBalanceNotFound
			}
			s.logger.Error("get balances lookup failed", zap.String("staff_id", staffID), zap.Error(err))
			return BalancesResponse{}, err
		}

		resp := mapToBalances(*b)
		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = s.rdb.Set(ctx, balancesKey(staffID), payload, balancesCacheTTL).Err()
			}
		}
		return resp, nil
	})
	if err != nil {
		return BalancesResponse{}, err
	}

	return v.(BalancesResponse), nil
}

// ApplyApproval reconciles the balance row for one approved request.
// The weekly switch credits one day into the "other" pool; every other
// type debits its own pair. Runs on the caller's transaction so the
// mutation commits or rolls back together with the request row.
func (s *service) ApplyApproval(ctx context.Context, tx *sql.Tx, staffID, leaveType string, days float64) error {
	rid := contextutil.GetRequestID(ctx)

	t := LeaveType(leaveType)
	if !ValidType(t) {
		s.logger.Warn("apply approval unknown leave type",
			zap.String("request_id", rid),
			zap.String("staff_id", staffID),
			zap.String("leave_type", leaveType),
		)
		return balanceerrors.ErrUnknownLeaveType
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	var err error
	if t == TypeWeeklySwitch {
		err = repo.ApplySwitch(ctx, staffID)
	} else {
		err = repo.ApplyDebit(ctx, staffID, t, days)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("apply approval balance row missing",
				zap.String("request_id", rid),
				zap.String("staff_id", staffID),
			)
			return balanceerrors.ErrBalanceNotFound
		}
		s.logger.Error("apply approval persist failed",
			zap.String("request_id", rid),
			zap.String("staff_id", staffID),
			zap.String("leave_type", leaveType),
			zap.Error(err),
		)
		return err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, balancesKey(staffID)).Err(); err != nil {
			s.logger.Error("failed to invalidate balances cache",
				zap.String("staff_id", staffID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("apply approval success",
		zap.String("request_id", rid),
		zap.String("staff_id", staffID),
		zap.String("leave_type", leaveType),
		zap.Float64("days", days),
	)
	return nil
}

func mapToBalances(b LeaveBalance) BalancesResponse {
	entries := make([]BalanceEntry, 0, len(allTypes))
	for _, t := range allTypes {
		used, remaining := b.pairFor(t)
		entries = append(entries, BalanceEntry{
			Type:      string(t),
			Used:      used,
			Remaining: remaining,
		})
	}

	return BalancesResponse{
		StaffID:     b.StaffID,
		Name:        b.FullName,
		SiteID:      b.SiteID,
		Balances:    entries,
		SwitchCount: b.SwitchCount,
	}
}
