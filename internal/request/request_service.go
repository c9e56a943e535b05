package request

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Taanawutana-gai/LMS/internal/attachment"
	"github.com/Taanawutana-gai/LMS/internal/balance"
	"github.com/Taanawutana-gai/LMS/internal/events"
	"github.com/Taanawutana-gai/LMS/internal/messaging/kafka"
	requesterrors "github.com/Taanawutana-gai/LMS/internal/request/errors"
	"github.com/Taanawutana-gai/LMS/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BalanceReconciler mutates the balance row for one approved request,
// on the caller's transaction. Satisfied by balance.Service.
type BalanceReconciler interface {
	ApplyApproval(ctx context.Context, tx *sql.Tx, staffID, leaveType string, days float64) error
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	ListByStaff(ctx context.Context, staffID string) ([]LeaveRequestResponse, error)
	ListAll(ctx context.Context) ([]LeaveRequestResponse, error)
	UpdateStatus(ctx context.Context, requestID string, req UpdateStatusRequest) (LeaveRequestResponse, error)
	ExportAll(ctx context.Context) ([]byte, error)
	ApprovedCalendar(ctx context.Context, staffID string) (string, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	attachments attachment.Store
	reconciler  BalanceReconciler
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	attachments attachment.Store,
	reconciler BalanceReconciler,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, attachments, reconciler, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	attachments attachment.Store,
	reconciler BalanceReconciler,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		attachments: attachments,
		reconciler:  reconciler,
		outbox:      outboxRepo,
		logger:      l,
	}
}

// Submit records a new application. Status is always Pending and the
// decision fields start empty regardless of input. TotalDays is stored
// as supplied; the date range is parsed but not judged.
func (s *service) Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit leave request",
		zap.String("request_id", rid),
		zap.String("staff_id", req.StaffID),
		zap.String("leave_type", req.LeaveType),
		zap.Float64("total_days", req.TotalDays),
	)

	if !balance.ValidType(balance.LeaveType(req.LeaveType)) {
		return LeaveRequestResponse{}, requesterrors.ErrUnknownLeaveType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	appliedDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.AppliedDate != "" {
		appliedDate, err = parseDate(req.AppliedDate)
		if err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	attachmentURL := ""
	if req.AttachmentData != "" {
		data, err := decodeAttachment(req.AttachmentData)
		if err != nil {
			s.logger.Warn("submit leave attachment decode failed", zap.String("request_id", rid), zap.Error(err))
			return LeaveRequestResponse{}, requesterrors.ErrInvalidAttachment
		}
		attachmentURL, err = s.attachments.Save(ctx, req.AttachmentName, req.AttachmentContentType, data)
		if err != nil {
			// a broken blob write fails the whole submission rather
			// than leaving a corrupt reference on the row
			s.logger.Error("submit leave attachment persist failed", zap.String("request_id", rid), zap.Error(err))
			return LeaveRequestResponse{}, err
		}
	}

	l := &LeaveRequest{
		RequestID:     NewRequestID(),
		AppliedDate:   appliedDate,
		StaffID:       req.StaffID,
		StaffName:     req.StaffName,
		SiteID:        req.SiteID,
		LeaveType:     req.LeaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalDays:     req.TotalDays,
		Reason:        req.Reason,
		Status:        StatusPending,
		AttachmentURL: attachmentURL,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveRequestResponse{}, mapRepositoryError(err)
	}

	if err := s.queueSubmittedEvent(ctx, tx, rid, l); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", l.RequestID),
		zap.String("staff_id", l.StaffID),
	)

	return mapToResponse(*l), nil
}

func (s *service) ListByStaff(ctx context.Context, staffID string) ([]LeaveRequestResponse, error) {
	if strings.TrimSpace(staffID) == "" {
		return nil, requesterrors.ErrRequestNotFound
	}

	requests, err := s.repo.FindAllByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("list requests by staff failed", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) ListAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list all requests failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(requests), nil
}

// UpdateStatus decides a pending request. The row is locked for the
// check-then-write, decided rows reject any further transition, and an
// approval debits the balance on the same transaction so the decision
// and the reconciliation commit or roll back as one.
func (s *service) UpdateStatus(ctx context.Context, requestID string, req UpdateStatusRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update request status",
		zap.String("request_id", rid),
		zap.String("leave_request_id", requestID),
		zap.String("target_status", req.Status),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update status begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByRequestIDForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveRequestResponse{}, requesterrors.ErrRequestNotFound
		}
		s.logger.Error("update status lookup failed", zap.String("leave_request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, mapRepositoryError(err)
	}

	if IsTerminal(l.Status) {
		s.logger.Warn("update status rejected, request already decided",
			zap.String("leave_request_id", requestID),
			zap.String("current_status", l.Status),
			zap.String("target_status", req.Status),
		)
		return LeaveRequestResponse{}, requesterrors.ErrInvalidStatusTransition
	}

	decisionDate := time.Now().UTC()
	if err := qtx.UpdateDecision(ctx, requestID, req.Status, req.ApproverName, req.ApproverReason, decisionDate); err != nil {
		s.logger.Error("update status persist failed", zap.String("leave_request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	// only an approval consumes balance; a later rejection or
	// cancellation never restores anything
	if req.Status == StatusApproved {
		if err := s.reconciler.ApplyApproval(ctx, tx, l.StaffID, l.LeaveType, l.TotalDays); err != nil {
			s.logger.Error("update status balance reconcile failed",
				zap.String("leave_request_id", requestID),
				zap.String("staff_id", l.StaffID),
				zap.Error(err),
			)
			return LeaveRequestResponse{}, err
		}
	}

	if err := s.queueDecidedEvent(ctx, tx, rid, l, req); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update status commit failed", zap.String("leave_request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	l.Status = req.Status
	l.ApproverName = &req.ApproverName
	l.ApproverNote = &req.ApproverReason
	l.DecisionDate = &decisionDate

	s.logger.Info("update status success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", requestID),
		zap.String("status", req.Status),
	)

	return mapToResponse(*l), nil
}

func (s *service) queueSubmittedEvent(ctx context.Context, tx *sql.Tx, rid string, l *LeaveRequest) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveRequestSubmittedEvent{
		EventType:  "leave_request_submitted",
		TraceID:    rid,
		RequestID:  l.RequestID,
		StaffID:    l.StaffID,
		SiteID:     l.SiteID,
		LeaveType:  l.LeaveType,
		TotalDays:  l.TotalDays,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		TraceID:       rid,
		AggregateType: "leave_request",
		AggregateID:   l.RequestID,
		EventType:     event.EventType,
		Topic:         events.LeaveRequestSubmittedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("submit leave outbox persist failed",
			zap.String("leave_request_id", l.RequestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) queueDecidedEvent(ctx context.Context, tx *sql.Tx, rid string, l *LeaveRequest, req UpdateStatusRequest) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveRequestDecidedEvent{
		EventType:  "leave_request_decided",
		TraceID:    rid,
		RequestID:  l.RequestID,
		StaffID:    l.StaffID,
		LeaveType:  l.LeaveType,
		TotalDays:  l.TotalDays,
		Status:     req.Status,
		Approver:   req.ApproverName,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		TraceID:       rid,
		AggregateType: "leave_request",
		AggregateID:   l.RequestID,
		EventType:     event.EventType,
		Topic:         events.LeaveRequestDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("update status outbox persist failed",
			zap.String("leave_request_id", l.RequestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

// decodeAttachment accepts plain base64 or a data URL.
func decodeAttachment(payload string) ([]byte, error) {
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	return base64.StdEncoding.DecodeString(payload)
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		RequestID:     l.RequestID,
		AppliedDate:   l.AppliedDate.Format("2006-01-02"),
		StaffID:       l.StaffID,
		StaffName:     l.StaffName,
		SiteID:        l.SiteID,
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		TotalDays:     l.TotalDays,
		Reason:        l.Reason,
		Status:        l.Status,
		AttachmentURL: l.AttachmentURL,
	}
	if l.ApproverName != nil && *l.ApproverName != "" {
		resp.ApproverName = l.ApproverName
	}
	if l.ApproverNote != nil && *l.ApproverNote != "" {
		resp.ApproverNote = l.ApproverNote
	}
	if l.DecisionDate != nil {
		v := l.DecisionDate.Format("2006-01-02")
		resp.DecisionDate = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
