package request_test

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Taanawutana-gai/LMS/internal/attachment"
	"github.com/Taanawutana-gai/LMS/internal/request"
	requesterrors "github.com/Taanawutana-gai/LMS/internal/request/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

type fakeRequestRepository struct {
	withTxFn                   func(tx *sql.Tx) request.Repository
	createFn                   func(ctx context.Context, l *request.LeaveRequest) error
	findByRequestIDFn          func(ctx context.Context, requestID string) (*request.LeaveRequest, error)
	findByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*request.LeaveRequest, error)
	findAllByStaffFn           func(ctx context.Context, staffID string) ([]request.LeaveRequest, error)
	findAllFn                  func(ctx context.Context) ([]request.LeaveRequest, error)
	findApprovedByStaffFn      func(ctx context.Context, staffID string) ([]request.LeaveRequest, error)
	updateDecisionFn           func(ctx context.Context, requestID, status, approverName, approverNote string, decisionDate time.Time) error
}

func (f *fakeRequestRepository) WithTx(tx *sql.Tx) request.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeRequestRepository) Create(ctx context.Context, l *request.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeRequestRepository) FindByRequestID(ctx context.Context, requestID string) (*request.LeaveRequest, error) {
	if f.findByRequestIDFn != nil {
		return f.findByRequestIDFn(ctx, requestID)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRequestRepository) FindByRequestIDForUpdate(ctx context.Context, requestID string) (*request.LeaveRequest, error) {
	if f.findByRequestIDForUpdateFn != nil {
		return f.findByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRequestRepository) FindAllByStaff(ctx context.Context, staffID string) ([]request.LeaveRequest, error) {
	if f.findAllByStaffFn != nil {
		return f.findAllByStaffFn(ctx, staffID)
	}
	return nil, nil
}

func (f *fakeRequestRepository) FindAll(ctx context.Context) ([]request.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRequestRepository) FindApprovedByStaff(ctx context.Context, staffID string) ([]request.LeaveRequest, error) {
	if f.findApprovedByStaffFn != nil {
		return f.findApprovedByStaffFn(ctx, staffID)
	}
	return nil, nil
}

func (f *fakeRequestRepository) UpdateDecision(ctx context.Context, requestID, status, approverName, approverNote string, decisionDate time.Time) error {
	if f.updateDecisionFn != nil {
		return f.updateDecisionFn(ctx, requestID, status, approverName, approverNote, decisionDate)
	}
	return nil
}

type fakeAttachmentStore struct {
	saveFn func(ctx context.Context, fileName, contentType string, data []byte) (string, error)
	loadFn func(ctx context.Context, id string) (*attachment.Attachment, error)
}

func (f *fakeAttachmentStore) Save(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	if f.saveFn != nil {
		return f.saveFn(ctx, fileName, contentType, data)
	}
	return "/api/v1/attachments/test", nil
}

func (f *fakeAttachmentStore) Load(ctx context.Context, id string) (*attachment.Attachment, error) {
	if f.loadFn != nil {
		return f.loadFn(ctx, id)
	}
	return nil, attachment.ErrAttachmentNotFound
}

type fakeReconciler struct {
	applyApprovalFn func(ctx context.Context, tx *sql.Tx, staffID, leaveType string, days float64) error
}

func (f *fakeReconciler) ApplyApproval(ctx context.Context, tx *sql.Tx, staffID, leaveType string, days float64) error {
	if f.applyApprovalFn != nil {
		return f.applyApprovalFn(ctx, tx, staffID, leaveType, days)
	}
	return nil
}

type requestServiceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     request.Service
	repo        *fakeRequestRepository
	attachments *fakeAttachmentStore
	reconciler  *fakeReconciler
}

func setupRequestServiceTest(t *testing.T) *requestServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRequestRepository{}
	attachments := &fakeAttachmentStore{}
	reconciler := &fakeReconciler{}
	svc := request.NewService(db, repo, attachments, reconciler)

	return &requestServiceDeps{
		db:          db,
		sqlMock:     sqlMock,
		service:     svc,
		repo:        repo,
		attachments: attachments,
		reconciler:  reconciler,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func validSubmit() request.SubmitLeaveRequest {
	return request.SubmitLeaveRequest{
		StaffID:   "EMP001",
		StaffName: "Somchai P.",
		SiteID:    "BKK01",
		LeaveType: "Annual Leave",
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
		TotalDays: 3,
		Reason:    "Family trip",
	}
}

func TestRequestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, l *request.LeaveRequest) error {
			assert.True(t, strings.HasPrefix(l.RequestID, "REQ-"))
			assert.Equal(t, "EMP001", l.StaffID)
			assert.Equal(t, "Annual Leave", l.LeaveType)
			assert.Equal(t, request.StatusPending, l.Status)
			assert.Equal(t, 3.0, l.TotalDays)
			assert.Equal(t, "2026-09-10", l.StartDate.Format("2006-01-02"))
			assert.Equal(t, "2026-09-12", l.EndDate.Format("2006-01-02"))
			assert.Empty(t, l.AttachmentURL)
			assert.Nil(t, l.ApproverName)
			assert.Nil(t, l.DecisionDate)
			return nil
		}

		resp, err := deps.service.Submit(ctx, validSubmit())

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.RequestID, "REQ-"))
		assert.Equal(t, request.StatusPending, resp.Status)
		assert.Equal(t, 3.0, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success with attachment", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		raw := []byte("medical certificate")
		req := validSubmit()
		req.LeaveType = "Sick Leave"
		req.AttachmentName = "cert.pdf"
		req.AttachmentContentType = "application/pdf"
		req.AttachmentData = base64.StdEncoding.EncodeToString(raw)

		deps.attachments.saveFn = func(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
			assert.Equal(t, "cert.pdf", fileName)
			assert.Equal(t, "application/pdf", contentType)
			assert.Equal(t, raw, data)
			return "/api/v1/attachments/abc", nil
		}
		deps.repo.createFn = func(ctx context.Context, l *request.LeaveRequest) error {
			assert.Equal(t, "/api/v1/attachments/abc", l.AttachmentURL)
			return nil
		}

		resp, err := deps.service.Submit(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "/api/v1/attachments/abc", resp.AttachmentURL)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative attachment persist failure fails the submission", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		req := validSubmit()
		req.AttachmentData = base64.StdEncoding.EncodeToString([]byte("blob"))

		deps.attachments.saveFn = func(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
			return "", attachment.ErrAttachmentPersist
		}
		deps.repo.createFn = func(ctx context.Context, l *request.LeaveRequest) error {
			t.Fatal("row must not be written when the blob was not stored")
			return nil
		}

		_, err := deps.service.Submit(ctx, req)
		assert.ErrorIs(t, err, attachment.ErrAttachmentPersist)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative attachment payload not base64", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		req := validSubmit()
		req.AttachmentData = "%%%not-base64%%%"

		_, err := deps.service.Submit(ctx, req)
		assert.ErrorIs(t, err, requesterrors.ErrInvalidAttachment)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		req := validSubmit()
		req.LeaveType = "Sabbatical"

		_, err := deps.service.Submit(ctx, req)
		assert.ErrorIs(t, err, requesterrors.ErrUnknownLeaveType)
	})

	t.Run("negative bad date format", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		req := validSubmit()
		req.StartDate = "10/09/2026"

		_, err := deps.service.Submit(ctx, req)
		assert.ErrorIs(t, err, requesterrors.ErrInvalidDateFormat)
	})

	t.Run("negative persist failure rolls back", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, l *request.LeaveRequest) error {
			return errors.New("connection reset")
		}

		_, err := deps.service.Submit(ctx, validSubmit())
		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func pendingRow() *request.LeaveRequest {
	return &request.LeaveRequest{
		RequestID:   "REQ-A1B2C3D4E",
		AppliedDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StaffID:     "EMP001",
		StaffName:   "Somchai P.",
		SiteID:      "BKK01",
		LeaveType:   "Annual Leave",
		StartDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		TotalDays:   3,
		Status:      request.StatusPending,
	}
}

func TestRequestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("approve reconciles the balance once on the same tx", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByRequestIDForUpdateFn = func(ctx context.Context, requestID string) (*request.LeaveRequest, error) {
			assert.Equal(t, "REQ-A1B2C3D4E", requestID)
			return pendingRow(), nil
		}
		deps.repo.updateDecisionFn = func(ctx context.Context, requestID, status, approverName, approverNote string, decisionDate time.Time) error {
			assert.Equal(t, request.StatusApproved, status)
			assert.Equal(t, "Manager A", approverName)
			return nil
		}

		reconcileCalls := 0
		deps.reconciler.applyApprovalFn = func(ctx context.Context, tx *sql.Tx, staffID, leaveType string, days float64) error {
			reconcileCalls++
			assert.NotNil(t, tx)
			assert.Equal(t, "EMP001", staffID)
			assert.Equal(t, "Annual Leave", leaveType)
			assert.Equal(t, 3.0, days)
			return nil
		}

		resp, err := deps.service.UpdateStatus(ctx, "REQ-A1B2C3D4E", request.UpdateStatusRequest{
			Status:       request.StatusApproved,
			ApproverName: "Manager A",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, reconcileCalls)
		assert.Equal(t, request.StatusApproved, resp.Status)
		assert.NotNil(t, resp.DecisionDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject never touches the balance", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByRequestIDForUpdateFn = func(ctx context.Context, requestID string) (*request.LeaveRequest, error) {
			return pendingRow(), nil
		}
		deps.reconciler.applyApprovalFn = func(ctx context.Context, tx *sql.Tx, staffID, leaveType string, days float64) error {
			t.Fatal("a rejection must not reconcile anything")
			return nil
		}

		resp, err := deps.service.UpdateStatus(ctx, "REQ-A1B2C3D4E", request.UpdateStatusRequest{
			Status:         request.StatusRejected,
			ApproverName:   "Manager A",
			ApproverReason: "Short staffed that week",
		})

		assert.NoError(t, err)
		assert.Equal(t, request.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByRequestIDForUpdateFn = func(ctx context.Context, requestID string) (*request.LeaveRequest, error) {
			l := pendingRow()
			l.Status = request.StatusApproved
			return l, nil
		}
		deps.repo.updateDecisionFn = func(ctx context.Context, requestID, status, approverName, approverNote string, decisionDate time.Time) error {
			t.Fatal("a decided row must not be written again")
			return nil
		}
		deps.reconciler.applyApprovalFn = func(ctx context.Context, tx *sql.Tx, staffID, leaveType string, days float64) error {
			t.Fatal("a second approval must not debit the balance again")
			return nil
		}

		_, err := deps.service.UpdateStatus(ctx, "REQ-A1B2C3D4E", request.UpdateStatusRequest{
			Status: request.StatusApproved,
		})

		assert.ErrorIs(t, err, requesterrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByRequestIDForUpdateFn = func(ctx context.Context, requestID string) (*request.LeaveRequest, error) {
			return nil, sql.ErrNoRows
		}

		_, err := deps.service.UpdateStatus(ctx, "REQ-MISSING00", request.UpdateStatusRequest{
			Status: request.StatusApproved,
		})

		assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reconcile failure rolls everything back", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByRequestIDForUpdateFn = func(ctx context.Context, requestID string) (*request.LeaveRequest, error) {
			return pendingRow(), nil
		}
		boom := errors.New("balance row gone")
		deps.reconciler.applyApprovalFn = func(ctx context.Context, tx *sql.Tx, staffID, leaveType string, days float64) error {
			return boom
		}

		_, err := deps.service.UpdateStatus(ctx, "REQ-A1B2C3D4E", request.UpdateStatusRequest{
			Status: request.StatusApproved,
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestRequestService_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("by staff maps rows newest first as stored", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByStaffFn = func(ctx context.Context, staffID string) ([]request.LeaveRequest, error) {
			assert.Equal(t, "EMP001", staffID)
			return []request.LeaveRequest{*pendingRow()}, nil
		}

		rows, err := deps.service.ListByStaff(ctx, "EMP001")

		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, "REQ-A1B2C3D4E", rows[0].RequestID)
		assert.Equal(t, "2026-09-10", rows[0].StartDate)
	})

	t.Run("negative blank staff id", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ListByStaff(ctx, " ")
		assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)
	})

	t.Run("all", func(t *testing.T) {
		deps := setupRequestServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context) ([]request.LeaveRequest, error) {
			return []request.LeaveRequest{*pendingRow(), *pendingRow()}, nil
		}

		rows, err := deps.service.ListAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}
