package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"
)

// LeaveRequest is one leave application. Staff name and site id are
// denormalized copies taken at submission time. TotalDays comes from
// the caller and is stored as-is, it is never recomputed from the date
// range. Rows are never deleted: cancellation is a status value.
type LeaveRequest struct {
	RequestID   string    `gorm:"column:request_id;primaryKey;type:varchar(20)"`
	AppliedDate time.Time `gorm:"column:applied_date;type:date;not null"`
	StaffID     string    `gorm:"column:staff_id;type:varchar(30);not null;index:idx_leave_requests_staff"`
	StaffName   string    `gorm:"column:staff_name;type:varchar(120)"`
	SiteID      string    `gorm:"column:site_id;type:varchar(30)"`
	LeaveType   string    `gorm:"column:leave_type;type:varchar(40);not null"`
	StartDate   time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate     time.Time `gorm:"column:end_date;type:date;not null"`
	TotalDays   float64   `gorm:"column:total_days;not null"`
	Reason      string    `gorm:"column:reason;type:text"`

	Status        string     `gorm:"column:status;type:varchar(20);not null;default:'Pending';index:idx_leave_requests_status"`
	AttachmentURL string     `gorm:"column:attachment_url;type:varchar(255)"`
	ApproverName  *string    `gorm:"column:approver_name;type:varchar(120)"`
	ApproverNote  *string    `gorm:"column:approver_note;type:text"`
	DecisionDate  *time.Time `gorm:"column:decision_date;type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// IsTerminal reports whether no further transition is allowed. Pending
// is the only non-terminal state.
func IsTerminal(status string) bool {
	return status != StatusPending
}

// NewRequestID issues a fresh display token, REQ- plus nine characters.
func NewRequestID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "REQ-" + strings.ToUpper(raw[:9])
}
