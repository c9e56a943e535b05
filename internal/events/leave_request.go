package events

import "time"

const (
	LeaveRequestSubmittedTopic = "lms.leave.request.v1"
	LeaveRequestDecidedTopic   = "lms.leave.decision.v1"
)

type LeaveRequestSubmittedEvent struct {
	EventType  string    `json:"event_type"`
	TraceID    string    `json:"trace_id"`
	RequestID  string    `json:"request_id"`
	StaffID    string    `json:"staff_id"`
	SiteID     string    `json:"site_id"`
	LeaveType  string    `json:"leave_type"`
	TotalDays  float64   `json:"total_days"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LeaveRequestDecidedEvent struct {
	EventType  string    `json:"event_type"`
	TraceID    string    `json:"trace_id"`
	RequestID  string    `json:"request_id"`
	StaffID    string    `json:"staff_id"`
	LeaveType  string    `json:"leave_type"`
	TotalDays  float64   `json:"total_days"`
	Status     string    `json:"status"`
	Approver   string    `json:"approver"`
	OccurredAt time.Time `json:"occurred_at"`
}
