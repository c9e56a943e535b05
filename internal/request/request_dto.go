package request

type SubmitLeaveRequest struct {
	StaffID     string  `json:"staff_id" binding:"required"`
	StaffName   string  `json:"staff_name" binding:"required"`
	SiteID      string  `json:"site_id"`
	LeaveType   string  `json:"leave_type" binding:"required"`
	AppliedDate string  `json:"applied_date"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	TotalDays   float64 `json:"total_days" binding:"required,gt=0"`
	Reason      string  `json:"reason"`

	AttachmentName        string `json:"attachment_name"`
	AttachmentContentType string `json:"attachment_content_type"`
	AttachmentData        string `json:"attachment_data"` // base64, optionally a data URL
}

type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required,oneof=Approved Rejected Cancelled"`
	ApproverName   string `json:"approver_name"`
	ApproverReason string `json:"approver_reason"`
}

type LeaveRequestResponse struct {
	RequestID     string  `json:"id"`
	AppliedDate   string  `json:"applied_date"`
	StaffID       string  `json:"staff_id"`
	StaffName     string  `json:"staff_name"`
	SiteID        string  `json:"site_id"`
	LeaveType     string  `json:"leave_type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalDays     float64 `json:"total_days"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	AttachmentURL string  `json:"attachment_url,omitempty"`
	ApproverName  *string `json:"approver_name,omitempty"`
	ApproverNote  *string `json:"approver_note,omitempty"`
	DecisionDate  *string `json:"decision_date,omitempty"`
}
