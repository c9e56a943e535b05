package gateway

import (
	"net/http"

	"github.com/Taanawutana-gai/LMS/internal/balance"
	"github.com/Taanawutana-gai/LMS/internal/employee"
	"github.com/Taanawutana-gai/LMS/internal/request"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler is the compatibility surface for clients still speaking the
// original action-parameter protocol. Reads are GET with an action
// query, writes are POST with an action field in the JSON body, and
// every outcome is answered 200 with a {success, ...} shape; errors are
// flattened into {success:false, message} at this boundary.
type Handler struct {
	employees employee.Service
	balances  balance.Service
	requests  request.Service
	logger    *zap.Logger
}

func NewHandler(
	employees employee.Service,
	balances balance.Service,
	requests request.Service,
	logger ...*zap.Logger,
) *Handler {
	l := zap.L().Named("gateway.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("gateway.handler")
	}
	return &Handler{
		employees: employees,
		balances:  balances,
		requests:  requests,
		logger:    l,
	}
}

type writeBody struct {
	Action string `json:"action"`

	// addRequest
	AppliedDate    string  `json:"appliedDate"`
	StaffID        string  `json:"staffId"`
	StaffName      string  `json:"staffName"`
	SiteID         string  `json:"siteId"`
	Type           string  `json:"type"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	TotalDays      float64 `json:"totalDays"`
	Reason         string  `json:"reason"`
	AttachmentData string  `json:"attachmentData"`

	// updateStatus
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
	Approver  string `json:"approver"`

	// linkLineId
	LineUserID string `json:"lineUserId"`
}

func (h *Handler) failure(c *gin.Context, message string) {
	h.logger.Warn("legacy action failed",
		zap.String("method", c.Request.Method),
		zap.String("message", message),
	)
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

func (h *Handler) Get(c *gin.Context) {
	action := c.Query("action")

	switch action {
	case "testConnection":
		h.testConnection(c)
	case "checkUserStatus":
		h.checkUserStatus(c)
	case "getProfile":
		h.getProfile(c)
	case "getBalances":
		h.getBalances(c)
	case "getRequests":
		h.getRequests(c, false)
	case "getAllRequests":
		h.getRequests(c, true)
	default:
		h.failure(c, "Invalid action")
	}
}

func (h *Handler) Post(c *gin.Context) {
	var body writeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.failure(c, "Invalid JSON")
		return
	}

	switch body.Action {
	case "addRequest":
		h.addRequest(c, body)
	case "updateStatus":
		h.updateStatus(c, body)
	case "linkLineId":
		h.linkLineID(c, body)
	default:
		h.failure(c, "Invalid action")
	}
}

func (h *Handler) testConnection(c *gin.Context) {
	snapshot, err := h.employees.DirectorySnapshot(c.Request.Context())
	if err != nil {
		h.failure(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"sheetName":  snapshot.TableName,
		"rowCount":   snapshot.RowCount,
		"headers":    snapshot.Headers,
		"sampleData": snapshot.Sample,
	})
}

func (h *Handler) checkUserStatus(c *gin.Context) {
	profile, err := h.employees.CheckUserStatus(c.Request.Context(), c.Query("lineUserId"))
	if err != nil {
		h.failure(c, "LINE ID not linked")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": legacyProfile(profile)})
}

func (h *Handler) getProfile(c *gin.Context) {
	profile, err := h.employees.GetProfile(c.Request.Context(), c.Query("staffId"))
	if err != nil {
		h.failure(c, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": legacyProfile(profile)})
}

func (h *Handler) getBalances(c *gin.Context) {
	resp, err := h.balances.GetBalances(c.Request.Context(), c.Query("staffId"))
	if err != nil {
		h.failure(c, "Balance not found")
		return
	}

	entries := make([]gin.H, len(resp.Balances))
	for i, b := range resp.Balances {
		entries[i] = gin.H{"type": b.Type, "used": b.Used, "remain": b.Remaining}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"staffId":     resp.StaffID,
			"name":        resp.Name,
			"siteId":      resp.SiteID,
			"balances":    entries,
			"switchCount": resp.SwitchCount,
		},
	})
}

func (h *Handler) getRequests(c *gin.Context, all bool) {
	var (
		rows []request.LeaveRequestResponse
		err  error
	)
	if all {
		rows, err = h.requests.ListAll(c.Request.Context())
	} else {
		rows, err = h.requests.ListByStaff(c.Request.Context(), c.Query("staffId"))
	}
	if err != nil {
		h.failure(c, err.Error())
		return
	}

	out := make([]gin.H, len(rows))
	for i, r := range rows {
		out[i] = legacyRequest(r)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "requests": out})
}

func (h *Handler) addRequest(c *gin.Context, body writeBody) {
	resp, err := h.requests.Submit(c.Request.Context(), request.SubmitLeaveRequest{
		StaffID:        body.StaffID,
		StaffName:      body.StaffName,
		SiteID:         body.SiteID,
		LeaveType:      body.Type,
		AppliedDate:    body.AppliedDate,
		StartDate:      body.StartDate,
		EndDate:        body.EndDate,
		TotalDays:      body.TotalDays,
		Reason:         body.Reason,
		AttachmentData: body.AttachmentData,
	})
	if err != nil {
		h.failure(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": resp.RequestID})
}

func (h *Handler) updateStatus(c *gin.Context, body writeBody) {
	_, err := h.requests.UpdateStatus(c.Request.Context(), body.RequestID, request.UpdateStatusRequest{
		Status:         body.Status,
		ApproverName:   body.Approver,
		ApproverReason: body.Reason,
	})
	if err != nil {
		h.failure(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) linkLineID(c *gin.Context, body writeBody) {
	profile, err := h.employees.LinkLineID(c.Request.Context(), body.StaffID, body.LineUserID)
	if err != nil {
		h.failure(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": legacyProfile(profile)})
}

func legacyProfile(p employee.ProfileResponse) gin.H {
	return gin.H{
		"lineUserId": p.LineUserID,
		"staffId":    p.StaffID,
		"name":       p.Name,
		"siteId":     p.SiteID,
		"roleType":   p.RoleType,
		"position":   p.Position,
	}
}

func legacyRequest(r request.LeaveRequestResponse) gin.H {
	approver := ""
	if r.ApproverName != nil {
		approver = *r.ApproverName
	}
	approverReason := ""
	if r.ApproverNote != nil {
		approverReason = *r.ApproverNote
	}
	approvalDate := ""
	if r.DecisionDate != nil {
		approvalDate = *r.DecisionDate
	}

	return gin.H{
		"appliedDate":    r.AppliedDate,
		"id":             r.RequestID,
		"staffId":        r.StaffID,
		"staffName":      r.StaffName,
		"siteId":         r.SiteID,
		"type":           r.LeaveType,
		"startDate":      r.StartDate,
		"endDate":        r.EndDate,
		"totalDays":      r.TotalDays,
		"reason":         r.Reason,
		"status":         r.Status,
		"attachmentUrl":  r.AttachmentURL,
		"approver":       approver,
		"approverReason": approverReason,
		"approvalDate":   approvalDate,
	}
}
