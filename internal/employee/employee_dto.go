package employee

type LinkLineIDRequest struct {
	StaffID    string `json:"staff_id" binding:"required"`
	LineUserID string `json:"line_user_id" binding:"required"`
}

type ProfileResponse struct {
	LineUserID string `json:"line_user_id,omitempty"`
	StaffID    string `json:"staff_id"`
	Name       string `json:"name"`
	SiteID     string `json:"site_id"`
	RoleType   string `json:"role_type"`
	Position   string `json:"position"`
}

type DirectorySnapshotResponse struct {
	TableName string            `json:"table_name"`
	RowCount  int64             `json:"row_count"`
	Headers   []string          `json:"headers"`
	Sample    []ProfileResponse `json:"sample"`
}
