package request

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var exportHeaders = []string{
	"Applied Date", "Request ID", "Staff ID", "Name", "Site ID",
	"Leave Type", "Start Date", "End Date", "Total Days", "Reason",
	"Status", "Attachment", "Approver", "Appr. Reason", "Appr. Date",
}

// ExportAll renders the full request ledger as an xlsx workbook for HR.
func (s *service) ExportAll(ctx context.Context) ([]byte, error) {
	requests, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("export requests failed", zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leave_Requests"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, l := range requests {
		resp := mapToResponse(l)
		values := []any{
			resp.AppliedDate, resp.RequestID, resp.StaffID, resp.StaffName, resp.SiteID,
			resp.LeaveType, resp.StartDate, resp.EndDate, resp.TotalDays, resp.Reason,
			resp.Status, resp.AttachmentURL,
			deref(resp.ApproverName), deref(resp.ApproverNote), deref(resp.DecisionDate),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export requests success", zap.Int("rows", len(requests)))
	return buf.Bytes(), nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
