package request

import (
	"context"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// ApprovedCalendar renders an employee's approved leave as an iCal
// feed. Events are all-day; DTEND is exclusive, so it points one day
// past the stored end date.
func (s *service) ApprovedCalendar(ctx context.Context, staffID string) (string, error) {
	requests, err := s.repo.FindApprovedByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("approved calendar failed", zap.String("staff_id", staffID), zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//LMS//Leave Calendar//EN")

	for _, l := range requests {
		event := cal.AddEvent(strings.ToLower(l.RequestID) + "@lms")
		event.SetAllDayStartAt(l.StartDate)
		event.SetAllDayEndAt(l.EndDate.Add(24 * time.Hour))
		event.SetSummary(l.LeaveType)
		if l.Reason != "" {
			event.SetDescription(l.Reason)
		}
		event.SetDtStampTime(time.Now().UTC())
	}

	return cal.Serialize(), nil
}
