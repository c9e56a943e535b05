package balance

import "time"

// LeaveBalance is the per-employee ledger row: one named (used,
// remaining) pair per leave type plus the weekly switch counter.
// used and remaining are stored independently, not derived; every
// mutation path must move them in lockstep.
type LeaveBalance struct {
	StaffID  string `gorm:"column:staff_id;primaryKey;type:varchar(30)"`
	FullName string `gorm:"column:full_name;type:varchar(120)"`
	SiteID   string `gorm:"column:site_id;type:varchar(30)"`

	AnnualUsed             float64 `gorm:"column:annual_used;not null;default:0"`
	AnnualRemaining        float64 `gorm:"column:annual_remaining;not null;default:0"`
	SickUsed               float64 `gorm:"column:sick_used;not null;default:0"`
	SickRemaining          float64 `gorm:"column:sick_remaining;not null;default:0"`
	PersonalUsed           float64 `gorm:"column:personal_used;not null;default:0"`
	PersonalRemaining      float64 `gorm:"column:personal_remaining;not null;default:0"`
	MaternityUsed          float64 `gorm:"column:maternity_used;not null;default:0"`
	MaternityRemaining     float64 `gorm:"column:maternity_remaining;not null;default:0"`
	PublicHolidayUsed      float64 `gorm:"column:public_holiday_used;not null;default:0"`
	PublicHolidayRemaining float64 `gorm:"column:public_holiday_remaining;not null;default:0"`
	UnpaidUsed             float64 `gorm:"column:unpaid_used;not null;default:0"`
	UnpaidRemaining        float64 `gorm:"column:unpaid_remaining;not null;default:0"`
	SwitchCount            float64 `gorm:"column:switch_count;not null;default:0"`
	OtherUsed              float64 `gorm:"column:other_used;not null;default:0"`
	OtherRemaining         float64 `gorm:"column:other_remaining;not null;default:0"`

	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// pairFor reads the stored pair for a type. The weekly switch reports
// its counter as used and a fixed remaining of 0: it has no pool of its
// own, approvals credit other_remaining instead.
func (b LeaveBalance) pairFor(t LeaveType) (used, remaining float64) {
	switch t {
	case TypeAnnual:
		return b.AnnualUsed, b.AnnualRemaining
	case TypeSick:
		return b.SickUsed, b.SickRemaining
	case TypePersonal:
		return b.PersonalUsed, b.PersonalRemaining
	case TypeMaternity:
		return b.MaternityUsed, b.MaternityRemaining
	case TypePublicHoliday:
		return b.PublicHolidayUsed, b.PublicHolidayRemaining
	case TypeUnpaid:
		return b.UnpaidUsed, b.UnpaidRemaining
	case TypeWeeklySwitch:
		return b.SwitchCount, 0
	case TypeOther:
		return b.OtherUsed, b.OtherRemaining
	default:
		return 0, 0
	}
}
