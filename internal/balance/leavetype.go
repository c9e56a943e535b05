package balance

// LeaveType is the category of absence. Values are the wire names the
// client submits and the request ledger stores.
type LeaveType string

const (
	TypeAnnual        LeaveType = "Annual Leave"
	TypeSick          LeaveType = "Sick Leave"
	TypePersonal      LeaveType = "Personal Leave"
	TypeMaternity     LeaveType = "Maternity Leave"
	TypePublicHoliday LeaveType = "Public Holiday"
	TypeUnpaid        LeaveType = "Leave Without Pay"
	TypeWeeklySwitch  LeaveType = "Weekly Holiday Switch"
	TypeOther         LeaveType = "Other Leave"
)

type columnPair struct {
	used      string
	remaining string
}

// debitColumns binds each debitable type to its named (used, remaining)
// column pair on leave_balances. TypeWeeklySwitch is deliberately
// absent: it has no balance pair of its own, approval bumps
// switch_count and credits other_remaining instead.
var debitColumns = map[LeaveType]columnPair{
	TypeAnnual:        {used: "annual_used", remaining: "annual_remaining"},
	TypeSick:          {used: "sick_used", remaining: "sick_remaining"},
	TypePersonal:      {used: "personal_used", remaining: "personal_remaining"},
	TypeMaternity:     {used: "maternity_used", remaining: "maternity_remaining"},
	TypePublicHoliday: {used: "public_holiday_used", remaining: "public_holiday_remaining"},
	TypeUnpaid:        {used: "unpaid_used", remaining: "unpaid_remaining"},
	TypeOther:         {used: "other_used", remaining: "other_remaining"},
}

// allTypes is the fixed presentation order of the balance report.
var allTypes = []LeaveType{
	TypeAnnual,
	TypeSick,
	TypePersonal,
	TypeMaternity,
	TypePublicHoliday,
	TypeUnpaid,
	TypeWeeklySwitch,
	TypeOther,
}

func AllTypes() []LeaveType {
	out := make([]LeaveType, len(allTypes))
	copy(out, allTypes)
	return out
}

// DebitColumns returns the column pair for a debitable type. ok is
// false for TypeWeeklySwitch and for unknown strings.
func DebitColumns(t LeaveType) (used, remaining string, ok bool) {
	pair, ok := debitColumns[t]
	if !ok {
		return "", "", false
	}
	return pair.used, pair.remaining, true
}

func ValidType(t LeaveType) bool {
	if t == TypeWeeklySwitch {
		return true
	}
	_, ok := debitColumns[t]
	return ok
}

// TypeNames lists the accepted wire names, for binding validation.
func TypeNames() []string {
	names := make([]string, len(allTypes))
	for i, t := range allTypes {
		names[i] = string(t)
	}
	return names
}
