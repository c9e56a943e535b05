package employee

import (
	"time"
)

// Employee is one row of the staff directory. Rows are provisioned by HR
// tooling; the only field this service ever writes is LineUserID, bound
// once during identity linking.
type Employee struct {
	StaffID    string  `gorm:"column:staff_id;primaryKey;type:varchar(30)"`
	LineUserID *string `gorm:"column:line_user_id;type:varchar(64);uniqueIndex:uq_employ_db_line_user_id"`
	FullName   string  `gorm:"column:full_name;type:varchar(120);not null"`
	SiteID     string  `gorm:"column:site_id;type:varchar(30);index"`
	RoleType   string  `gorm:"column:role_type;type:varchar(20);not null;default:'Employee'"`
	Position   string  `gorm:"column:position;type:varchar(80)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employ_db"
}
