package attachment

import (
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FileName    string    `gorm:"type:varchar(255)"`
	ContentType string    `gorm:"type:varchar(100)"`
	Data        []byte    `gorm:"type:bytea;not null"`
	CreatedAt   time.Time
}

func (Attachment) TableName() string {
	return "attachments"
}
