package artifact

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record is the audit row written after a document render.
type Record struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Kind          string         `gorm:"size:64;not null;index" json:"kind"`
	BaseName      string         `gorm:"size:255;not null" json:"base_name"`
	PrimaryName   string         `gorm:"size:255;not null;uniqueIndex" json:"primary_name"`
	PrimaryURL    string         `gorm:"type:text;not null" json:"primary_url"`
	SecondaryName *string        `gorm:"size:255" json:"secondary_name,omitempty"`
	SecondaryURL  *string        `gorm:"type:text" json:"secondary_url,omitempty"`
	Context       datatypes.JSON `json:"context,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (Record) TableName() string { return "artifact_records" }

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(r.ID) == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
