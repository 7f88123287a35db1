package models

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedDocument records the field values used to fill a template. The
// binary output is not persisted; it is regenerated on demand against the
// current template file, so template edits apply retroactively.
type GeneratedDocument struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TemplateID    uuid.UUID `gorm:"type:uuid;not null;index" json:"template_id"`
	CreatedBy     *string   `gorm:"type:text" json:"created_by,omitempty"`
	FieldValues   JSONMap   `gorm:"type:json" json:"field_values"`
	KeyFieldValue string    `gorm:"type:text" json:"key_field_value"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Template Template `gorm:"foreignKey:TemplateID" json:"-"`
}

func (GeneratedDocument) TableName() string {
	return "generated_documents"
}

// DisplayName is the human-readable identifier shown for the document:
// the cached key field value when present, otherwise the creation time.
func (d *GeneratedDocument) DisplayName() string {
	if d.KeyFieldValue != "" {
		return d.KeyFieldValue
	}
	return d.CreatedAt.Format(time.RFC3339)
}
