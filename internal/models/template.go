package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// JSONMap is a string-to-string mapping stored as a json column. It backs
// both the template schema (key -> label) and document field values.
type JSONMap map[string]string

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported source type for JSONMap: %T", value)
	}

	return json.Unmarshal(data, m)
}

// Template is an uploaded .docx file together with its extracted field
// schema. Fields maps placeholder keys to human-readable labels; KeyField,
// when set, is one of those keys and identifies generated documents.
type Template struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name             string    `gorm:"type:text;not null" json:"name"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	Fields           JSONMap   `gorm:"type:json" json:"fields"`
	KeyField         *string   `gorm:"type:text" json:"key_field,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Documents []GeneratedDocument `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Template) TableName() string {
	return "document_templates"
}

// SchemaKeys returns the schema keys in lexicographic order, the same order
// the extractor produces.
func (t *Template) SchemaKeys() []string {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
