package models

import "time"

// Stream is a registered HLS stream (.m3u8) shown on the viewer pages.
type Stream struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	URL         string    `gorm:"type:text;not null" json:"url"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Stream) TableName() string {
	return "streams"
}
