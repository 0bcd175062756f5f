package models

import "time"

// PhotoTag classifies what a photo shows
type PhotoTag string

const (
	PhotoTarget      PhotoTag = "target"
	PhotoMalfunction PhotoTag = "malfunction"
)

// Photo is owned by a run and points at stored image content
type Photo struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	RunID  string   `gorm:"not null;index" json:"run_id"`
	Handle string   `gorm:"not null" json:"handle"`
	Tag    PhotoTag `gorm:"default:target" json:"tag"`
}
