package models

import (
	"fmt"
	"time"
)

// FirearmClass is the broad category a firearm belongs to
type FirearmClass string

const (
	ClassHandgun FirearmClass = "handgun"
	ClassRifle   FirearmClass = "rifle"
	ClassShotgun FirearmClass = "shotgun"
	ClassOther   FirearmClass = "other"
)

// FirearmClasses lists every class in display order
func FirearmClasses() []FirearmClass {
	return []FirearmClass{ClassHandgun, ClassRifle, ClassShotgun, ClassOther}
}

// Firearm represents a gun owned by the user
type Firearm struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Brand      string       `gorm:"not null" json:"brand"`
	Model      string       `gorm:"not null" json:"model"`
	Caliber    string       `json:"caliber"`
	Class      FirearmClass `gorm:"default:other" json:"class"`
	RoundCount int          `gorm:"default:0" json:"round_count"` // lifetime odometer

	// Relationships
	Magazines []*Magazine `gorm:"foreignKey:FirearmID" json:"magazines"`
}

// DisplayName is the short label used in lists and rankings
func (f *Firearm) DisplayName() string {
	name := fmt.Sprintf("%s %s", f.Brand, f.Model)
	if f.Caliber != "" {
		name += " (" + f.Caliber + ")"
	}
	return name
}

// SmallestMagazine returns the lowest-capacity magazine, or nil when there are none
func (f *Firearm) SmallestMagazine() *Magazine {
	var best *Magazine
	for _, m := range f.Magazines {
		if best == nil || m.Capacity < best.Capacity {
			best = m
		}
	}
	return best
}

// Magazine belongs to exactly one firearm and is used as a round-count shortcut
type Magazine struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FirearmID string `gorm:"not null;index" json:"firearm_id"`
	Capacity  int    `gorm:"not null" json:"capacity"`
	Label     string `json:"label"`
}

// DisplayName returns the label or a capacity-based fallback
func (m *Magazine) DisplayName() string {
	if m.Label != "" {
		return fmt.Sprintf("%s (%d rd)", m.Label, m.Capacity)
	}
	return fmt.Sprintf("%d rd", m.Capacity)
}
