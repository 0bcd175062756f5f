package models

import (
	"time"
)

// Session represents one outing at the range
type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StartedAt time.Time  `gorm:"not null;index" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Note      string     `json:"note"`

	// Clock bookkeeping so a live session survives the process exiting
	ClockState  string     `gorm:"default:idle" json:"clock_state"`
	CarryMillis int64      `json:"carry_ms"`
	ResumedAt   *time.Time `json:"resumed_at"`

	// Relationships
	Runs []*Run `gorm:"foreignKey:SessionID" json:"runs"`
}

// IsOpen reports whether the session has not been ended yet
func (s *Session) IsOpen() bool {
	return s.EndedAt == nil
}

// Run is one continuous block of firing with a single firearm
type Run struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SessionID        string     `gorm:"not null;index" json:"session_id"`
	FirearmID        string     `gorm:"not null;index" json:"firearm_id"`
	StartedAt        time.Time  `gorm:"not null" json:"started_at"`
	EndedAt          *time.Time `json:"ended_at"`
	Rounds           int        `gorm:"default:0" json:"rounds"`
	MalfunctionTotal int        `gorm:"default:0" json:"malfunction_total"`
	Note             string     `json:"note"`
	MagazineID       *string    `json:"magazine_id"`
	AmmoID           *string    `gorm:"index" json:"ammo_id"`
	DefaultAmmoID    *string    `gorm:"index" json:"default_ammo_id"`

	// Relationships
	Firearm      *Firearm            `gorm:"foreignKey:FirearmID" json:"firearm,omitempty"`
	Magazine     *Magazine           `gorm:"foreignKey:MagazineID" json:"magazine,omitempty"`
	Ammo         *AmmoProduct        `gorm:"foreignKey:AmmoID" json:"ammo,omitempty"`
	DefaultAmmo  *AmmoProduct        `gorm:"foreignKey:DefaultAmmoID" json:"default_ammo,omitempty"`
	Malfunctions []*MalfunctionTally `gorm:"foreignKey:RunID" json:"malfunctions"`
	Photos       []*Photo            `gorm:"foreignKey:RunID" json:"photos"`
}

// IsOpen reports whether the run is still collecting rounds
func (r *Run) IsOpen() bool {
	return r.EndedAt == nil
}

// Duration returns the closed length of the run; open runs report zero
func (r *Run) Duration() time.Duration {
	if r.EndedAt == nil {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Tally returns the tally for kind, or nil when none has been recorded
func (r *Run) Tally(kind MalfunctionKind) *MalfunctionTally {
	for _, t := range r.Malfunctions {
		if t.Kind == kind {
			return t
		}
	}
	return nil
}
