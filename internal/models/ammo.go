package models

import (
	"fmt"
	"time"
)

// BulletType is the projectile construction of an ammo product
type BulletType string

const (
	BulletFMJ   BulletType = "fmj"
	BulletJHP   BulletType = "jhp"
	BulletSP    BulletType = "sp"
	BulletHP    BulletType = "hp"
	BulletMatch BulletType = "match"
	BulletOther BulletType = "other"
)

// BulletTypes lists every bullet type in display order
func BulletTypes() []BulletType {
	return []BulletType{BulletFMJ, BulletJHP, BulletSP, BulletHP, BulletMatch, BulletOther}
}

// AmmoProduct is a kind of cartridge; runs reference it but never own it
type AmmoProduct struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Brand       string     `gorm:"not null" json:"brand"`
	Caliber     string     `json:"caliber"`
	GrainWeight int        `json:"grain_weight"`
	BulletType  BulletType `gorm:"default:other" json:"bullet_type"`
	BoxQuantity *int       `json:"box_quantity"`
}

// DisplayName is the short label used in lists
func (a *AmmoProduct) DisplayName() string {
	name := a.Brand
	if a.Caliber != "" {
		name += " " + a.Caliber
	}
	if a.GrainWeight > 0 {
		name += fmt.Sprintf(" %dgr", a.GrainWeight)
	}
	return fmt.Sprintf("%s %s", name, a.BulletType)
}
