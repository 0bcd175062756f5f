// Package entitlement answers whether a gated capability is currently allowed.
// It knows nothing about purchases; it is fed an is-pro flag and named feature flags.
package entitlement

import "strings"

// Feature names a gated capability
type Feature string

const (
	// FeaturePhotos allows attaching photos to runs
	FeaturePhotos Feature = "photos"
	// FeatureExtendedHistory allows analytics ranges longer than 30 days
	FeatureExtendedHistory Feature = "extended_history"
)

// proFeatures are unlocked by the is-pro flag alone
var proFeatures = map[Feature]bool{
	FeaturePhotos:          true,
	FeatureExtendedHistory: true,
}

// Checker is consulted at the call sites that require gating
type Checker interface {
	Allowed(f Feature) bool
}

// Static is a fixed set of entitlements resolved at startup
type Static struct {
	Pro   bool
	Flags map[Feature]bool
}

// NewStatic builds a checker from the is-pro flag and a list of feature names
func NewStatic(pro bool, flags []string) *Static {
	s := &Static{Pro: pro, Flags: make(map[Feature]bool)}
	for _, name := range flags {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		s.Flags[Feature(name)] = true
	}
	return s
}

// Allowed reports whether f is enabled
func (s *Static) Allowed(f Feature) bool {
	if s == nil {
		return false
	}
	if s.Flags[f] {
		return true
	}
	return s.Pro && proFeatures[f]
}
