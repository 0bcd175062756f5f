package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/balkashynov/rangelog/internal/models"
)

var (
	// ErrNotFound means a reference matched nothing
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous means a reference matched more than one entity
	ErrAmbiguous = errors.New("ambiguous reference")
)

// ShortIDLen is how many trailing id characters listings print. cuids share
// their leading timestamp, so the tail is what tells them apart.
const ShortIDLen = 7

// ShortID returns the printable tail of id
func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[len(id)-ShortIDLen:]
}

// shorter refs are too likely to hit an id tail by accident
const minSuffixLen = 4

// match resolves ref against items: an exact id wins, then a unique id
// suffix, then a unique case-insensitive substring of the display name
func match[T any](kind, ref string, items []T, id func(T) string, name func(T) string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%s: empty reference: %w", kind, ErrNotFound)
	}

	var bySuffix []T
	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
		if len(ref) >= minSuffixLen && strings.HasSuffix(id(it), ref) {
			bySuffix = append(bySuffix, it)
		}
	}
	switch len(bySuffix) {
	case 1:
		return bySuffix[0], nil
	case 0:
	default:
		return zero, fmt.Errorf("%s %q: %w", kind, ref, ErrAmbiguous)
	}

	if name == nil {
		return zero, fmt.Errorf("%s %q: %w", kind, ref, ErrNotFound)
	}
	lower := strings.ToLower(ref)
	var byName []T
	for _, it := range items {
		if strings.Contains(strings.ToLower(name(it)), lower) {
			byName = append(byName, it)
		}
	}
	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
		return zero, fmt.Errorf("%s %q: %w", kind, ref, ErrNotFound)
	}
	return zero, fmt.Errorf("%s %q: %w", kind, ref, ErrAmbiguous)
}

// FindFirearm resolves a firearm by id, id suffix or name fragment
func (e *Engine) FindFirearm(ref string) (*models.Firearm, error) {
	return match("firearm", ref, e.Firearms(),
		func(f *models.Firearm) string { return f.ID },
		func(f *models.Firearm) string { return f.DisplayName() })
}

// FindAmmo resolves an ammo product by id, id suffix or name fragment
func (e *Engine) FindAmmo(ref string) (*models.AmmoProduct, error) {
	return match("ammo", ref, e.AmmoProducts(),
		func(a *models.AmmoProduct) string { return a.ID },
		func(a *models.AmmoProduct) string { return a.DisplayName() })
}

// FindSession resolves a session by id or id suffix
func (e *Engine) FindSession(ref string) (*models.Session, error) {
	return match("session", ref, e.Sessions(),
		func(s *models.Session) string { return s.ID }, nil)
}

// FindRun resolves a run by id or id suffix
func (e *Engine) FindRun(ref string) (*models.Run, error) {
	var runs []*models.Run
	for _, s := range e.Sessions() {
		runs = append(runs, s.Runs...)
	}
	return match("run", ref, runs,
		func(r *models.Run) string { return r.ID }, nil)
}

// FindPhoto resolves a photo by id or id suffix
func (e *Engine) FindPhoto(ref string) (*models.Photo, error) {
	var photos []*models.Photo
	for _, s := range e.Sessions() {
		for _, r := range s.Runs {
			photos = append(photos, r.Photos...)
		}
	}
	return match("photo", ref, photos,
		func(p *models.Photo) string { return p.ID }, nil)
}

// FindMagazine resolves one of f's magazines by capacity when ref is a
// number ("15"), otherwise by id suffix or label
func FindMagazine(f *models.Firearm, ref string) (*models.Magazine, error) {
	if f == nil {
		return nil, fmt.Errorf("magazine %q: %w", ref, ErrNotFound)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		for _, m := range f.Magazines {
			if m.Capacity == n {
				return m, nil
			}
		}
		return nil, fmt.Errorf("magazine %q: %w", ref, ErrNotFound)
	}
	return match("magazine", ref, f.Magazines,
		func(m *models.Magazine) string { return m.ID },
		func(m *models.Magazine) string { return m.Label })
}
