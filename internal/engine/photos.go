package engine

import (
	"context"
	"fmt"

	"github.com/balkashynov/rangelog/internal/blob"
	"github.com/balkashynov/rangelog/internal/entitlement"
	"github.com/balkashynov/rangelog/internal/models"
)

// AttachPhoto stores image bytes and records a photo on the run. It is gated
// by the photos entitlement; a refusal returns ErrFeatureLocked and changes
// nothing. Unknown runs return (nil, nil).
func (e *Engine) AttachPhoto(ctx context.Context, runID string, tag models.PhotoTag, data []byte) (*models.Photo, error) {
	r := e.runs[runID]
	if r == nil {
		return nil, nil
	}
	if !e.gate.Allowed(entitlement.FeaturePhotos) {
		return nil, ErrFeatureLocked
	}
	if e.photos == nil {
		return nil, ErrNoPhotoStore
	}
	if tag == "" {
		tag = models.PhotoTarget
	}

	id := e.newID()
	handle, err := e.photos.Put(ctx, fmt.Sprintf("photos/%s/%s.jpg", r.ID, id), data)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}
	p := &models.Photo{
		ID:        id,
		CreatedAt: e.now(),
		RunID:     r.ID,
		Handle:    string(handle),
		Tag:       tag,
	}
	r.Photos = append(r.Photos, p)
	e.queue.Enqueue(upsert(p))
	return p, nil
}

// LoadPhoto returns the content behind a photo. Unknown photos return (nil, nil).
func (e *Engine) LoadPhoto(ctx context.Context, photoID string) ([]byte, error) {
	p := e.findPhoto(photoID)
	if p == nil {
		return nil, nil
	}
	if e.photos == nil {
		return nil, ErrNoPhotoStore
	}
	return e.photos.Load(ctx, blob.Handle(p.Handle))
}

// DeletePhoto removes a single photo from its run
func (e *Engine) DeletePhoto(photoID string) {
	p := e.findPhoto(photoID)
	if p == nil {
		return
	}
	r := e.runs[p.RunID]
	for i, candidate := range r.Photos {
		if candidate == p {
			r.Photos = append(r.Photos[:i], r.Photos[i+1:]...)
			break
		}
	}
	e.queue.Enqueue(remove(p))
}

func (e *Engine) findPhoto(id string) *models.Photo {
	for _, r := range e.runs {
		for _, p := range r.Photos {
			if p.ID == id {
				return p
			}
		}
	}
	return nil
}
