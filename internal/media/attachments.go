// Package media owns the per-render map of section type to pre-loaded
// imagery. The map is populated before the timeline is built and read-only
// while the frame loop runs; Reset clears it between renders of different
// scripts so two previews can never cross-contaminate.
package media

import (
	"image"
	"sync"

	"github.com/devomil/pinehill-video/internal/script"
)

// Asset is the loaded media for one section type. Still and Clip may both be
// present; the renderer prefers the clip when the enhancement config says so.
type Asset struct {
	Still image.Image
	Clip  *Clip
}

// Attachments is owned by exactly one compositor instance.
type Attachments struct {
	mu     sync.Mutex
	byType map[script.SectionType]*Asset
}

func NewAttachments() *Attachments {
	return &Attachments{byType: make(map[script.SectionType]*Asset)}
}

// Attach registers loaded media for a section type, replacing any previous
// asset for that type.
func (a *Attachments) Attach(t script.SectionType, asset *Asset) {
	if asset == nil || (asset.Still == nil && asset.Clip == nil) {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byType[t] = asset
}

// Get returns the asset for a section type, or nil.
func (a *Attachments) Get(t script.SectionType) *Asset {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.byType[t]
}

// HasMedia reports whether any imagery was registered for the type.
func (a *Attachments) HasMedia(t script.SectionType) bool {
	return a.Get(t) != nil
}

// Reset clears every attachment. Must be called between renders of
// different scripts.
func (a *Attachments) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byType = make(map[script.SectionType]*Asset)
}
