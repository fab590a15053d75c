// Package overlay turns detection commands into display cues.
//
// A display shows one overlay image at a time and plays a sound whenever the
// image changes. Tracker holds the command currently shown; repeating it is
// a no-op, so a shape held in front of the camera triggers its sound once.
package overlay

import (
	"sync"
)

// Cue tells a display what to show.
type Cue struct {
	// Command is "rectangle", "triangle" or "circle".
	Command string `json:"command"`

	// Image is the overlay asset to draw over the frame.
	Image string `json:"image"`

	// Sound is the clip to play when the cue takes effect.
	Sound string `json:"sound"`
}

var cues = map[string]Cue{
	"rectangle": {Command: "rectangle", Image: "rectangle", Sound: "bear"},
	"triangle":  {Command: "triangle", Image: "triangle", Sound: "chicken"},
	"circle":    {Command: "circle", Image: "circle", Sound: "chicken"},
}

// CueFor returns the cue for a command. ok is false for unknown commands,
// including the empty one.
func CueFor(command string) (cue Cue, ok bool) {
	cue, ok = cues[command]
	return cue, ok
}

// Tracker remembers the command currently on display. The zero value shows
// nothing and is ready to use. Tracker is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	current string
}

// Change switches the display to command. It returns the cue now in effect
// and whether it differs from the previous one. Unknown or empty commands
// leave the display untouched and report the current cue, if any.
func (t *Tracker) Change(command string) (Cue, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cue, ok := CueFor(command)
	if !ok {
		current, _ := CueFor(t.current)
		return current, false
	}
	if t.current == command {
		return cue, false
	}
	t.current = command
	return cue, true
}

// Current returns the command on display, "" before the first change.
func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Reset clears the display.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.current = ""
	t.mu.Unlock()
}

// Registry holds one Tracker per named stream, created on first use.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{trackers: make(map[string]*Tracker)}
}

// Tracker returns the tracker for stream, creating it if needed.
func (r *Registry) Tracker(stream string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[stream]
	if !ok {
		t = &Tracker{}
		r.trackers[stream] = t
	}
	return t
}
