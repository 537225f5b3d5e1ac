// Package wm owns the window, output and tag state and every transition on it.
// All methods must be called from the loop goroutine.
package wm

import (
	"errors"

	"github.com/ItsNotGoodName/x-tagwm/internal/barrier"
	"github.com/ItsNotGoodName/x-tagwm/internal/bus"
	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/grab"
	"github.com/ItsNotGoodName/x-tagwm/internal/layout"
	"github.com/ItsNotGoodName/x-tagwm/internal/output"
	"github.com/ItsNotGoodName/x-tagwm/internal/space"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
)

var (
	ErrWindowNotFound = errors.New("window not found")
	ErrTagNotFound    = errors.New("tag not found")
	ErrOutputNotFound = errors.New("output not found")
)

type Idler interface {
	InsertIdle(fn func())
}

type Keyboard interface {
	SetFocus(w *window.Window, serial uint32) error
}

type Seat interface {
	// Keyboard is false when the seat has no keyboard.
	Keyboard() (Keyboard, bool)
	PointerLocation() geom.Point
}

// TagTemplate describes a tag created on every output that connects.
type TagTemplate struct {
	Name   string
	Layout string
	Active bool
}

type Event struct {
	Kind   string    `json:"kind"`
	Action string    `json:"action"`
	Window window.ID `json:"window,omitempty"`
	Tag    tag.ID    `json:"tag,omitempty"`
	Output string    `json:"output,omitempty"`
}

type State struct {
	Space    *space.Space
	Tags     *tag.Registry
	Layouts  *layout.Registry
	Barriers *barrier.Tracker

	idle        Idler
	seat        Seat
	defaultTags []TagTemplate

	outputs       []*output.Output
	focusedOutput *output.Output
	windows       []*window.Window
	focused       *window.Window
	nextID        window.ID
	serial        uint32

	grab           *grab.Grab
	grabWindow     *window.Window
	pointerGrabber PointerGrabber
}

func New(idle Idler, seat Seat, layouts *layout.Registry, defaultTags []TagTemplate) *State {
	return &State{
		Space:       space.New(),
		Tags:        tag.NewRegistry(),
		Layouts:     layouts,
		Barriers:    barrier.NewTracker(idle),
		idle:        idle,
		seat:        seat,
		defaultTags: defaultTags,
		nextID:      1,
	}
}

func (s *State) nextSerial() uint32 {
	s.serial++
	return s.serial
}

func publishWindow(action string, w *window.Window) {
	bus.Publish(Event{Kind: "window", Action: action, Window: w.ID})
}

func publishTag(action string, t *tag.Tag) {
	bus.Publish(Event{Kind: "tag", Action: action, Tag: t.ID, Output: t.Output})
}

func publishOutput(action string, o *output.Output) {
	bus.Publish(Event{Kind: "output", Action: action, Output: o.Name})
}
