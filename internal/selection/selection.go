// Package selection holds the clipboard and primary selection offered by X11 clients.
package selection

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
)

var ErrNoSelection = errors.New("no selection")

type Type int

const (
	Clipboard Type = iota
	Primary
)

func (t Type) String() string {
	switch t {
	case Clipboard:
		return "clipboard"
	case Primary:
		return "primary"
	default:
		return "unknown"
	}
}

// Offer is the current owner's advertised content.
type Offer struct {
	Owner     string   `json:"owner"`
	MimeTypes []string `json:"mime_types"`
}

type Device interface {
	SetSelection(owner string, mimeTypes []string)
	ClearSelection()
	Current() (Offer, bool)
	// SendSelection writes the current content for mimeType to w.
	SendSelection(mimeType string, w io.Writer) error
}

// Memory is a Device whose content is stored in process.
type Memory struct {
	typ Type

	mu    sync.Mutex
	offer *Offer
	data  map[string][]byte
}

func NewMemory(typ Type) *Memory {
	return &Memory{typ: typ}
}

func (m *Memory) SetSelection(owner string, mimeTypes []string) {
	m.mu.Lock()
	m.offer = &Offer{Owner: owner, MimeTypes: slices.Clone(mimeTypes)}
	m.data = nil
	m.mu.Unlock()

	slog.Debug("New selection", "package", "selection", "type", m.typ, "owner", owner, "mime_types", mimeTypes)
}

func (m *Memory) ClearSelection() {
	m.mu.Lock()
	m.offer = nil
	m.data = nil
	m.mu.Unlock()

	slog.Debug("Cleared selection", "package", "selection", "type", m.typ)
}

func (m *Memory) Current() (Offer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offer == nil {
		return Offer{}, false
	}
	return Offer{Owner: m.offer.Owner, MimeTypes: slices.Clone(m.offer.MimeTypes)}, true
}

// Store attaches content for mimeType to the current offer, adding the type when it was not advertised.
func (m *Memory) Store(mimeType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offer == nil {
		return fmt.Errorf("%w: %s", ErrNoSelection, m.typ)
	}
	if !slices.Contains(m.offer.MimeTypes, mimeType) {
		m.offer.MimeTypes = append(m.offer.MimeTypes, mimeType)
	}
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[mimeType] = slices.Clone(data)
	return nil
}

func (m *Memory) SendSelection(mimeType string, w io.Writer) error {
	m.mu.Lock()
	data, ok := m.data[mimeType]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNoSelection, m.typ, mimeType)
	}
	_, err := w.Write(data)
	return err
}
