// Package agent turns pointer and selection events from a host document into
// a minimal stream of word lookups. An Agent waits for the lookup service to
// acknowledge, then hands the host's events to a Controller.
package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/f3rmion/hoverword/internal/dom"
)

const (
	DefaultDebounce   = 100 * time.Millisecond
	DefaultRetryDelay = 500 * time.Millisecond
)

// EventKind identifies an input channel.
type EventKind int

const (
	PointerMove EventKind = iota + 1
	SelectionChange
)

func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "pointermove"
	case SelectionChange:
		return "selectionchange"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a single host input. Target, X and Y are only set for PointerMove.
type Event struct {
	Kind   EventKind
	Target dom.Element
	X, Y   float64 // Viewport coordinates
}

// Host is the document the agent is attached to.
type Host interface {
	// Subscribe installs the pointer-move and selection-change listeners.
	// The returned func removes them; the channel is closed when the host
	// goes away.
	Subscribe() (<-chan Event, func())

	// SelectionText returns the document's current selection as text.
	SelectionText() string
}

// Dispatcher sends a lookup for a word.
type Dispatcher interface {
	Dispatch(word string)
}

// State is the agent's lifecycle state.
type State int

const (
	StateProbing State = iota // Waiting for the /ack handshake
	StateWaiting              // Service unavailable, retry scheduled
	StateActive               // Listeners installed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateProbing:
		return "probing"
	case StateWaiting:
		return "waiting for service"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Observer is notified about state changes and dispatched words. Callbacks
// run on the agent's goroutine and must not block.
type Observer interface {
	StateChanged(State)
	WordDispatched(word string)
}

// EmptySelectionPolicy decides what a settled empty selection does.
type EmptySelectionPolicy int

const (
	// ClearOnEmpty dispatches an empty lookup so the service can clear its display.
	ClearOnEmpty EmptySelectionPolicy = iota
	// SuppressEmpty only re-enables pointer lookups.
	SuppressEmpty
)

func (p EmptySelectionPolicy) String() string {
	if p == SuppressEmpty {
		return "suppress"
	}
	return "clear"
}

// ParseEmptySelectionPolicy parses "clear" or "suppress".
func ParseEmptySelectionPolicy(s string) (EmptySelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clear":
		return ClearOnEmpty, nil
	case "suppress":
		return SuppressEmpty, nil
	}
	return ClearOnEmpty, fmt.Errorf("unknown empty selection policy %q (want clear or suppress)", s)
}

// RetryPolicy decides when a failed handshake is retried.
type RetryPolicy int

const (
	// RetryInterval probes again after the retry delay.
	RetryInterval RetryPolicy = iota
	// RetryOnInteraction waits for the next selection change, then the retry delay.
	RetryOnInteraction
)

func (p RetryPolicy) String() string {
	if p == RetryOnInteraction {
		return "interaction"
	}
	return "interval"
}

// ParseRetryPolicy parses "interval" or "interaction".
func ParseRetryPolicy(s string) (RetryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "interval":
		return RetryInterval, nil
	case "interaction":
		return RetryOnInteraction, nil
	}
	return RetryInterval, fmt.Errorf("unknown retry policy %q (want interval or interaction)", s)
}
