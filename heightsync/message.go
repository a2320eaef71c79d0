// Package heightsync carries an embed's rendered height from the iframe
// document to the page hosting it.
//
// The child script posts a Message to its parent on a fixed schedule and on
// every resize, and stops at pagehide. The parent script checks the type
// tag and the embed identifier before touching anything; every other field
// is untrusted. Message, ParseMessage and AppliedHeight state the rules
// both scripts follow.
package heightsync

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// MessageType tags every size-update message.
const MessageType = "qveg:height"

// MinHeight is the smallest height ever applied to an iframe.
const MinHeight = 1

// DefaultSchedule lists when the child measures after mount: at once, after
// first-pass content settles and after late web-font swaps.
var DefaultSchedule = []time.Duration{0, 300 * time.Millisecond, 1000 * time.Millisecond}

// Message is the envelope posted from child to parent.
type Message struct {
	Type   string  `json:"type"`
	ID     string  `json:"id"`
	Height float64 `json:"height"`
}

// Matches reports whether the message is a size update for embed id.
func (m Message) Matches(id string) bool {
	return m.Type == MessageType && id != "" && m.ID == id
}

// AppliedHeight is the whole-pixel height a parent applies for the message.
// ok is false for heights that are not finite numbers.
func (m Message) AppliedHeight() (px int, ok bool) {
	if math.IsNaN(m.Height) || math.IsInf(m.Height, 0) {
		return 0, false
	}
	return max(MinHeight, int(math.Round(m.Height))), true
}

type wireMessage struct {
	Type   string   `json:"type"`
	ID     string   `json:"id"`
	Height *float64 `json:"height"`
}

// ParseMessage decodes an untrusted message payload. Only a JSON object
// whose height is a number is ok; null, arrays, scalars and objects with a
// missing or non-numeric height are not.
func ParseMessage(data []byte) (Message, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Message{}, false
	}
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil || w.Height == nil {
		return Message{}, false
	}
	return Message{Type: w.Type, ID: w.ID, Height: *w.Height}, true
}
