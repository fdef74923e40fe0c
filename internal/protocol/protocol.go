// Package protocol defines the clipfeed wire contract.
//
// All messages are JSON text frames over a persistent WebSocket. The hub
// pushes two envelope shapes to sessions:
//
//	{"type":"sync","items":[...]}   replace the receiver's entire view
//	{"type":"add","item":{...}}     append one item to the receiver's view
//
// Clients publish submissions whose "type" is the item kind itself
// ("text", "image", or any future tag):
//
//	{"type":"text","data":"hello"}
//	{"type":"image","name":"clipboard.png","data":"<base64 png>"}
//
// Binary payloads are base64-encoded so they stay text-safe inside JSON.
// Unknown message types are ignored by both sides rather than treated as
// fatal.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Envelope types pushed by the hub. Reserved: a submission may not claim
// them as its kind.
const (
	TypeSync = "sync"
	TypeAdd  = "add"
)

// Item kinds with first-class support. Kind is an open tag — anything
// non-reserved is stored and relayed as-is.
const (
	KindText  = "text"
	KindImage = "image"
)

// UnixTime marshals as fractional seconds since the Unix epoch, the format
// browser clients consume for created_at.
type UnixTime struct {
	time.Time
}

func (t UnixTime) MarshalJSON() ([]byte, error) {
	sec := float64(t.UnixNano()) / float64(time.Second)
	return []byte(strconv.FormatFloat(sec, 'f', -1, 64)), nil
}

func (t *UnixTime) UnmarshalJSON(b []byte) error {
	sec, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	s, frac := math.Modf(sec)
	t.Time = time.Unix(int64(s), int64(frac*float64(time.Second)))
	return nil
}

// Item is one stored clipboard entry. ID and CreatedAt are assigned by the
// hub on receipt; values supplied by a publisher are ignored.
type Item struct {
	ID        string   `json:"id"`
	Kind      string   `json:"type"`
	Data      string   `json:"data"`
	Name      string   `json:"name,omitempty"`
	CreatedAt UnixTime `json:"created_at"`
}

// DecodeImage returns the raw image bytes of an image item.
func (it Item) DecodeImage() ([]byte, error) {
	return base64.StdEncoding.DecodeString(it.Data)
}

// Message is the hub→session envelope.
type Message struct {
	Type  string `json:"type"`
	Items []Item `json:"items,omitempty"` // sync
	Item  *Item  `json:"item,omitempty"`  // add
}

// Sync builds a full-sync message. items may be empty but never nil on the
// wire so receivers always get an array.
func Sync(items []Item) *Message {
	if items == nil {
		items = []Item{}
	}
	return &Message{Type: TypeSync, Items: items}
}

// Add builds a single-item append message.
func Add(item Item) *Message {
	return &Message{Type: TypeAdd, Item: &item}
}

// Encode serialises the message to JSON.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage deserialises a hub→session envelope.
func DecodeMessage(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	return &m, nil
}

// Submission is the client→hub shape. Kind rides in the "type" field.
type Submission struct {
	Kind string `json:"type"`
	Data string `json:"data"`
	Name string `json:"name,omitempty"`
}

// NewTextSubmission wraps plain text.
func NewTextSubmission(text string) Submission {
	return Submission{Kind: KindText, Data: text}
}

// NewImageSubmission wraps raw image bytes, base64-encoded, with a label.
func NewImageSubmission(name string, data []byte) Submission {
	return Submission{
		Kind: KindImage,
		Name: name,
		Data: base64.StdEncoding.EncodeToString(data),
	}
}

// DecodeSubmission deserialises a client→hub submission.
func DecodeSubmission(b []byte) (*Submission, error) {
	var s Submission
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("submission decode: %w", err)
	}
	return &s, nil
}

// Valid reports whether the submission may enter the feed: a non-empty,
// non-reserved kind and a non-empty payload. Invalid submissions are
// dropped silently by the hub.
func (s Submission) Valid() bool {
	switch strings.TrimSpace(s.Kind) {
	case "", TypeSync, TypeAdd:
		return false
	}
	return s.Data != ""
}
