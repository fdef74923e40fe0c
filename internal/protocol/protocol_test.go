package protocol

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTimeRoundTrip(t *testing.T) {
	orig := UnixTime{Time: time.Unix(1700000000, 250*int64(time.Millisecond))}

	b, err := json.Marshal(orig)
	require.NoError(t, err)

	var got UnixTime
	require.NoError(t, json.Unmarshal(b, &got))

	assert.WithinDuration(t, orig.Time, got.Time, time.Millisecond)
}

func TestItemWireFields(t *testing.T) {
	it := Item{
		ID:        "abc",
		Kind:      KindText,
		Data:      "hello",
		CreatedAt: UnixTime{Time: time.Unix(100, 0)},
	}

	b, err := json.Marshal(it)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	// kind rides in "type"; name is omitted when empty
	assert.Equal(t, "text", raw["type"])
	assert.Equal(t, "hello", raw["data"])
	assert.Equal(t, float64(100), raw["created_at"])
	assert.NotContains(t, raw, "name")
}

func TestSyncNeverNilItems(t *testing.T) {
	b, err := Sync(nil).Encode()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"items":[]`)
}

func TestAddCarriesItem(t *testing.T) {
	b, err := Add(Item{ID: "x", Kind: KindText, Data: "d"}).Encode()
	require.NoError(t, err)

	msg, err := DecodeMessage(b)
	require.NoError(t, err)
	assert.Equal(t, TypeAdd, msg.Type)
	require.NotNil(t, msg.Item)
	assert.Equal(t, "x", msg.Item.ID)
}

func TestDecodeMessageToleratesUnknownType(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"type":"goodbye","whatever":1}`))
	require.NoError(t, err)
	assert.Equal(t, "goodbye", msg.Type)
}

func TestSubmissionValid(t *testing.T) {
	tests := []struct {
		name string
		sub  Submission
		want bool
	}{
		{"text", NewTextSubmission("hello"), true},
		{"image", NewImageSubmission("a.png", []byte{1, 2}), true},
		{"future kind", Submission{Kind: "file", Data: "x"}, true},
		{"missing kind", Submission{Data: "x"}, false},
		{"blank kind", Submission{Kind: "   ", Data: "x"}, false},
		{"reserved sync", Submission{Kind: "sync", Data: "x"}, false},
		{"reserved add", Submission{Kind: "add", Data: "x"}, false},
		{"empty payload", Submission{Kind: "text"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.Valid())
		})
	}
}

func TestImageSubmissionIsTextSafe(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	sub := NewImageSubmission("clipboard.png", raw)

	b, err := json.Marshal(sub)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"name":"clipboard.png"`))

	got, err := Item{Kind: KindImage, Data: sub.Data}.DecodeImage()
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}
