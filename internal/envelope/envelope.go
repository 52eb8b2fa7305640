// Package envelope normalizes the three input modalities into one tagged
// request envelope, checked once at the boundary.
package envelope

import (
	"errors"
	"strings"

	"socialforge/internal/types"
)

// ErrNoInput is returned when a raw input carries neither text nor binary data.
var ErrNoInput = errors.New("envelope: no input provided")

// The recorder always emits a webm container, whatever the actual codec.
const audioMIMEType = "audio/webm"

const defaultImageMIMEType = "image/jpeg"

// Raw is the untyped boundary input: at most one of Text or Data is expected
// to be meaningful. MIMEType qualifies Data when present. Photo marks binary
// data that the capture layer already knows to be an image, even when it
// arrives without a declared MIME type.
type Raw struct {
	Text     string
	Data     []byte
	MIMEType string
	Photo    bool
}

// Envelope is the normalized input: exactly one variant is populated,
// identified by Modality.
type Envelope struct {
	Modality types.Modality
	Text     string
	Data     []byte
	MIMEType string
}

// Build normalizes raw input into an Envelope. Non-blank text wins over
// binary data; binary data with an image/* MIME type (or a photo hint)
// becomes a photo; any other binary data is treated as an audio recording.
// Empty input fails with ErrNoInput.
func Build(raw Raw) (Envelope, error) {
	if text := strings.TrimSpace(raw.Text); text != "" {
		return Envelope{Modality: types.ModalityText, Text: raw.Text}, nil
	}
	if len(raw.Data) == 0 {
		return Envelope{}, ErrNoInput
	}
	mime := strings.TrimSpace(raw.MIMEType)
	switch {
	case strings.HasPrefix(strings.ToLower(mime), "image/"):
		return Envelope{Modality: types.ModalityPhoto, Data: raw.Data, MIMEType: mime}, nil
	case raw.Photo:
		return Envelope{Modality: types.ModalityPhoto, Data: raw.Data, MIMEType: defaultImageMIMEType}, nil
	default:
		return Envelope{Modality: types.ModalityAudio, Data: raw.Data, MIMEType: audioMIMEType}, nil
	}
}
