package envelope

import (
	"bytes"
	"errors"
	"testing"

	"socialforge/internal/types"
)

func TestBuildText(t *testing.T) {
	env, err := Build(Raw{Text: "Oggi in seduta è emerso un tema di resa."})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if env.Modality != types.ModalityText {
		t.Fatalf("modality = %q, want text", env.Modality)
	}
	if env.Text != "Oggi in seduta è emerso un tema di resa." {
		t.Fatalf("text not preserved: %q", env.Text)
	}
}

func TestBuildTextWinsOverBinary(t *testing.T) {
	env, err := Build(Raw{Text: "note", Data: []byte{1, 2}, MIMEType: "image/png"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if env.Modality != types.ModalityText {
		t.Fatalf("modality = %q, want text", env.Modality)
	}
}

func TestBuildImagePreservesBytesAndMIME(t *testing.T) {
	data := []byte{0x89, 0x50, 0x4e, 0x47}
	env, err := Build(Raw{Data: data, MIMEType: "image/png"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if env.Modality != types.ModalityPhoto {
		t.Fatalf("modality = %q, want photo", env.Modality)
	}
	if env.MIMEType != "image/png" {
		t.Fatalf("mime = %q, want image/png", env.MIMEType)
	}
	if !bytes.Equal(env.Data, data) {
		t.Fatalf("bytes not preserved")
	}
}

func TestBuildImageMIMECaseInsensitive(t *testing.T) {
	env, err := Build(Raw{Data: []byte{1}, MIMEType: "IMAGE/PNG"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if env.Modality != types.ModalityPhoto {
		t.Fatalf("modality = %q, want photo", env.Modality)
	}
	// The declared type is preserved as given.
	if env.MIMEType != "IMAGE/PNG" {
		t.Fatalf("mime = %q, want IMAGE/PNG", env.MIMEType)
	}
}

func TestBuildPhotoHintDefaultsJPEG(t *testing.T) {
	env, err := Build(Raw{Data: []byte{1}, Photo: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if env.Modality != types.ModalityPhoto || env.MIMEType != "image/jpeg" {
		t.Fatalf("got %q/%q, want photo/image/jpeg", env.Modality, env.MIMEType)
	}
}

func TestBuildBinaryDefaultsToAudioWebm(t *testing.T) {
	env, err := Build(Raw{Data: []byte{1, 2, 3}, MIMEType: "audio/ogg"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if env.Modality != types.ModalityAudio {
		t.Fatalf("modality = %q, want audio", env.Modality)
	}
	// The recorder contract fixes the container regardless of declared codec.
	if env.MIMEType != "audio/webm" {
		t.Fatalf("mime = %q, want audio/webm", env.MIMEType)
	}
}

func TestBuildNoInput(t *testing.T) {
	for _, raw := range []Raw{{}, {Text: "   \n\t"}} {
		_, err := Build(raw)
		if !errors.Is(err, ErrNoInput) {
			t.Fatalf("Build(%+v) = %v, want ErrNoInput", raw, err)
		}
	}
}
