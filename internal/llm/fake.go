package llm

import (
	"context"

	"socialforge/internal/prompt"
)

// FakeResponse is a deterministic, schema-complete model answer wrapped in
// the kind of prose real models emit around JSON.
const FakeResponse = "Ecco i contenuti richiesti:\n" + `{
  "instagram": {
    "type": "carousel",
    "slides": ["La resa non è sconfitta", "È il primo passo dell'integrazione", "Osserva senza giudicare", "Lascia andare"],
    "caption": "Riflessione sulla resa. #psicologia #consapevolezza",
    "imagePrompt": "Mani aperte sotto una luce morbida"
  },
  "tiktok": {
    "script": "Oggi parliamo di resa.",
    "visualCues": "Primo piano, luce calda",
    "caption": "La resa come pratica"
  },
  "youtube": {
    "title": "Resa e integrazione: cosa emerge in seduta",
    "description": "Una riflessione clinica sulla resa.",
    "tags": ["psicologia", "transpersonale", "resa"]
  },
  "facebook": {
    "post": "In seduta emerge spesso il tema della resa.",
    "question": "Cosa significa per te arrenderti?"
  }
}`

// FakeClient returns a canned response for offline runs and tests. Fields
// left zero fall back to FakeResponse.
type FakeClient struct {
	Response string
	Err      error

	// LastRequest records the most recent request for assertions.
	LastRequest prompt.Request
	Calls       int
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(ctx context.Context, req prompt.Request) (string, error) {
	f.Calls++
	f.LastRequest = req
	if f.Err != nil {
		return "", f.Err
	}
	if f.Response != "" {
		return f.Response, nil
	}
	return FakeResponse, nil
}
