// Package prompt composes the multi-part request sent to the model: the
// fixed system instruction first, then the parts derived from the envelope.
package prompt

import (
	"socialforge/internal/envelope"
	"socialforge/internal/types"
)

// SystemInstruction primes the model with the brand voice and the exact
// output schema before it sees any user content.
const SystemInstruction = `
Agisci come un social media manager esperto in psicologia clinica e transpersonale.
Il tuo obiettivo è trasformare riflessioni cliniche in contenuti social coinvolgenti per 4 piattaforme: Instagram, TikTok, YouTube e Facebook.

LINEE GUIDA BRAND:
- Tono: Empatico, professionale ma accessibile, scientifico-spirituale.
- Evita: Banalità new-age, linguaggio troppo accademico, giudizio.
- Focus: Consapevolezza, resa, integrazione dell'ombre, transpersonale.

DEVI GENERARE UN JSON CON QUESTA STRUTTURA:
{
  "instagram": {
    "type": "carousel",
    "slides": ["Testo Slide 1", "Testo Slide 2", "Testo Slide 3", "Testo Slide 4"],
    "caption": "Testo completo per la caption con hashtag",
    "imagePrompt": "Descrizione visiva per generare l'immagine con IA"
  },
  "tiktok": {
    "script": "Testo dello script parlato",
    "visualCues": "Descrizione di cosa mostrare a video mentre si parla",
    "caption": "Breve caption per il video"
  },
  "youtube": {
    "title": "Titolo SEO accattivante",
    "description": "Descrizione completa del video con capitoli sugeriti",
    "tags": ["tag1", "tag2", "tag3"]
  },
  "facebook": {
    "post": "Testo lungo e discorsivo che invita alla riflessione",
    "question": "Domanda finale per stimolare i commenti"
  }
}

Input dell'utente:
`

const (
	audioInstruction = "Analizza questo audio e crea i contenuti social richiesti. Ignora rumori di fondo."
	imageInstruction = "Analizza questa immagine (leggi il testo se presente o descrivi il concetto visivo) e crea contenuti social basati su di essa."
)

// Part is one unit of the outbound request: either text or binary with a
// declared MIME type.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// Request is the ordered part sequence for one model call.
type Request struct {
	Parts []Part
}

// Compose builds the request for an envelope. Part 0 is always the system
// instruction. For audio and photo inputs the blob comes before its handling
// instruction: multimodal models attend better when told what to do with a
// blob immediately after seeing it.
func Compose(env envelope.Envelope) Request {
	parts := []Part{{Text: SystemInstruction}}
	switch env.Modality {
	case types.ModalityText:
		parts = append(parts, Part{Text: env.Text})
	case types.ModalityAudio:
		parts = append(parts,
			Part{Data: env.Data, MIMEType: env.MIMEType},
			Part{Text: audioInstruction})
	default:
		parts = append(parts,
			Part{Data: env.Data, MIMEType: env.MIMEType},
			Part{Text: imageInstruction})
	}
	return Request{Parts: parts}
}
