// Package pipeline sequences one generation: build envelope, compose prompt,
// call the model, extract the package, archive the result.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"socialforge/internal/envelope"
	"socialforge/internal/extract"
	"socialforge/internal/history"
	"socialforge/internal/llm"
	"socialforge/internal/prompt"
	"socialforge/internal/types"
)

// Stage names the pipeline step an error originated from.
type Stage string

const (
	StageInput   Stage = "input"
	StageModel   Stage = "model"
	StageExtract Stage = "extract"
)

// StageError tags a stage failure. The first failing stage short-circuits
// the rest; no partial package is ever returned.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: %s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

const summaryLimit = 100

// Options tune the optional result cache. A CacheSize <= 0 disables caching.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// Pipeline orchestrates generations against one model client and one archive.
type Pipeline struct {
	client  llm.Client
	archive *history.Archive
	cache   *expirable.LRU[string, types.ContentPackage]
}

func New(client llm.Client, archive *history.Archive, opts Options) *Pipeline {
	p := &Pipeline{client: client, archive: archive}
	if opts.CacheSize > 0 {
		ttl := opts.CacheTTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		p.cache = expirable.NewLRU[string, types.ContentPackage](opts.CacheSize, nil, ttl)
	}
	return p
}

// Generate runs the full pipeline for one raw input. On success the result
// is archived before returning; an archive failure is logged, never surfaced,
// because the caller must still receive their content. No input is ever sent
// upstream when validation fails.
func (p *Pipeline) Generate(ctx context.Context, raw envelope.Raw) (types.ContentPackage, error) {
	env, err := envelope.Build(raw)
	if err != nil {
		return types.ContentPackage{}, &StageError{Stage: StageInput, Err: err}
	}

	key := digest(env)
	pkg, cached := p.lookup(key)
	if !cached {
		rawText, err := p.client.Generate(ctx, prompt.Compose(env))
		if err != nil {
			return types.ContentPackage{}, &StageError{Stage: StageModel, Err: err}
		}
		pkg, err = extract.Package(rawText)
		if err != nil {
			return types.ContentPackage{}, &StageError{Stage: StageExtract, Err: err}
		}
		if p.cache != nil {
			p.cache.Add(key, pkg)
		}
	}

	draft := history.Draft{
		InputSummary: summarize(env),
		Modality:     env.Modality,
		Package:      pkg,
	}
	if _, err := p.archive.Insert(ctx, draft); err != nil {
		log.Printf("pipeline: archive insert failed: %v", err)
	}
	return pkg, nil
}

func (p *Pipeline) lookup(key string) (types.ContentPackage, bool) {
	if p.cache == nil {
		return types.ContentPackage{}, false
	}
	return p.cache.Get(key)
}

// summarize derives the archive label for an input: the text itself, or a
// modality label with the wall-clock time for recordings and photos.
func summarize(env envelope.Envelope) string {
	switch env.Modality {
	case types.ModalityAudio:
		return truncate("Nota Vocale ("+time.Now().Format("15:04:05")+")", summaryLimit)
	case types.ModalityPhoto:
		return truncate("Foto Caricata ("+time.Now().Format("15:04:05")+")", summaryLimit)
	default:
		return truncate(env.Text, summaryLimit)
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

func digest(env envelope.Envelope) string {
	h := sha256.New()
	h.Write([]byte(env.Modality))
	h.Write([]byte{0})
	h.Write([]byte(env.MIMEType))
	h.Write([]byte{0})
	h.Write([]byte(env.Text))
	h.Write(env.Data)
	return hex.EncodeToString(h.Sum(nil))
}
