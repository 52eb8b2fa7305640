// Package history keeps the ordered, persisted log of past generations.
// The archive exclusively owns the collection; every mutation rewrites the
// whole persisted slot before the operation returns.
package history

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"socialforge/internal/types"
	"socialforge/internal/util/jsonutil"
)

// Storage is the capability the archive needs from persistent storage: one
// named slot, read whole, written whole. A read of a slot that was never
// written returns (nil, nil).
type Storage interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Draft is the caller-supplied part of an entry; id and timestamp are
// assigned at insert time.
type Draft struct {
	InputSummary string
	Modality     types.Modality
	Package      types.ContentPackage
}

// Archive holds the in-memory sequence, newest first, mirrored to storage on
// every mutation. All operations serialize on an internal mutex: the driving
// surface is expected to issue one mutation at a time, but HTTP makes overlap
// possible, so access is serialized here rather than assumed away.
type Archive struct {
	mu      sync.Mutex
	entries []types.HistoryEntry
	storage Storage
}

func NewArchive(storage Storage) *Archive {
	return &Archive{storage: storage}
}

// Load reconstructs the in-memory sequence from storage. A missing slot
// yields an empty archive; an unreadable or unparsable slot is logged and
// also yields an empty archive, never an error to the caller.
func (a *Archive) Load(ctx context.Context) []types.HistoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := a.storage.Read(ctx)
	if err != nil {
		log.Printf("history: load failed, starting empty: %v", err)
		a.entries = nil
		return nil
	}
	if len(data) == 0 {
		a.entries = nil
		return nil
	}
	var rows []types.HistoryEntry
	if err := jsonutil.UnmarshalFlex(data, &rows); err != nil {
		log.Printf("history: persisted state unparsable, starting empty: %v", err)
		a.entries = nil
		return nil
	}
	a.entries = rows
	return a.snapshotLocked()
}

// Insert assigns a fresh id and timestamp, prepends the entry, persists the
// full sequence and returns the finalized entry. A persistence failure is
// returned alongside the entry; the in-memory insert stands either way.
func (a *Archive) Insert(ctx context.Context, draft Draft) (types.HistoryEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry := types.HistoryEntry{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		InputSummary: draft.InputSummary,
		Modality:     draft.Modality,
		Package:      draft.Package,
	}
	a.entries = append([]types.HistoryEntry{entry}, a.entries...)
	return entry, a.persistLocked(ctx)
}

// Delete removes the entry with the given id if present and persists.
// Deleting an absent id is a no-op, not an error.
func (a *Archive) Delete(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.entries[:0]
	removed := false
	for _, e := range a.entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	a.entries = kept
	if !removed {
		return nil
	}
	return a.persistLocked(ctx)
}

// Clear empties the sequence and persists the empty state.
func (a *Archive) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = nil
	return a.persistLocked(ctx)
}

// Entries returns a copy of the sequence, newest first.
func (a *Archive) Entries() []types.HistoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

func (a *Archive) snapshotLocked() []types.HistoryEntry {
	out := make([]types.HistoryEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

func (a *Archive) persistLocked(ctx context.Context) error {
	rows := a.entries
	if rows == nil {
		rows = []types.HistoryEntry{}
	}
	data, err := jsonutil.MarshalNoEscapeIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return a.storage.Write(ctx, data)
}
