package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"socialforge/internal/types"
)

func testPackage() types.ContentPackage {
	return types.ContentPackage{
		Instagram: &types.InstagramContent{Type: "carousel", Slides: []string{"s1"}, Caption: "c", ImagePrompt: "p"},
		TikTok:    &types.TikTokContent{Script: "s", VisualCues: "v", Caption: "c"},
		YouTube:   &types.YouTubeContent{Title: "t", Description: "d", Tags: []string{"a"}},
		Facebook:  &types.FacebookContent{Post: "p", Question: "q"},
	}
}

func newFileArchive(t *testing.T) (*Archive, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.json")
	return NewArchive(NewFileStorage(path)), path
}

func TestInsertLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	archive, path := newFileArchive(t)

	inserted, err := archive.Insert(ctx, Draft{
		InputSummary: "una riflessione",
		Modality:     types.ModalityText,
		Package:      testPackage(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, inserted.ID)
	require.False(t, inserted.CreatedAt.IsZero())

	// Simulate restart: a fresh archive over the same slot.
	reloaded := NewArchive(NewFileStorage(path))
	entries := reloaded.Load(ctx)
	require.Len(t, entries, 1)
	got := entries[0]
	require.Equal(t, inserted.ID, got.ID)
	require.Equal(t, inserted.CreatedAt.Unix(), got.CreatedAt.Unix())
	require.Equal(t, "una riflessione", got.InputSummary)
	require.Equal(t, types.ModalityText, got.Modality)
	require.Equal(t, inserted.Package, got.Package)
}

func TestInsertionOrderNewestFirst(t *testing.T) {
	ctx := context.Background()
	archive, _ := newFileArchive(t)

	for _, summary := range []string{"A", "B", "C"} {
		_, err := archive.Insert(ctx, Draft{InputSummary: summary, Modality: types.ModalityText, Package: testPackage()})
		require.NoError(t, err)
	}
	entries := archive.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, "C", entries[0].InputSummary)
	require.Equal(t, "B", entries[1].InputSummary)
	require.Equal(t, "A", entries[2].InputSummary)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	archive, _ := newFileArchive(t)

	entry, err := archive.Insert(ctx, Draft{InputSummary: "x", Modality: types.ModalityAudio, Package: testPackage()})
	require.NoError(t, err)

	require.NoError(t, archive.Delete(ctx, "non-esiste"))
	require.Equal(t, 1, archive.Len())

	require.NoError(t, archive.Delete(ctx, entry.ID))
	require.Equal(t, 0, archive.Len())

	require.NoError(t, archive.Delete(ctx, entry.ID))
	require.Equal(t, 0, archive.Len())
}

func TestClearPersistsEmptyState(t *testing.T) {
	ctx := context.Background()
	archive, path := newFileArchive(t)

	_, err := archive.Insert(ctx, Draft{InputSummary: "x", Modality: types.ModalityPhoto, Package: testPackage()})
	require.NoError(t, err)
	require.NoError(t, archive.Clear(ctx))

	reloaded := NewArchive(NewFileStorage(path))
	require.Empty(t, reloaded.Load(ctx))
}

func TestLoadMissingSlotStartsEmpty(t *testing.T) {
	archive, _ := newFileArchive(t)
	require.Empty(t, archive.Load(context.Background()))
}

func TestLoadCorruptSlotFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	archive := NewArchive(NewFileStorage(path))
	require.Empty(t, archive.Load(ctx))

	// The archive must stay usable after the fallback.
	_, err := archive.Insert(ctx, Draft{InputSummary: "dopo", Modality: types.ModalityText, Package: testPackage()})
	require.NoError(t, err)
	require.Equal(t, 1, archive.Len())
}
