package types

import "time"

// Modality identifies which kind of input produced a generation.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
	ModalityPhoto Modality = "photo"
)

// ContentPackage is the four-channel result of one generation. The model's
// output is not contractually guaranteed to match the schema, so each channel
// is a pointer: a missing or null key decodes to nil and consumers treat nil
// as "no content for that channel".
type ContentPackage struct {
	Instagram *InstagramContent `json:"instagram"`
	TikTok    *TikTokContent    `json:"tiktok"`
	YouTube   *YouTubeContent   `json:"youtube"`
	Facebook  *FacebookContent  `json:"facebook"`
}

// Complete reports whether all four channels are populated.
func (p ContentPackage) Complete() bool {
	return p.Instagram != nil && p.TikTok != nil && p.YouTube != nil && p.Facebook != nil
}

type InstagramContent struct {
	Type        string   `json:"type"`
	Slides      []string `json:"slides"`
	Caption     string   `json:"caption"`
	ImagePrompt string   `json:"imagePrompt"`
}

type TikTokContent struct {
	Script     string `json:"script"`
	VisualCues string `json:"visualCues"`
	Caption    string `json:"caption"`
}

type YouTubeContent struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type FacebookContent struct {
	Post     string `json:"post"`
	Question string `json:"question"`
}

// HistoryEntry is one archived generation. Entries are immutable after
// insertion; only deletion removes them.
type HistoryEntry struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	InputSummary string         `json:"input_summary"`
	Modality     Modality       `json:"modality"`
	Package      ContentPackage `json:"package"`
}
