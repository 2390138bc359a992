package domain

import "strings"

// VideoStyle enumerates the user-facing visual styles.
type VideoStyle string

const (
	StyleCinematic3D  VideoStyle = "CINEMATIC_3D"
	StyleAnimation3D  VideoStyle = "ANIMATION_3D"
	StyleRealistic    VideoStyle = "REALISTIC"
	StyleEmojiStory   VideoStyle = "EMOJI_STORY"
	StyleMinimalSlide VideoStyle = "MINIMAL_SLIDES"
	StyleWhiteboard   VideoStyle = "WHITEBOARD"
)

// DisplayName returns the human-readable style label embedded into
// generation prompts.
func (s VideoStyle) DisplayName() string {
	switch s {
	case StyleCinematic3D:
		return "Cinematic 3D"
	case StyleAnimation3D:
		return "3D Animation"
	case StyleRealistic:
		return "Realistic"
	case StyleEmojiStory:
		return "Emoji Story"
	case StyleMinimalSlide:
		return "Minimal Slides"
	case StyleWhiteboard:
		return "Whiteboard"
	default:
		return string(s)
	}
}

// Valid reports whether s is a known style.
func (s VideoStyle) Valid() bool {
	switch s {
	case StyleCinematic3D, StyleAnimation3D, StyleRealistic, StyleEmojiStory, StyleMinimalSlide, StyleWhiteboard:
		return true
	}
	return false
}

// AspectRatio enumerates the user-facing aspect ratios. The generation
// backend supports fewer; see videogen.MapAspectRatio.
type AspectRatio string

const (
	AspectLandscape169 AspectRatio = "LANDSCAPE_16_9"
	AspectPortrait916  AspectRatio = "PORTRAIT_9_16"
	AspectSquare11     AspectRatio = "SQUARE_1_1"
	AspectVertical45   AspectRatio = "VERTICAL_4_5"
)

// Valid reports whether a is a known aspect ratio.
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectLandscape169, AspectPortrait916, AspectSquare11, AspectVertical45:
		return true
	}
	return false
}

// Resolution enumerates the user-facing resolution tiers. The backend
// ceiling is 1080p; see videogen.MapResolution.
type Resolution string

const (
	ResolutionHD720   Resolution = "HD_720P"
	ResolutionFHD1080 Resolution = "FULL_HD_1080P"
	ResolutionUHD4K   Resolution = "ULTRA_HD_4K"
)

// Valid reports whether r is a known resolution.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionHD720, ResolutionFHD1080, ResolutionUHD4K:
		return true
	}
	return false
}

// MediaRef points at an uploaded binary held by the storage layer.
type MediaRef struct {
	StorageKey string
	MimeType   string
}

// GenerationDraft accumulates the user's request across the wizard
// stages. It is owned and mutated exclusively by the wizard; the
// orchestrator receives it by value and never writes it back.
type GenerationDraft struct {
	Script         string
	AssistedScript string
	AudioRef       *MediaRef
	ImageRef       *MediaRef
	Style          VideoStyle
	AspectRatio    AspectRatio
	Resolution     Resolution
}

// NewDraft returns a draft with the default style, ratio and resolution.
func NewDraft() GenerationDraft {
	return GenerationDraft{
		Style:       StyleCinematic3D,
		AspectRatio: AspectLandscape169,
		Resolution:  ResolutionHD720,
	}
}

// SetScript replaces the user script. Any prior assisted rewrite is
// invalidated: an edited script must never be shadowed by a stale
// AI version of its predecessor.
func (d *GenerationDraft) SetScript(text string) {
	d.Script = text
	d.AssistedScript = ""
}

// SetAssistedScript records the most recent AI rewrite of the script.
func (d *GenerationDraft) SetAssistedScript(text string) {
	d.AssistedScript = text
}

// EffectivePrompt returns the assisted script when present, otherwise
// the raw script. Computed on demand, never cached.
func (d GenerationDraft) EffectivePrompt() string {
	if d.AssistedScript != "" {
		return d.AssistedScript
	}
	return d.Script
}

// Empty reports whether the draft has no content at all. An empty
// draft must not be submitted for generation.
func (d GenerationDraft) Empty() bool {
	return strings.TrimSpace(d.Script) == "" && d.AudioRef == nil && d.ImageRef == nil
}
