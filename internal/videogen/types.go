package videogen

import "time"

// Generation constants reported by the upstream model contract. Duration and
// quality are fixed properties of the model, not measured values.
const (
	MaxPromptLength = 1000

	DefaultStyle       = "cinematic"
	DefaultAspectRatio = "16:9"

	FixedDuration = "10 seconds"
	FixedQuality  = "4K Ultra HD"
)

// GenerateRequest captures the client inputs for one video generation.
type GenerateRequest struct {
	Prompt          string `json:"prompt"`
	Style           string `json:"style,omitempty"`
	AspectRatio     string `json:"aspectRatio,omitempty"`
	MotionIntensity string `json:"motionIntensity,omitempty"`
}

// Metadata describes a completed generation. Immutable once created.
type Metadata struct {
	Prompt      string    `json:"prompt"`
	Style       string    `json:"style"`
	AspectRatio string    `json:"aspectRatio"`
	Duration    string    `json:"duration"`
	Quality     string    `json:"quality"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Result is the normalized successful outcome of a generation. Exactly one of
// VideoURL or VideoData is populated, depending on whether the upstream
// answered with a JSON envelope or raw video bytes.
type Result struct {
	VideoURL    string
	VideoData   []byte
	ContentType string
	Metadata    Metadata
}

// IsBinary reports whether the result carries raw video bytes instead of a URL.
func (r *Result) IsBinary() bool {
	return r != nil && len(r.VideoData) > 0
}
