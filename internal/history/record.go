package history

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"videoforge/internal/videogen"
)

// Record describes one past generation: a resolvable video location plus the
// metadata it was generated with.
type Record struct {
	ID       string            `json:"id"`
	Prompt   string            `json:"prompt"`
	VideoURL string            `json:"videoUrl"`
	Metadata videogen.Metadata `json:"metadata"`
}

// NewRecordID returns a time-derived opaque identifier for a new record.
func NewRecordID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// Filename derives a download filename from the record's style and generation
// time, e.g. "video-cinematic-2026-08-29-14-03-59.mp4".
func (r Record) Filename() string {
	style := strings.ToLower(r.Metadata.Style)
	if style == "" {
		style = videogen.DefaultStyle
	}
	ts := r.Metadata.GeneratedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return fmt.Sprintf("video-%s-%s.mp4", style, ts.Format("2006-01-02-15-04-05"))
}

// StyleLabel returns the record's style title-cased for display.
func (r Record) StyleLabel() string {
	return cases.Title(language.Und).String(r.Metadata.Style)
}

// IsValidVideoURL reports whether url points at a downloadable video location.
func IsValidVideoURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count in human-readable form, rounded to two
// decimals with trailing zeros dropped.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	rounded := math.Round(size*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[unit]
}
