package videogen

import "strings"

var styleModifiers = map[string]string{
	"cinematic":   "cinematic style, professional lighting, film grain, dramatic composition",
	"documentary": "documentary style, natural lighting, realistic, authentic feel",
	"animated":    "animated style, smooth motion, vibrant colors, stylized rendering",
	"artistic":    "artistic style, creative composition, unique visual approach",
	"commercial":  "commercial style, clean visuals, product-focused, professional quality",
}

var motionModifiers = map[string]string{
	"low":    "subtle movement, gentle motion, minimal camera movement",
	"medium": "moderate movement, smooth transitions, balanced motion",
	"high":   "dynamic movement, active scenes, energetic motion",
}

const technicalClause = "Ultra 4K resolution, 10 seconds duration, high quality, professional video production"

// Enhance expands a raw user prompt with style, motion, technical and framing
// clauses for the video model. It is deterministic and total: unrecognized
// style or motion values simply contribute no clause, and any aspect ratio
// other than 9:16 or 1:1 falls back to the widescreen framing clause.
func Enhance(prompt, style, aspectRatio, motionIntensity string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(prompt))

	if clause, ok := styleModifiers[style]; ok {
		b.WriteString(". ")
		b.WriteString(clause)
	}
	if clause, ok := motionModifiers[motionIntensity]; ok {
		b.WriteString(". ")
		b.WriteString(clause)
	}

	b.WriteString(". ")
	b.WriteString(technicalClause)

	switch aspectRatio {
	case "9:16":
		b.WriteString(", vertical orientation suitable for mobile viewing")
	case "1:1":
		b.WriteString(", square format suitable for social media")
	default:
		b.WriteString(", widescreen cinematic format")
	}

	return b.String()
}
