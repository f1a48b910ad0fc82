package emotion

// Arousal is the coarse intensity band of a catalog record.
type Arousal string

const (
	ArousalLow    Arousal = "low"
	ArousalMedium Arousal = "medium"
	ArousalHigh   Arousal = "high"
)

// ValidArousal reports whether s is a recognized arousal band.
func ValidArousal(s string) bool {
	switch Arousal(s) {
	case ArousalLow, ArousalMedium, ArousalHigh:
		return true
	}
	return false
}

// Record is a single catalog entry tagging an emoji with a position on the
// valence axis (1 = most negative, 100 = most positive), an arousal band,
// and a primary/secondary emotion label. Records are immutable after load.
type Record struct {
	// Emoji is the display glyph
	Emoji string `json:"emoji"`

	// Codepoint is the stable identifier for the glyph (e.g. "U+1F600")
	Codepoint string `json:"codepoint"`

	// Score is the 1-100 valence position
	Score int `json:"score"`

	// Primary is the coarse emotion family (Joy, Anger, Fear, ...)
	Primary string `json:"primary"`

	// Secondary is the finer label within the family
	Secondary string `json:"secondary"`

	// Arousal is the low/medium/high intensity band
	Arousal Arousal `json:"arousal"`
}
