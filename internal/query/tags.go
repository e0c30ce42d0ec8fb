package query

import "github.com/roach88/promptguide/internal/ir"

// Tone is the visual weight of a tag.
type Tone string

const (
	ToneWarning Tone = "warning"
	ToneGood    Tone = "good"
	ToneInfo    Tone = "info"
)

// Tag is a short label derived from a category's scores.
type Tag struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

// Score threshold above which an axis is called "High".
const highScore = 7

// Tags derives display tags from a category's chart data.
func Tags(c *ir.Category) []Tag {
	var tags []Tag
	if c.ChartData[0] > highScore {
		tags = append(tags, Tag{Label: "High Complexity", Tone: ToneWarning})
	} else {
		tags = append(tags, Tag{Label: "Beginner Friendly", Tone: ToneGood})
	}
	if c.ChartData[1] > highScore {
		tags = append(tags, Tag{Label: "High Reliability", Tone: ToneInfo})
	}
	return tags
}
