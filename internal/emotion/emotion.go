package emotion

// Emotion is a single selectable tag describing how a task feels.
// Tasks embed a snapshot of the emotion they were tagged with, so
// catalog changes never rewrite history.
type Emotion struct {
	ID    string `json:"id"`
	Glyph string `json:"glyph"`
	Label string `json:"label"`
}

// Catalog is a fixed, ordered set of emotions. It is built once and
// passed to every consumer; nothing reads it ambiently.
type Catalog []Emotion

// Default returns the built-in catalog in display order.
func Default() Catalog {
	return Catalog{
		{ID: "easy", Glyph: "😌", Label: "Easy"},
		{ID: "neutral", Glyph: "😐", Label: "Neutral"},
		{ID: "stressful", Glyph: "😓", Label: "Stressful"},
		{ID: "overwhelming", Glyph: "😩", Label: "Overwhelming"},
		{ID: "anxious", Glyph: "⏰", Label: "Timely"},
	}
}

// ByID looks up an emotion by its catalog key.
func (c Catalog) ByID(id string) (Emotion, bool) {
	for _, e := range c {
		if e.ID == id {
			return e, true
		}
	}
	return Emotion{}, false
}

// Neutral returns the catalog's neutral entry, used as the default tag
// for voice-captured tasks. Falls back to the first entry if the
// catalog has no "neutral" id.
func (c Catalog) Neutral() Emotion {
	if e, ok := c.ByID("neutral"); ok {
		return e
	}
	if len(c) > 0 {
		return c[0]
	}
	return Emotion{}
}
