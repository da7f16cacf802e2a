package domain

// Emotion is a selectable mood
type Emotion struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// Recommendation is a static demo suggestion for a mood
type Recommendation struct {
	Emotion     string      `json:"emotion"`
	ContentType ContentType `json:"contentType"`
	Title       string      `json:"title"`
	Creator     string      `json:"creator,omitempty"`
	Description string      `json:"description,omitempty"`
}
