package model

import "time"

// ConversationTurn is the immutable record of one completed exchange: the
// query as the user typed it, the entities and periods that were actually
// resolved and used, and the final answer text.
type ConversationTurn struct {
	Query    string            `json:"query"`
	Intent   Intent            `json:"intent"`
	Entities ExtractedEntities `json:"entities"`
	Periods  []Period          `json:"periods"`
	Answer   string            `json:"answer"`
	At       time.Time         `json:"at"`
}
