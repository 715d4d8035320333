package models

import "time"

type Thread struct {
	ID          string    `json:"id" bson:"id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Messages    []Message `json:"messages" bson:"messages"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type Message struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	Sender    string    `json:"sender" bson:"sender"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Pinned    bool      `json:"pinned" bson:"pinned"`
}

// Evaluation is the scored result of comparing a student answer against a
// model answer. Produced per request, never persisted. Error and
// OriginalResponse are set only on the parse-failure fallback.
type Evaluation struct {
	Score            float64   `json:"score"`
	Feedback         string    `json:"feedback"`
	MissedPoints     any       `json:"missed_points,omitempty"`
	Suggestions      any       `json:"suggestions,omitempty"`
	Error            string    `json:"error,omitempty"`
	OriginalResponse string    `json:"original_response,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// QuizResult carries generated questions back with a preview of the source
// text. Transient, like Evaluation.
type QuizResult struct {
	Questions string       `json:"questions"`
	Text      string       `json:"text"`
	Metadata  QuizMetadata `json:"metadata"`
}

type QuizMetadata struct {
	PagesProcessed int    `json:"pages_processed"`
	WordCount      int    `json:"word_count"`
	Filename       string `json:"filename"`
}
