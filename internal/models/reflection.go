package models

type Affirmation struct {
	ID     string `json:"id"`
	UserID string `json:"userId,omitempty"`
	Text   string `json:"text"`
	Date   string `json:"date"` // RFC3339 timestamp
}

type JournalEntry struct {
	ID      string `json:"id"`
	UserID  string `json:"userId,omitempty"`
	Date    string `json:"date"` // RFC3339 timestamp
	Prompt  string `json:"prompt"`
	Content string `json:"content"`
}

type LearningTopic struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}
