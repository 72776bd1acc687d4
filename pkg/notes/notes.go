package notes

import "time"

// Note is the canonical API representation of a stored note.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft is a generated note that has not been persisted. The caller
// decides whether to turn it into a real note via the create endpoint.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
