package ports

import "time"

// Теги происхождения текста
const (
	InputTypePDF  = "pdf"
	InputTypeTxt  = "txt"
	InputTypeText = "text"
)

const StatusCompleted = "completed"

type Conversion struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Text             string    `json:"text"`
	InputType        string    `json:"inputType"`
	OriginalFileName *string   `json:"originalFileName,omitempty"`
	OriginalFileURL  *string   `json:"originalFileUrl,omitempty"`
	AudioURL         string    `json:"audioUrl"`
	Status           string    `json:"status"`
	TextLength       int       `json:"textLength"`
	CreatedAt        time.Time `json:"createdAt"`
	CompletedAt      time.Time `json:"completedAt"`
}
