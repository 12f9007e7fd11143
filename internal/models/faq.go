package models

// FAQ is a canned question/answer pair shown next to the chat.
type FAQ struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Keywords string `json:"keywords,omitempty"`
	Category string `json:"category,omitempty"`
}
