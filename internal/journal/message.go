package journal

import (
	"time"

	"github.com/google/uuid"
)

type Author string

const (
	AuthorUser   Author = "user"
	AuthorSystem Author = "system"
)

// Message is immutable once appended to a log.
type Message struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Author    Author `json:"author"`
	Text      string `json:"text"`
	NotionURL string `json:"notionUrl,omitempty"`
}

func NewMessage(author Author, text string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Timestamp: at.UTC().Format(time.RFC3339Nano),
		Author:    author,
		Text:      text,
	}
}

func NewSystemMessage(text, notionURL string, at time.Time) Message {
	m := NewMessage(AuthorSystem, text, at)
	m.NotionURL = notionURL
	return m
}
