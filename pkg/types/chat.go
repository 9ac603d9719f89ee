package types

import "strings"

// User is a chat participant.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RecordID returns the user ID.
func (u User) RecordID() string { return u.ID }

// WithID returns a copy of the user carrying id.
func (u User) WithID(id string) User {
	u.ID = id
	return u
}

// ChatMessage is one message on a chat board. TS is wall-clock
// milliseconds; messages with equal TS keep their append order.
type ChatMessage struct {
	ID     string `json:"id"`
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// ChatBoard is a chat with its embedded, append-only message list.
type ChatBoard struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

// RecordID returns the chat ID.
func (c ChatBoard) RecordID() string { return c.ID }

// WithID returns a copy of the board carrying id.
func (c ChatBoard) WithID(id string) ChatBoard {
	c.ID = id
	return c
}

// Validate checks that the board has a title.
func (c ChatBoard) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Append returns a copy of the board with msg added at the end. The
// existing message slice is never shared with the result.
func (c ChatBoard) Append(msg ChatMessage) ChatBoard {
	msgs := make([]ChatMessage, len(c.Messages), len(c.Messages)+1)
	copy(msgs, c.Messages)
	c.Messages = append(msgs, msg)
	return c
}

// Validate checks that the message has an author and text.
func (m ChatMessage) Validate() error {
	if strings.TrimSpace(m.UserID) == "" || strings.TrimSpace(m.Text) == "" {
		return ErrInvalidInput
	}
	return nil
}
