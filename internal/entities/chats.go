package entities

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// CreateChat stores a new, empty chat board. An explicit id that is
// already taken fails with ErrConflict.
func (r *Registry) CreateChat(ctx context.Context, id, title string) (types.ChatBoard, error) {
	board := types.ChatBoard{
		ID:       strings.TrimSpace(id),
		Title:    strings.TrimSpace(title),
		Messages: []types.ChatMessage{},
	}
	if err := board.Validate(); err != nil {
		return types.ChatBoard{}, err
	}
	return r.Chats.Insert(ctx, board)
}

// SendMessage appends a message to the chat board and returns it.
// Concurrent sends to one board are serialized and all of them land.
func (r *Registry) SendMessage(ctx context.Context, chatID, userID, text string) (types.ChatMessage, error) {
	msg := types.ChatMessage{
		ID:     r.newID(),
		ChatID: chatID,
		UserID: userID,
		Text:   text,
	}
	if err := msg.Validate(); err != nil {
		return types.ChatMessage{}, err
	}
	_, err := r.Chats.Ref(chatID).Mutate(ctx, func(b types.ChatBoard) (types.ChatBoard, error) {
		msg.TS = r.now().UnixMilli()
		return b.Append(msg), nil
	})
	if err != nil {
		return types.ChatMessage{}, err
	}
	return msg, nil
}

// ListMessages returns the messages of a chat board in append order.
func (r *Registry) ListMessages(ctx context.Context, chatID string) ([]types.ChatMessage, error) {
	board, err := r.Chats.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if board.Messages == nil {
		return []types.ChatMessage{}, nil
	}
	return board.Messages, nil
}
