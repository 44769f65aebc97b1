package service

import (
	"context"
	"errors"
	"strings"

	"github.com/neon-social/backend/internal/model"
)

const (
	chatHistoryLimit = 10
	maxChatLength    = 2000
)

const defaultSystemPrompt = `You are the community's resident AI assistant.
Answer briefly and warmly, in the first person. Help with questions about the
community, its features, and everyday topics. Stay in character and keep
replies under 200 words.`

var (
	ErrInvalidChatRequest = errors.New("invalid chat request")
	ErrChatUnavailable    = errors.New("chat service unavailable")
)

type ChatStore interface {
	InsertChatMessage(ctx context.Context, userID int64, role, content string) (*model.ChatMessage, error)
	GetRecentChatMessages(ctx context.Context, userID int64, limit int) ([]model.ChatMessage, error)
}

type ChatClient interface {
	GenerateReply(ctx context.Context, systemPrompt string, history []model.ChatMessage, message string) (string, error)
}

// ChatService runs the AI assistant conversation: it persists the user's
// message, replays recent history to the model, and persists the reply. The
// system prompt is looked up in site_configs per request so admins can tune
// the assistant's persona live.
type ChatService struct {
	store   ChatStore
	client  ChatClient
	configs ConfigReader
}

func NewChatService(store ChatStore, client ChatClient, configs ConfigReader) *ChatService {
	return &ChatService{store: store, client: client, configs: configs}
}

func (s *ChatService) Chat(ctx context.Context, userID int64, message string) (*model.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" || len(message) > maxChatLength {
		return nil, ErrInvalidChatRequest
	}
	if s.client == nil {
		return nil, ErrChatUnavailable
	}

	userMsg, err := s.store.InsertChatMessage(ctx, userID, model.ChatRoleUser, message)
	if err != nil {
		return nil, err
	}

	history, err := s.store.GetRecentChatMessages(ctx, userID, chatHistoryLimit)
	if err != nil {
		return nil, err
	}
	// The stored user message is already the history tail; drop it so it is
	// not sent twice.
	if len(history) > 0 && history[len(history)-1].ID == userMsg.ID {
		history = history[:len(history)-1]
	}

	answer, err := s.client.GenerateReply(ctx, s.systemPrompt(ctx), history, message)
	if err != nil {
		return nil, err
	}

	assistantMsg, err := s.store.InsertChatMessage(ctx, userID, model.ChatRoleAssistant, answer)
	if err != nil {
		return nil, err
	}

	return &model.ChatResponse{
		UserMessage:      messageResponse(userMsg),
		AssistantMessage: messageResponse(assistantMsg),
	}, nil
}

func (s *ChatService) History(ctx context.Context, userID int64, limit int) ([]model.ChatMessageResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	messages, err := s.store.GetRecentChatMessages(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]model.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, messageResponse(&messages[i]))
	}
	return items, nil
}

func (s *ChatService) systemPrompt(ctx context.Context) string {
	if s.configs != nil {
		if prompt, err := s.configs.GetConfigValue(ctx, "ai_system_prompt"); err == nil && prompt != "" {
			return prompt
		}
	}
	return defaultSystemPrompt
}

func messageResponse(msg *model.ChatMessage) model.ChatMessageResponse {
	return model.ChatMessageResponse{
		ID:        msg.ID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
