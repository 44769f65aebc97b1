package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/neon-social/backend/internal/model"
)

type fakeChatStore struct {
	mu       sync.Mutex
	messages []model.ChatMessage
	nextID   int64
}

func (f *fakeChatStore) InsertChatMessage(ctx context.Context, userID int64, role, content string) (*model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg := model.ChatMessage{ID: f.nextID, UserID: userID, Role: role, Content: content, CreatedAt: time.Now()}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

func (f *fakeChatStore) GetRecentChatMessages(ctx context.Context, userID int64, limit int) ([]model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ChatMessage
	for _, msg := range f.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeChatClient struct {
	lastSystemPrompt string
	lastHistory      []model.ChatMessage
	reply            string
	err              error
}

func (f *fakeChatClient) GenerateReply(ctx context.Context, systemPrompt string, history []model.ChatMessage, message string) (string, error) {
	f.lastSystemPrompt = systemPrompt
	f.lastHistory = history
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeConfigReader struct {
	values map[string]string
}

func (f *fakeConfigReader) GetConfigValue(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func TestChatStoresBothSides(t *testing.T) {
	store := &fakeChatStore{}
	client := &fakeChatClient{reply: "hello there"}
	svc := NewChatService(store, client, &fakeConfigReader{})

	resp, err := svc.Chat(context.Background(), 1, "hi")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.UserMessage.Role != model.ChatRoleUser || resp.UserMessage.Content != "hi" {
		t.Fatalf("unexpected user message: %+v", resp.UserMessage)
	}
	if resp.AssistantMessage.Role != model.ChatRoleAssistant || resp.AssistantMessage.Content != "hello there" {
		t.Fatalf("unexpected assistant message: %+v", resp.AssistantMessage)
	}

	history, err := svc.History(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(history))
	}
}

func TestChatUsesConfiguredSystemPrompt(t *testing.T) {
	client := &fakeChatClient{reply: "ok"}
	configs := &fakeConfigReader{values: map[string]string{"ai_system_prompt": "You are a pirate."}}
	svc := NewChatService(&fakeChatStore{}, client, configs)

	if _, err := svc.Chat(context.Background(), 1, "hi"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if client.lastSystemPrompt != "You are a pirate." {
		t.Fatalf("expected configured prompt, got %q", client.lastSystemPrompt)
	}
}

func TestChatFallsBackToDefaultPrompt(t *testing.T) {
	client := &fakeChatClient{reply: "ok"}
	svc := NewChatService(&fakeChatStore{}, client, &fakeConfigReader{})

	if _, err := svc.Chat(context.Background(), 1, "hi"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if client.lastSystemPrompt != defaultSystemPrompt {
		t.Fatalf("expected default prompt, got %q", client.lastSystemPrompt)
	}
}

func TestChatHistoryExcludesCurrentMessage(t *testing.T) {
	store := &fakeChatStore{}
	client := &fakeChatClient{reply: "ok"}
	svc := NewChatService(store, client, &fakeConfigReader{})

	if _, err := svc.Chat(context.Background(), 1, "first"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if _, err := svc.Chat(context.Background(), 1, "second"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	for _, msg := range client.lastHistory {
		if msg.Content == "second" {
			t.Fatalf("current message leaked into history")
		}
	}
	if len(client.lastHistory) != 2 {
		t.Fatalf("expected first exchange in history, got %d messages", len(client.lastHistory))
	}
}

func TestChatValidation(t *testing.T) {
	svc := NewChatService(&fakeChatStore{}, &fakeChatClient{reply: "ok"}, &fakeConfigReader{})

	if _, err := svc.Chat(context.Background(), 1, "   "); !errors.Is(err, ErrInvalidChatRequest) {
		t.Fatalf("expected ErrInvalidChatRequest for blank message, got %v", err)
	}
	if _, err := svc.Chat(context.Background(), 1, strings.Repeat("x", maxChatLength+1)); !errors.Is(err, ErrInvalidChatRequest) {
		t.Fatalf("expected ErrInvalidChatRequest for oversized message, got %v", err)
	}
}

func TestChatWithoutClient(t *testing.T) {
	svc := NewChatService(&fakeChatStore{}, nil, &fakeConfigReader{})
	if _, err := svc.Chat(context.Background(), 1, "hi"); !errors.Is(err, ErrChatUnavailable) {
		t.Fatalf("expected ErrChatUnavailable, got %v", err)
	}
}
