package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/neon-social/backend/internal/config"
	"github.com/neon-social/backend/internal/model"
	"google.golang.org/genai"
)

type AIClient struct {
	client         *genai.Client
	chatModel      string
	embeddingModel string
}

func NewAIClient(cfg config.AIConfig) (*AIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing AI_API_KEY")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	return &AIClient{
		client:         client,
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
	}, nil
}

// GenerateReply sends the conversation history plus the new user message and
// returns the assistant's answer.
func (c *AIClient) GenerateReply(ctx context.Context, systemPrompt string, history []model.ChatMessage, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == model.ChatRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	var generateCfg *genai.GenerateContentConfig
	if systemPrompt != "" {
		generateCfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		}
	}

	res, err := c.client.Models.GenerateContent(ctx, c.chatModel, contents, generateCfg)
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(res.Text())
	if answer == "" {
		return "", fmt.Errorf("model returned empty answer")
	}
	return answer, nil
}

func (c *AIClient) EmbedText(ctx context.Context, text string) ([]float32, string, error) {
	res, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, c.embeddingModel, err
	}
	if res == nil || len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, c.embeddingModel, fmt.Errorf("empty embedding result")
	}
	return res.Embeddings[0].Values, c.embeddingModel, nil
}
