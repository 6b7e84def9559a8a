package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"groupexp/app/config"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const (
	completionTimeout = 30 * time.Second
	maxReplyTokens    = 500
	replyTemperature  = 0.7
)

// ErrEmptyReply marks a completion that came back without usable content. An
// empty reply is never forwarded to the conversation.
var ErrEmptyReply = errors.New("assistant returned no usable content")

type Service struct {
	cfg    *config.Config
	client *openai.Client
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		cfg:    cfg,
		client: createClient(cfg.OpenAI),
	}, nil
}

func createClient(cfg config.OpenAI) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.Token)

	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: completionTimeout,
	}

	return openai.NewClientWithConfig(clientConfig)
}

// Complete sends the transcript to the model under the given system prompt and
// returns the trimmed reply text. All transport and provider failures come
// back as error values so the caller can emit a notice instead of crashing.
func (s *Service) Complete(ctx context.Context, history []Turn, systemPrompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Speaker == SpeakerAssistant {
			role = openai.ChatMessageRoleAssistant
		}

		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: stringify(turn.Content),
		})
	}

	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	aiResponse, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       s.cfg.OpenAI.Model,
			Messages:    messages,
			MaxTokens:   maxReplyTokens,
			Temperature: replyTemperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", ErrEmptyReply
	}

	reply := strings.TrimSpace(aiResponse.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}

	return reply, nil
}
