package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"groupexp/app/client/line"
	"groupexp/app/config"
	"groupexp/app/service/orchestrator"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

// Orchestrator turns one inbound message into at most one outbound reply.
type Orchestrator interface {
	HandleMessage(ctx context.Context, event orchestrator.InboundEvent) (string, error)
}

// Replier relays a reply back to the conversation via the platform.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

type Server struct {
	cfg     *config.Config
	orch    Orchestrator
	replier Replier
	app     *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	return newServer(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*orchestrator.Service](di),
		do.MustInvoke[*line.Client](di),
	), nil
}

func newServer(cfg *config.Config, orch Orchestrator, replier Replier) *Server {
	s := &Server{
		cfg:     cfg,
		orch:    orch,
		replier: replier,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Post("/callback", s.handleCallback)
	s.app = app

	return s
}

func (s *Server) Run() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.cfg.Server.Port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

type webhookBody struct {
	Events []webhookEvent `json:"events"`
}

type webhookEvent struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		Type    string `json:"type"`
		GroupID string `json:"groupId"`
		RoomID  string `json:"roomId"`
		UserID  string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

func (s *Server) handleCallback(c *fiber.Ctx) error {
	body := c.Body()

	if !verifySignature(s.cfg.Line.ChannelSecret, body, c.Get("X-Line-Signature")) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid signature")
	}

	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed payload")
	}

	for _, event := range payload.Events {
		if err := s.handleEvent(c.UserContext(), event); err != nil {
			slog.Error("Failed to handle event",
				"conversation", scopedConversationID(event),
				"error", err)

			// A non-2xx status makes the platform redeliver the event.
			return fiber.NewError(fiber.StatusInternalServerError, "event handling failed")
		}
	}

	return c.SendString("OK")
}

func (s *Server) handleEvent(ctx context.Context, event webhookEvent) error {
	if event.Type != "message" || event.Message.Type != "text" {
		return nil
	}

	conversationID := scopedConversationID(event)
	if conversationID == "" {
		// Direct messages are out of scope, only group/room chats count.
		return nil
	}

	reply, err := s.orch.HandleMessage(ctx, orchestrator.InboundEvent{
		ConversationID: conversationID,
		SenderID:       event.Source.UserID,
		Text:           event.Message.Text,
	})
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}

	if reply == "" {
		return nil
	}

	if err := s.replier.Reply(ctx, event.ReplyToken, reply); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	return nil
}

func scopedConversationID(event webhookEvent) string {
	switch event.Source.Type {
	case "group":
		return event.Source.GroupID
	case "room":
		return event.Source.RoomID
	default:
		return ""
	}
}

func verifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
