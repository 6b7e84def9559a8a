package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"groupexp/app/config"
	"groupexp/app/service/assistant"
	"groupexp/app/service/roles"
	"groupexp/app/service/store"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

type Service struct {
	cfg     *config.Config
	store   Store
	gateway Gateway
	command *startCommand
	locks   *keyedMutex
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		cfg:     cfg,
		store:   do.MustInvoke[*store.Service](di),
		gateway: do.MustInvoke[*assistant.Service](di),
		command: newStartCommand(cfg.Line.MentionToken),
		locks:   newKeyedMutex(),
	}, nil
}

// HandleMessage runs one inbound event through the turn state machine and
// returns the outbound reply, empty when the event produces none. Errors are
// store failures only; they must surface as a failed webhook delivery so the
// platform redelivers the event.
func (s *Service) HandleMessage(ctx context.Context, event InboundEvent) (string, error) {
	text := strings.TrimSpace(event.Text)

	unlock := s.locks.Lock(event.ConversationID)
	defer unlock()

	if role, ok := s.command.Parse(text); ok {
		if err := s.store.CreateExperiment(ctx, event.ConversationID, role); err != nil {
			return "", fmt.Errorf("failed to create experiment: %w", err)
		}

		slog.Info("Experiment started",
			"conversation", event.ConversationID,
			"role", role)

		return fmt.Sprintf(confirmFormat, role), nil
	}

	exp, err := s.store.GetExperiment(ctx, event.ConversationID)
	if err != nil {
		return "", fmt.Errorf("failed to load experiment: %w", err)
	}
	if exp == nil {
		return guidanceReply, nil
	}

	err = s.store.AppendMessage(ctx, store.Message{
		ConversationID: event.ConversationID,
		SenderID:       event.SenderID,
		Text:           text,
		Timestamp:      time.Now(),
		Origin:         store.OriginUser,
	})
	if err != nil {
		return "", fmt.Errorf("failed to append message: %w", err)
	}

	pending := exp.PendingCount + 1
	if err = s.store.SetPendingCount(ctx, event.ConversationID, pending); err != nil {
		return "", fmt.Errorf("failed to update pending count: %w", err)
	}

	if pending < s.cfg.Bot.Threshold {
		return "", nil
	}

	return s.completeTurn(ctx, event.ConversationID, exp.Role)
}

// completeTurn fetches the bounded history, asks the assistant and persists
// its reply. On a gateway failure the counter keeps its incremented value, so
// the very next message re-attempts a turn.
func (s *Service) completeTurn(ctx context.Context, conversationID, role string) (string, error) {
	history, err := s.store.LastMessages(ctx, conversationID, s.cfg.Bot.HistorySize)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}

	turns := pie.Map(history, func(msg store.Message) assistant.Turn {
		speaker := assistant.SpeakerUser
		if msg.Origin == store.OriginAssistant {
			speaker = assistant.SpeakerAssistant
		}

		return assistant.Turn{Speaker: speaker, Content: msg.Text}
	})

	if role == "" {
		role = roles.DefaultRole
	}

	reply, err := s.gateway.Complete(ctx, turns, roles.Resolve(role))
	if err != nil {
		slog.Error("Assistant call failed",
			"conversation", conversationID,
			"role", role,
			"error", err,
			"telegram", true)

		return failureReply, nil
	}

	err = s.store.AppendMessage(ctx, store.Message{
		ConversationID: conversationID,
		SenderID:       role,
		Text:           reply,
		Timestamp:      time.Now(),
		Origin:         store.OriginAssistant,
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist reply: %w", err)
	}

	if err = s.store.SetPendingCount(ctx, conversationID, 0); err != nil {
		return "", fmt.Errorf("failed to reset pending count: %w", err)
	}

	return reply, nil
}
