package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"groupexp/app/service/roles"
	"groupexp/app/service/store"

	"github.com/samber/do"
)

// Store is the read-only slice of the state store the export needs.
type Store interface {
	ListExperiments(ctx context.Context) ([]store.Experiment, error)
	Messages(ctx context.Context, conversationID string) ([]store.Message, error)
}

type Service struct {
	store Store
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		store: do.MustInvoke[*store.Service](di),
	}, nil
}

var header = []string{
	"experiment_id",
	"bot_role",
	"user_id",
	"text",
	"timestamp",
	"from",
	"speaker_type",
}

// Write flattens every experiment's transcript into one CSV row per message.
// The output depends only on stored state, so re-running on unchanged data
// produces identical bytes.
func (s *Service) Write(ctx context.Context, w io.Writer) error {
	experiments, err := s.store.ListExperiments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list experiments: %w", err)
	}

	writer := csv.NewWriter(w)
	if err = writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, exp := range experiments {
		messages, err := s.store.Messages(ctx, exp.ConversationID)
		if err != nil {
			return fmt.Errorf("failed to read messages for %s: %w", exp.ConversationID, err)
		}

		for _, msg := range messages {
			row := []string{
				exp.ConversationID,
				exp.Role,
				msg.SenderID,
				msg.Text,
				msg.Timestamp.UTC().Format(time.RFC3339Nano),
				msg.Origin,
				speakerType(msg),
			}

			if err = writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	writer.Flush()

	return writer.Error()
}

// speakerType labels a row "ai" when the sender id is one of the registered
// role names or the message originated from the assistant.
func speakerType(msg store.Message) string {
	if msg.Origin == store.OriginAssistant || roles.IsRegistered(msg.SenderID) {
		return "ai"
	}

	return "user"
}
