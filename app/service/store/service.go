package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"groupexp/app/config"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Service struct {
	db *gorm.DB
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if dir := filepath.Dir(cfg.DB.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	return Open(cfg.DB.Path)
}

func Open(path string) (*Service, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.AutoMigrate(&Experiment{}, &Message{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Service{db: db}, nil
}

// GetExperiment returns the experiment record for the conversation, or nil
// when no experiment has been started.
func (s *Service) GetExperiment(ctx context.Context, conversationID string) (*Experiment, error) {
	var exp Experiment

	err := s.db.WithContext(ctx).First(&exp, "conversation_id = ?", conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load experiment: %w", err)
	}

	return &exp, nil
}

// CreateExperiment creates or overwrites the experiment record, resetting the
// pending counter. Prior messages of the conversation are kept.
func (s *Service) CreateExperiment(ctx context.Context, conversationID, role string) error {
	exp := Experiment{
		ConversationID: conversationID,
		Role:           role,
		CreatedAt:      time.Now(),
		PendingCount:   0,
	}

	if err := s.db.WithContext(ctx).Save(&exp).Error; err != nil {
		return fmt.Errorf("failed to save experiment: %w", err)
	}

	return nil
}

func (s *Service) AppendMessage(ctx context.Context, msg Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	return nil
}

// LastMessages returns the most recent n messages in ascending chronological
// order. Rows are fetched newest-first and reversed; the row id breaks ties
// between equal timestamps.
func (s *Service) LastMessages(ctx context.Context, conversationID string, n int) ([]Message, error) {
	var messages []Message

	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(n).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	return pie.Reverse(messages), nil
}

func (s *Service) SetPendingCount(ctx context.Context, conversationID string, value int) error {
	err := s.db.WithContext(ctx).
		Model(&Experiment{}).
		Where("conversation_id = ?", conversationID).
		Update("pending_count", value).Error
	if err != nil {
		return fmt.Errorf("failed to update pending count: %w", err)
	}

	return nil
}

// ListExperiments returns every experiment ordered by conversation id, for
// the export job.
func (s *Service) ListExperiments(ctx context.Context) ([]Experiment, error) {
	var experiments []Experiment

	err := s.db.WithContext(ctx).
		Order("conversation_id ASC").
		Find(&experiments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}

	return experiments, nil
}

// Messages returns the conversation's full transcript in ascending
// chronological order.
func (s *Service) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	var messages []Message

	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	return messages, nil
}
