package orchestrator

import (
	"context"

	"groupexp/app/service/assistant"
	"groupexp/app/service/store"
)

// InboundEvent is one already-parsed text message from a group conversation.
type InboundEvent struct {
	ConversationID string
	SenderID       string
	Text           string
}

// Store is the slice of the state store the orchestrator needs.
type Store interface {
	GetExperiment(ctx context.Context, conversationID string) (*store.Experiment, error)
	CreateExperiment(ctx context.Context, conversationID, role string) error
	AppendMessage(ctx context.Context, msg store.Message) error
	LastMessages(ctx context.Context, conversationID string, n int) ([]store.Message, error)
	SetPendingCount(ctx context.Context, conversationID string, value int) error
}

// Gateway produces one assistant reply for a transcript under a system prompt.
type Gateway interface {
	Complete(ctx context.Context, history []assistant.Turn, systemPrompt string) (string, error)
}

const (
	guidanceReply = "⚠️ 請先輸入指令來開始一個新實驗，例如：`@機器人 開始新實驗 AI類型`"
	failureReply  = "⚠️ AI 回應失敗，請稍後再試。"
	confirmFormat = "✅ 已成功建立新的實驗，機器人角色設定為：「%s」。請開始你的對話。"
)
