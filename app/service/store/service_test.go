package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Service {
	t.Helper()

	svc, err := Open(":memory:")
	require.NoError(t, err)

	return svc
}

func TestGetExperimentAbsent(t *testing.T) {
	svc := newTestStore(t)

	exp, err := svc.GetExperiment(context.Background(), "G1")
	require.NoError(t, err)
	assert.Nil(t, exp)
}

func TestCreateExperimentOverwrites(t *testing.T) {
	svc := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateExperiment(ctx, "G1", "整合型AI"))
	require.NoError(t, svc.SetPendingCount(ctx, "G1", 2))

	require.NoError(t, svc.CreateExperiment(ctx, "G1", "探究型AI"))

	exp, err := svc.GetExperiment(ctx, "G1")
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Equal(t, "探究型AI", exp.Role)
	assert.Zero(t, exp.PendingCount)
}

func TestSetPendingCount(t *testing.T) {
	svc := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateExperiment(ctx, "G1", "整合型AI"))
	require.NoError(t, svc.SetPendingCount(ctx, "G1", 2))

	exp, err := svc.GetExperiment(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, 2, exp.PendingCount)
}

func TestLastMessagesAscendingWindow(t *testing.T) {
	svc := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		require.NoError(t, svc.AppendMessage(ctx, Message{
			ConversationID: "G1",
			SenderID:       "U1",
			Text:           fmt.Sprintf("msg-%02d", i),
			Timestamp:      base.Add(time.Duration(i) * time.Second),
			Origin:         OriginUser,
		}))
	}

	msgs, err := svc.LastMessages(ctx, "G1", 20)
	require.NoError(t, err)
	require.Len(t, msgs, 20)

	assert.Equal(t, "msg-05", msgs[0].Text)
	assert.Equal(t, "msg-24", msgs[19].Text)

	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].Timestamp.Before(msgs[i-1].Timestamp),
			"timestamps must be non-decreasing")
	}
}

func TestLastMessagesTieBreakByInsertionOrder(t *testing.T) {
	svc := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, svc.AppendMessage(ctx, Message{
			ConversationID: "G1",
			SenderID:       "U1",
			Text:           text,
			Timestamp:      ts,
			Origin:         OriginUser,
		}))
	}

	msgs, err := svc.LastMessages(ctx, "G1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[0].Text)
	assert.Equal(t, "third", msgs[1].Text)
}

func TestMessagesScopedByConversation(t *testing.T) {
	svc := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, svc.AppendMessage(ctx, Message{
		ConversationID: "G1", SenderID: "U1", Text: "one", Origin: OriginUser,
	}))
	require.NoError(t, svc.AppendMessage(ctx, Message{
		ConversationID: "G2", SenderID: "U2", Text: "two", Origin: OriginUser,
	}))

	msgs, err := svc.Messages(ctx, "G1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "one", msgs[0].Text)
	assert.False(t, msgs[0].Timestamp.IsZero(), "append fills a missing timestamp")
}

func TestListExperimentsOrdered(t *testing.T) {
	svc := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"G3", "G1", "G2"} {
		require.NoError(t, svc.CreateExperiment(ctx, id, "整合型AI"))
	}

	experiments, err := svc.ListExperiments(ctx)
	require.NoError(t, err)
	require.Len(t, experiments, 3)
	assert.Equal(t, "G1", experiments[0].ConversationID)
	assert.Equal(t, "G3", experiments[2].ConversationID)
}
