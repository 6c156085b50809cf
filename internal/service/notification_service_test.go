package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repairshop/internal/apperror"
	"repairshop/internal/lifecycle"
	"repairshop/internal/model"
	"repairshop/internal/repository/memory"
)

func TestNotifier_DispatchSurvivesSinkFailure(t *testing.T) {
	store := memory.NewStore()
	failing := &mockSink{}
	failing.On("Send", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	healthy := &mockSink{}
	healthy.On("Send", mock.Anything, mock.Anything).Return(nil)

	n := NewNotifier(store.Notifications(), nil, failing, healthy)
	ctx := context.Background()

	notes, err := n.Record(ctx, []lifecycle.Notice{
		{Audience: model.AudienceAdmin, WorkOrderID: uuid.New(), Message: "OT-1001 status changed"},
		{Audience: model.AudienceAdmin, Message: "Low stock"},
	})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Nil(t, notes[1].WorkOrderID)

	n.Dispatch(ctx, notes)

	failing.AssertNumberOfCalls(t, "Send", 2)
	healthy.AssertNumberOfCalls(t, "Send", 2)

	count, err := n.UnreadCount(ctx, model.AudienceAdmin, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestNotifier_ClientScope(t *testing.T) {
	store := memory.NewStore()
	n := NewNotifier(store.Notifications(), nil)
	ctx := context.Background()

	ana, luis := uuid.New(), uuid.New()
	notes, err := n.Record(ctx, []lifecycle.Notice{
		{Audience: model.AudienceClient, ClientID: &ana, Message: "Budget ready"},
		{Audience: model.AudienceClient, ClientID: &luis, Message: "Budget ready"},
	})
	require.NoError(t, err)

	list, total, err := n.List(ctx, model.AudienceClient, &ana, false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, notes[0].ID, list[0].ID)

	// Ana cannot mark Luis's notification
	err = n.MarkRead(ctx, notes[1].ID.String(), model.AudienceClient, &ana)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, n.MarkRead(ctx, notes[0].ID.String(), model.AudienceClient, &ana))
	unread, err := n.UnreadCount(ctx, model.AudienceClient, &ana)
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, n.MarkAllRead(ctx, model.AudienceClient, &luis))
	unread, err = n.UnreadCount(ctx, model.AudienceClient, &luis)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
