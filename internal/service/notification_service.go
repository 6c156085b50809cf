package service

import (
	"context"
	"fmt"
	"log/slog"

	"repairshop/internal/lifecycle"
	"repairshop/internal/model"
	"repairshop/internal/repository"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// NotificationSink delivers a stored notification somewhere outside the process
// (websocket clients, an event bus). Delivery is best effort.
type NotificationSink interface {
	Send(ctx context.Context, n model.Notification) error
}

type NotificationService interface {
	List(ctx context.Context, audience model.Audience, clientID *uuid.UUID, unreadOnly bool, page, limit int) ([]model.Notification, int64, error)
	UnreadCount(ctx context.Context, audience model.Audience, clientID *uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id string, audience model.Audience, clientID *uuid.UUID) error
	MarkAllRead(ctx context.Context, audience model.Audience, clientID *uuid.UUID) error
}

// Notifier is the publish point for work-order notices. Record stores them in
// the caller's unit of work; Dispatch pushes them to the sinks after commit.
type Notifier struct {
	repo   repository.NotificationRepository
	sinks  []NotificationSink
	logger *slog.Logger
}

func NewNotifier(repo repository.NotificationRepository, logger *slog.Logger, sinks ...NotificationSink) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{repo: repo, sinks: sinks, logger: logger}
}

func (n *Notifier) Record(ctx context.Context, notices []lifecycle.Notice) ([]model.Notification, error) {
	stored := make([]model.Notification, 0, len(notices))
	for _, notice := range notices {
		workOrderID := notice.WorkOrderID
		note := model.Notification{
			ID:       uuid.New(),
			Audience: notice.Audience,
			ClientID: notice.ClientID,
			Message:  notice.Message,
		}
		if workOrderID != uuid.Nil {
			note.WorkOrderID = &workOrderID
		}
		if err := n.repo.Create(ctx, &note); err != nil {
			return nil, fmt.Errorf("failed to store notification: %w", err)
		}
		stored = append(stored, note)
	}
	return stored, nil
}

// Dispatch never fails the caller; sink errors are logged.
func (n *Notifier) Dispatch(ctx context.Context, notes []model.Notification) {
	for _, note := range notes {
		var result *multierror.Error
		for _, sink := range n.sinks {
			if err := sink.Send(ctx, note); err != nil {
				result = multierror.Append(result, err)
			}
		}
		if err := result.ErrorOrNil(); err != nil {
			n.logger.Warn("notification delivery failed",
				slog.String("notification_id", note.ID.String()),
				slog.String("audience", string(note.Audience)),
				slog.Any("error", err))
		}
	}
}

func (n *Notifier) List(ctx context.Context, audience model.Audience, clientID *uuid.UUID, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	page, limit = normalizePage(page, limit)
	return n.repo.List(ctx, repository.NotificationFilter{
		Audience:   audience,
		ClientID:   clientID,
		UnreadOnly: unreadOnly,
	}, page, limit)
}

func (n *Notifier) UnreadCount(ctx context.Context, audience model.Audience, clientID *uuid.UUID) (int64, error) {
	return n.repo.CountUnread(ctx, audience, clientID)
}

func (n *Notifier) MarkRead(ctx context.Context, id string, audience model.Audience, clientID *uuid.UUID) error {
	noteID, err := parseID("notification", id)
	if err != nil {
		return err
	}
	return lookupErr(n.repo.MarkRead(ctx, noteID, audience, clientID), "notification", id)
}

func (n *Notifier) MarkAllRead(ctx context.Context, audience model.Audience, clientID *uuid.UUID) error {
	return n.repo.MarkAllRead(ctx, audience, clientID)
}
