package repository

import (
	"time"

	"github.com/google/uuid"

	"repairshop/internal/model"
)

type WorkOrderFilter struct {
	Area     model.Area
	Status   model.Status
	ClientID *uuid.UUID
	// Search matches display id, serial or client name.
	Search string
}

type TransactionFilter struct {
	Type        model.TransactionType
	WorkOrderID *uuid.UUID
	From        *time.Time
	To          *time.Time
}

type ScheduledServiceFilter struct {
	Status   model.ScheduledServiceStatus
	ClientID *uuid.UUID
}

type NotificationFilter struct {
	Audience   model.Audience
	ClientID   *uuid.UUID
	UnreadOnly bool
}
