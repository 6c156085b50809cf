package lifecycle

import "repairshop/internal/model"

var scheduledTransitions = map[model.ScheduledServiceStatus][]model.ScheduledServiceStatus{
	model.ScheduledPending: {
		model.ScheduledInProgress,
		model.ScheduledCancelled,
		model.ScheduledConverted,
	},
	model.ScheduledInProgress: {
		model.ScheduledCompleted,
		model.ScheduledCancelled,
		model.ScheduledConverted,
	},
}

func IsValidScheduledStatus(status model.ScheduledServiceStatus) bool {
	switch status {
	case model.ScheduledPending, model.ScheduledInProgress, model.ScheduledCompleted,
		model.ScheduledCancelled, model.ScheduledConverted:
		return true
	}
	return false
}

// IsTerminalScheduled reports whether no further transition is possible.
func IsTerminalScheduled(status model.ScheduledServiceStatus) bool {
	return len(scheduledTransitions[status]) == 0
}

// CanTransitionScheduled reports whether from -> to is allowed. Staying in the
// same status is always allowed.
func CanTransitionScheduled(from, to model.ScheduledServiceStatus) bool {
	if from == to {
		return true
	}
	for _, next := range scheduledTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanConvert reports whether a service in this status may become a work order.
func CanConvert(status model.ScheduledServiceStatus) bool {
	return status != model.ScheduledConverted && CanTransitionScheduled(status, model.ScheduledConverted)
}

// ConversionNotice announces a scheduled service promoted into order.
func ConversionNotice(order model.WorkOrder) Notice {
	return Notice{
		Audience:    model.AudienceAdmin,
		WorkOrderID: order.ID,
		Message:     "Scheduled service for " + order.ClientName + " converted into work order " + order.DisplayID + ".",
	}
}
