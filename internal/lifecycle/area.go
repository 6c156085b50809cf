// Package lifecycle holds the work-order state rules: which statuses are legal
// in which area, how budgets are totalled, and which side effects a change
// implies. Nothing in here performs I/O.
package lifecycle

import "repairshop/internal/model"

var legalStatuses = map[model.Area][]model.Status{
	model.AreaServiceRequests: {
		model.StatusRequestPending,
		model.StatusCancelled,
	},
	model.AreaIntake: {
		model.StatusPendingDiagnosis,
		model.StatusInProgress,
		model.StatusWaitingForParts,
		model.StatusAwaitingApproval,
		model.StatusCancelled,
	},
	model.AreaReadyForPickup: {
		model.StatusRepaired,
		model.StatusNoSolutionFound,
	},
	model.AreaCompletedHistory: {
		model.StatusDelivered,
		model.StatusInStorage,
	},
}

var statusLabels = map[model.Status]string{
	model.StatusRequestPending:   "Request pending",
	model.StatusCancelled:        "Cancelled",
	model.StatusPendingDiagnosis: "Pending diagnosis",
	model.StatusInProgress:       "In progress",
	model.StatusWaitingForParts:  "Waiting for parts",
	model.StatusAwaitingApproval: "Awaiting approval",
	model.StatusRepaired:         "Repaired",
	model.StatusNoSolutionFound:  "No solution found",
	model.StatusDelivered:        "Delivered",
	model.StatusInStorage:        "In storage",
}

var areaLabels = map[model.Area]string{
	model.AreaServiceRequests:  "Service requests",
	model.AreaIntake:           "Intake",
	model.AreaReadyForPickup:   "Ready for pickup",
	model.AreaCompletedHistory: "Completed history",
}

// Areas returns every area in board order.
func Areas() []model.Area {
	return []model.Area{
		model.AreaServiceRequests,
		model.AreaIntake,
		model.AreaReadyForPickup,
		model.AreaCompletedHistory,
	}
}

// LegalStatuses returns a copy of the statuses allowed in area, or nil for an
// unknown area.
func LegalStatuses(area model.Area) []model.Status {
	statuses, ok := legalStatuses[area]
	if !ok {
		return nil
	}
	out := make([]model.Status, len(statuses))
	copy(out, statuses)
	return out
}

// IsLegal reports whether status belongs to area's legal set.
func IsLegal(area model.Area, status model.Status) bool {
	for _, s := range legalStatuses[area] {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidArea(area model.Area) bool {
	_, ok := legalStatuses[area]
	return ok
}

func IsValidStatus(status model.Status) bool {
	_, ok := statusLabels[status]
	return ok
}

// DefaultPlacement is where a new work order lands when the caller gives no
// area or status.
func DefaultPlacement() (model.Area, model.Status) {
	return model.AreaIntake, model.StatusPendingDiagnosis
}

func StatusLabel(status model.Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

func AreaLabel(area model.Area) string {
	if label, ok := areaLabels[area]; ok {
		return label
	}
	return string(area)
}

// isResolved covers statuses reached once repair work is finished.
func isResolved(status model.Status) bool {
	switch status {
	case model.StatusRepaired, model.StatusNoSolutionFound, model.StatusDelivered, model.StatusInStorage:
		return true
	}
	return false
}
