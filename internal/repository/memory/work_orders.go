package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"repairshop/internal/model"
	"repairshop/internal/repository"
)

type workOrderRepo struct{ s *Store }

func (s *Store) WorkOrders() repository.WorkOrderRepository { return &workOrderRepo{s: s} }

func (r *workOrderRepo) Create(ctx context.Context, order *model.WorkOrder) error {
	return r.s.do(ctx, func() error {
		if order.ID == uuid.Nil {
			order.ID = uuid.New()
		}
		for _, existing := range r.s.workOrders {
			if existing.DisplayID == order.DisplayID {
				return repository.ErrDuplicate
			}
			if order.ScheduledServiceID != nil && existing.ScheduledServiceID != nil &&
				*existing.ScheduledServiceID == *order.ScheduledServiceID {
				return repository.ErrDuplicate
			}
		}
		now := time.Now()
		if order.CreatedAt.IsZero() {
			order.CreatedAt = now
		}
		if order.UpdatedAt.IsZero() {
			order.UpdatedAt = now
		}
		r.s.workOrders[order.ID] = order.Clone()
		return nil
	})
}

func (r *workOrderRepo) Update(ctx context.Context, order *model.WorkOrder) error {
	return r.s.do(ctx, func() error {
		if _, ok := r.s.workOrders[order.ID]; !ok {
			return repository.ErrNotFound
		}
		r.s.workOrders[order.ID] = order.Clone()
		return nil
	})
}

func (r *workOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.do(ctx, func() error {
		if _, ok := r.s.workOrders[id]; !ok {
			return repository.ErrNotFound
		}
		delete(r.s.workOrders, id)
		return nil
	})
}

func (r *workOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var out *model.WorkOrder
	err := r.s.do(ctx, func() error {
		order, ok := r.s.workOrders[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := order.Clone()
		out = &c
		return nil
	})
	return out, err
}

// FindByIDForUpdate needs no row lock here: units of work already hold the store.
func (r *workOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	return r.FindByID(ctx, id)
}

func (r *workOrderRepo) FindByScheduledServiceID(ctx context.Context, serviceID uuid.UUID) (*model.WorkOrder, error) {
	var out *model.WorkOrder
	err := r.s.do(ctx, func() error {
		for _, order := range r.s.workOrders {
			if order.ScheduledServiceID != nil && *order.ScheduledServiceID == serviceID {
				c := order.Clone()
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *workOrderRepo) List(ctx context.Context, filter repository.WorkOrderFilter, page, limit int) ([]model.WorkOrder, int64, error) {
	var matched []model.WorkOrder
	err := r.s.do(ctx, func() error {
		search := strings.ToLower(filter.Search)
		for _, order := range r.s.workOrders {
			if filter.Area != "" && order.Area != filter.Area {
				continue
			}
			if filter.Status != "" && order.Status != filter.Status {
				continue
			}
			if filter.ClientID != nil && order.ClientID != *filter.ClientID {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(order.DisplayID), search) &&
				!strings.Contains(strings.ToLower(order.EquipmentSerial), search) &&
				!strings.Contains(strings.ToLower(order.ClientName), search) {
				continue
			}
			matched = append(matched, order.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].DisplayID > matched[j].DisplayID
	})
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (r *workOrderRepo) UpdateClientFields(ctx context.Context, clientID uuid.UUID, name, phone string) error {
	return r.s.do(ctx, func() error {
		for id, order := range r.s.workOrders {
			if order.ClientID == clientID {
				order.ClientName = name
				order.ClientPhone = phone
				r.s.workOrders[id] = order
			}
		}
		return nil
	})
}

type sequenceRepo struct{ s *Store }

func (s *Store) Sequences() repository.SequenceRepository { return &sequenceRepo{s: s} }

func (r *sequenceRepo) Next(ctx context.Context, name string, start int64) (int64, error) {
	var next int64
	err := r.s.do(ctx, func() error {
		current, ok := r.s.sequences[name]
		if !ok {
			current = start - 1
		}
		next = current + 1
		r.s.sequences[name] = next
		return nil
	})
	return next, err
}
