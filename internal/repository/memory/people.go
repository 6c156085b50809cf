package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"repairshop/internal/model"
	"repairshop/internal/repository"
)

type scheduledRepo struct{ s *Store }

func (s *Store) ScheduledServices() repository.ScheduledServiceRepository {
	return &scheduledRepo{s: s}
}

func (r *scheduledRepo) Create(ctx context.Context, svc *model.ScheduledService) error {
	return r.s.do(ctx, func() error {
		if svc.ID == uuid.Nil {
			svc.ID = uuid.New()
		}
		now := time.Now()
		if svc.CreatedAt.IsZero() {
			svc.CreatedAt = now
		}
		svc.UpdatedAt = now
		r.s.scheduled[svc.ID] = *svc
		return nil
	})
}

func (r *scheduledRepo) Update(ctx context.Context, svc *model.ScheduledService) error {
	return r.s.do(ctx, func() error {
		if _, ok := r.s.scheduled[svc.ID]; !ok {
			return repository.ErrNotFound
		}
		r.s.scheduled[svc.ID] = *svc
		return nil
	})
}

func (r *scheduledRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.do(ctx, func() error {
		if _, ok := r.s.scheduled[id]; !ok {
			return repository.ErrNotFound
		}
		delete(r.s.scheduled, id)
		return nil
	})
}

func (r *scheduledRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ScheduledService, error) {
	var out *model.ScheduledService
	err := r.s.do(ctx, func() error {
		svc, ok := r.s.scheduled[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &svc
		return nil
	})
	return out, err
}

func (r *scheduledRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ScheduledService, error) {
	return r.FindByID(ctx, id)
}

func (r *scheduledRepo) List(ctx context.Context, filter repository.ScheduledServiceFilter, page, limit int) ([]model.ScheduledService, int64, error) {
	var matched []model.ScheduledService
	_ = r.s.do(ctx, func() error {
		for _, svc := range r.s.scheduled {
			if filter.Status != "" && svc.Status != filter.Status {
				continue
			}
			if filter.ClientID != nil && svc.ClientID != *filter.ClientID {
				continue
			}
			matched = append(matched, svc)
		}
		return nil
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, page, limit), int64(len(matched)), nil
}

type notificationRepo struct{ s *Store }

func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepo{s: s} }

func sameAudience(n model.Notification, audience model.Audience, clientID *uuid.UUID) bool {
	if n.Audience != audience {
		return false
	}
	if clientID == nil {
		return true
	}
	return n.ClientID != nil && *n.ClientID == *clientID
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.s.do(ctx, func() error {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		r.s.notes = append(r.s.notes, *n)
		return nil
	})
}

func (r *notificationRepo) List(ctx context.Context, filter repository.NotificationFilter, page, limit int) ([]model.Notification, int64, error) {
	var matched []model.Notification
	_ = r.s.do(ctx, func() error {
		// newest first
		for i := len(r.s.notes) - 1; i >= 0; i-- {
			n := r.s.notes[i]
			if !sameAudience(n, filter.Audience, filter.ClientID) {
				continue
			}
			if filter.UnreadOnly && n.Read {
				continue
			}
			matched = append(matched, n)
		}
		return nil
	})
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, audience model.Audience, clientID *uuid.UUID) (int64, error) {
	var count int64
	_ = r.s.do(ctx, func() error {
		for _, n := range r.s.notes {
			if !n.Read && sameAudience(n, audience, clientID) {
				count++
			}
		}
		return nil
	})
	return count, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID, audience model.Audience, clientID *uuid.UUID) error {
	return r.s.do(ctx, func() error {
		for i := range r.s.notes {
			if r.s.notes[i].ID == id && sameAudience(r.s.notes[i], audience, clientID) {
				r.s.notes[i].Read = true
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, audience model.Audience, clientID *uuid.UUID) error {
	return r.s.do(ctx, func() error {
		for i := range r.s.notes {
			if sameAudience(r.s.notes[i], audience, clientID) {
				r.s.notes[i].Read = true
			}
		}
		return nil
	})
}

type userRepo struct{ s *Store }

func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.s.do(ctx, func() error {
		for _, existing := range r.s.users {
			if existing.Username == user.Username || existing.Email == user.Email {
				return repository.ErrDuplicate
			}
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		now := time.Now()
		user.CreatedAt, user.UpdatedAt = now, now
		r.s.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) find(ctx context.Context, match func(model.User) bool) (*model.User, error) {
	var out *model.User
	err := r.s.do(ctx, func() error {
		for _, u := range r.s.users {
			if match(u) {
				u := u
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return u.ID.String() == id })
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return u.Email == email })
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return u.Username == username })
}

func (r *userRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var all []model.User
	_ = r.s.do(ctx, func() error {
		for _, u := range r.s.users {
			all = append(all, u)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return paginate(all, page, limit), int64(len(all)), nil
}

type auditRepo struct{ s *Store }

func (s *Store) Audit() repository.AuditRepository { return &auditRepo{s: s} }

func (r *auditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	return r.s.do(ctx, func() error {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		r.s.audit = append(r.s.audit, *entry)
		return nil
	})
}

func (r *auditRepo) List(ctx context.Context, entityID string, page, limit int) ([]model.AuditLog, int64, error) {
	var matched []model.AuditLog
	_ = r.s.do(ctx, func() error {
		for i := len(r.s.audit) - 1; i >= 0; i-- {
			if entityID == "" || r.s.audit[i].EntityID == entityID {
				matched = append(matched, r.s.audit[i])
			}
		}
		return nil
	})
	return paginate(matched, page, limit), int64(len(matched)), nil
}
