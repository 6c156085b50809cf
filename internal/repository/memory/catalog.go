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

type clientRepo struct{ s *Store }

func (s *Store) Clients() repository.ClientRepository { return &clientRepo{s: s} }

func (r *clientRepo) unique(client *model.Client) error {
	for id, existing := range r.s.clients {
		if id == client.ID {
			continue
		}
		if existing.FiscalID == client.FiscalID {
			return repository.ErrDuplicate
		}
		if client.Email != nil && existing.Email != nil && strings.EqualFold(*existing.Email, *client.Email) {
			return repository.ErrDuplicate
		}
	}
	return nil
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	return r.s.do(ctx, func() error {
		if client.ID == uuid.Nil {
			client.ID = uuid.New()
		}
		if err := r.unique(client); err != nil {
			return err
		}
		now := time.Now()
		client.CreatedAt, client.UpdatedAt = now, now
		r.s.clients[client.ID] = *client
		return nil
	})
}

func (r *clientRepo) Update(ctx context.Context, client *model.Client) error {
	return r.s.do(ctx, func() error {
		if _, ok := r.s.clients[client.ID]; !ok {
			return repository.ErrNotFound
		}
		if err := r.unique(client); err != nil {
			return err
		}
		client.UpdatedAt = time.Now()
		r.s.clients[client.ID] = *client
		return nil
	})
}

func (r *clientRepo) find(ctx context.Context, match func(model.Client) bool) (*model.Client, error) {
	var out *model.Client
	err := r.s.do(ctx, func() error {
		for _, c := range r.s.clients {
			if match(c) {
				c := c
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *clientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	return r.find(ctx, func(c model.Client) bool { return c.ID == id })
}

func (r *clientRepo) FindByFiscalID(ctx context.Context, fiscalID string) (*model.Client, error) {
	return r.find(ctx, func(c model.Client) bool { return c.FiscalID == fiscalID })
}

func (r *clientRepo) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	return r.find(ctx, func(c model.Client) bool { return c.Email != nil && strings.EqualFold(*c.Email, email) })
}

func (r *clientRepo) List(ctx context.Context, page, limit int, search string) ([]model.Client, int64, error) {
	var matched []model.Client
	_ = r.s.do(ctx, func() error {
		q := strings.ToLower(search)
		for _, c := range r.s.clients {
			if q == "" || strings.Contains(strings.ToLower(c.Name), q) ||
				strings.Contains(strings.ToLower(c.FiscalID), q) || strings.Contains(c.Phone, q) {
				matched = append(matched, c)
			}
		}
		return nil
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, page, limit), int64(len(matched)), nil
}

type inventoryRepo struct{ s *Store }

func (s *Store) Inventory() repository.InventoryRepository { return &inventoryRepo{s: s} }

func (r *inventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.s.do(ctx, func() error {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		for _, existing := range r.s.inventory {
			if existing.SKU == item.SKU {
				return repository.ErrDuplicate
			}
		}
		now := time.Now()
		item.CreatedAt, item.UpdatedAt = now, now
		r.s.inventory[item.ID] = *item
		return nil
	})
}

func (r *inventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	return r.s.do(ctx, func() error {
		if _, ok := r.s.inventory[item.ID]; !ok {
			return repository.ErrNotFound
		}
		for id, existing := range r.s.inventory {
			if id != item.ID && existing.SKU == item.SKU {
				return repository.ErrDuplicate
			}
		}
		item.UpdatedAt = time.Now()
		r.s.inventory[item.ID] = *item
		return nil
	})
}

func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.do(ctx, func() error {
		if _, ok := r.s.inventory[id]; !ok {
			return repository.ErrNotFound
		}
		delete(r.s.inventory, id)
		return nil
	})
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var out *model.InventoryItem
	err := r.s.do(ctx, func() error {
		item, ok := r.s.inventory[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &item
		return nil
	})
	return out, err
}

func (r *inventoryRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	return r.FindByID(ctx, id)
}

func (r *inventoryRepo) FindBySKU(ctx context.Context, sku string) (*model.InventoryItem, error) {
	var out *model.InventoryItem
	err := r.s.do(ctx, func() error {
		for _, item := range r.s.inventory {
			if item.SKU == sku {
				item := item
				out = &item
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *inventoryRepo) List(ctx context.Context, page, limit int, search string) ([]model.InventoryItem, int64, error) {
	var matched []model.InventoryItem
	_ = r.s.do(ctx, func() error {
		q := strings.ToLower(search)
		for _, item := range r.s.inventory {
			if q == "" || strings.Contains(strings.ToLower(item.Name), q) || strings.Contains(strings.ToLower(item.SKU), q) {
				matched = append(matched, item)
			}
		}
		return nil
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (r *inventoryRepo) ListLowStock(ctx context.Context) ([]model.InventoryItem, error) {
	var low []model.InventoryItem
	_ = r.s.do(ctx, func() error {
		for _, item := range r.s.inventory {
			if item.IsLowStock() {
				low = append(low, item)
			}
		}
		return nil
	})
	sort.Slice(low, func(i, j int) bool { return low[i].Quantity < low[j].Quantity })
	return low, nil
}

func (r *inventoryRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.s.do(ctx, func() error {
		item, ok := r.s.inventory[id]
		if !ok {
			return repository.ErrNotFound
		}
		item.Quantity = quantity
		item.UpdatedAt = time.Now()
		r.s.inventory[id] = item
		return nil
	})
}

type movementRepo struct{ s *Store }

func (s *Store) Movements() repository.InventoryMovementRepository { return &movementRepo{s: s} }

func (r *movementRepo) Create(ctx context.Context, movement *model.InventoryMovement) error {
	return r.s.do(ctx, func() error {
		if movement.ID == uuid.Nil {
			movement.ID = uuid.New()
		}
		if movement.CreatedAt.IsZero() {
			movement.CreatedAt = time.Now()
		}
		r.s.movements = append(r.s.movements, *movement)
		return nil
	})
}

func (r *movementRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.InventoryMovement, error) {
	var out []model.InventoryMovement
	_ = r.s.do(ctx, func() error {
		for i := len(r.s.movements) - 1; i >= 0; i-- {
			if r.s.movements[i].InventoryItemID == itemID {
				out = append(out, r.s.movements[i])
			}
		}
		return nil
	})
	return out, nil
}

type taxonomyRepo struct{ s *Store }

func (s *Store) Taxonomy() repository.TaxonomyRepository { return &taxonomyRepo{s: s} }

func (r *taxonomyRepo) Create(ctx context.Context, value *model.TaxonomyValue) error {
	return r.s.do(ctx, func() error {
		for _, existing := range r.s.taxonomy {
			if existing.Kind == value.Kind && existing.NormalizedValue == value.NormalizedValue {
				return repository.ErrDuplicate
			}
		}
		if value.ID == uuid.Nil {
			value.ID = uuid.New()
		}
		value.CreatedAt = time.Now()
		r.s.taxonomy = append(r.s.taxonomy, *value)
		return nil
	})
}

func (r *taxonomyRepo) FindByNormalized(ctx context.Context, kind model.TaxonomyKind, normalized string) (*model.TaxonomyValue, error) {
	var out *model.TaxonomyValue
	err := r.s.do(ctx, func() error {
		for _, v := range r.s.taxonomy {
			if v.Kind == kind && v.NormalizedValue == normalized {
				v := v
				out = &v
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *taxonomyRepo) List(ctx context.Context, kind model.TaxonomyKind) ([]model.TaxonomyValue, error) {
	var out []model.TaxonomyValue
	_ = r.s.do(ctx, func() error {
		for _, v := range r.s.taxonomy {
			if v.Kind == kind {
				out = append(out, v)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}
