package service

import (
	"context"
	"errors"
	"time"

	"repairshop/internal/model"
	"repairshop/internal/repository"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

type clientCacheValue struct {
	model.Client
	error
}

// ClientDirectory serves the client display fields copied onto work orders.
type ClientDirectory struct {
	repo  repository.ClientRepository
	cache *ttlcache.Cache[uuid.UUID, clientCacheValue]
}

func NewClientDirectory(repo repository.ClientRepository, ttl time.Duration) *ClientDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ClientDirectory{
		repo: repo,
		cache: ttlcache.New(
			ttlcache.WithTTL[uuid.UUID, clientCacheValue](ttl),
			ttlcache.WithDisableTouchOnHit[uuid.UUID, clientCacheValue](),
		),
	}
}

// Start runs expiry cleanup until Stop is called.
func (d *ClientDirectory) Start() { d.cache.Start() }

func (d *ClientDirectory) Stop() { d.cache.Stop() }

func (d *ClientDirectory) Lookup(ctx context.Context, id uuid.UUID) (model.Client, error) {
	loader := ttlcache.LoaderFunc[uuid.UUID, clientCacheValue](
		func(cache *ttlcache.Cache[uuid.UUID, clientCacheValue], key uuid.UUID) *ttlcache.Item[uuid.UUID, clientCacheValue] {
			client, err := d.repo.FindByID(ctx, key)
			value := clientCacheValue{error: err}
			if client != nil {
				value.Client = *client
			}
			return cache.Set(key, value, ttlcache.DefaultTTL)
		},
	)
	v := d.cache.Get(id, ttlcache.WithLoader(loader))
	if v == nil {
		return model.Client{}, errors.New("failed to get client from cache")
	}
	if err := v.Value().error; err != nil {
		// a miss is not remembered, the client may be created right after
		d.cache.Delete(id)
		return model.Client{}, err
	}
	return v.Value().Client, nil
}

func (d *ClientDirectory) Invalidate(id uuid.UUID) {
	d.cache.Delete(id)
}
