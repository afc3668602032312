package datasource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheSource adapts a Memcache client to the Source contract.
type MemcacheSource struct {
	client *memcache.Client
}

// OpenMemcache connects to one or more Memcache servers. The DSN lists
// comma-separated host:port pairs after the scheme:
//
//	memcache://cache1:11211,cache2:11211
func OpenMemcache(dsn string) (*MemcacheSource, error) {
	hosts := strings.Split(strings.TrimPrefix(dsn, "memcache://"), ",")
	servers := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.TrimSpace(h); h != "" {
			servers = append(servers, h)
		}
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("%w: no memcache servers in %q", ErrEmptyDSN, dsn)
	}
	return &MemcacheSource{client: memcache.New(servers...)}, nil
}

func (m *MemcacheSource) Get(_ context.Context, key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func (m *MemcacheSource) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl.Seconds()),
	})
}

func (m *MemcacheSource) Delete(_ context.Context, key string) error {
	err := m.client.Delete(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}

func (m *MemcacheSource) Ping(_ context.Context) error {
	if err := m.client.Ping(); err != nil {
		return fmt.Errorf("%w: %w", ErrHealthcheck, err)
	}
	return nil
}

// Close is a no-op: the memcache client owns no persistent connections
// that need explicit teardown.
func (m *MemcacheSource) Close() error { return nil }
