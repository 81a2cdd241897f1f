package advisorystore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/agromitra/advisory-engine/internal/domain/advisory"
)

// ValkeyStore keeps advisory contexts in a Valkey-compatible database so
// follow-up questions survive process restarts. TTL handling is delegated
// to the server.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "advisory"
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// Save implements advisory.ContextStore.
func (s *ValkeyStore) Save(ctx context.Context, record advisory.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	ttl := s.ttl
	if ttl < time.Second {
		ttl = time.Second
	}
	cmd := s.client.B().Set().Key(s.recordKey(record.ID)).Value(string(payload)).Ex(ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

// Get implements advisory.ContextStore.
func (s *ValkeyStore) Get(ctx context.Context, id string) (advisory.Record, bool, error) {
	cmd := s.client.B().Get().Key(s.recordKey(id)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return advisory.Record{}, false, nil
		}
		return advisory.Record{}, false, err
	}
	var record advisory.Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return advisory.Record{}, false, err
	}
	return record, true, nil
}

func (s *ValkeyStore) recordKey(id string) string {
	return s.prefix + ":ctx:" + id
}

var _ advisory.ContextStore = (*ValkeyStore)(nil)
