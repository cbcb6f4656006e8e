// internal/repository/redis/draft_store.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"dealdesk-service/internal/domain/deal"
	xerrors "dealdesk-service/internal/pkg/errors"

	goredis "github.com/redis/go-redis/v9"
)

// DraftStore keeps deal drafts as JSON blobs. Each merchant has an index set
// of draft ids so drafts can be listed without scanning the keyspace.
type DraftStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewDraftStore(client goredis.UniversalClient, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

func draftKey(merchantID int64, draftID string) string {
	return fmt.Sprintf("deal:draft:%d:%s", merchantID, draftID)
}

func indexKey(merchantID int64) string {
	return fmt.Sprintf("deal:drafts:%d", merchantID)
}

// Save writes the draft and refreshes its TTL.
func (s *DraftStore) Save(ctx context.Context, d *deal.DealDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, draftKey(d.MerchantID, d.ID), data, s.ttl)
	pipe.SAdd(ctx, indexKey(d.MerchantID), d.ID)
	pipe.Expire(ctx, indexKey(d.MerchantID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

func (s *DraftStore) Get(ctx context.Context, merchantID int64, draftID string) (*deal.DealDraft, error) {
	data, err := s.client.Get(ctx, draftKey(merchantID, draftID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return decodeDraft(data)
}

func decodeDraft(data []byte) (*deal.DealDraft, error) {
	var d deal.DealDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &d, nil
}

// List returns the merchant's drafts, most recently updated first. Index
// entries whose draft has expired are pruned.
func (s *DraftStore) List(ctx context.Context, merchantID int64) ([]deal.DealDraft, error) {
	ids, err := s.client.SMembers(ctx, indexKey(merchantID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	if len(ids) == 0 {
		return []deal.DealDraft{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = draftKey(merchantID, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load drafts: %w", err)
	}

	drafts := make([]deal.DealDraft, 0, len(values))
	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var d deal.DealDraft
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft %s: %w", ids[i], err)
		}
		drafts = append(drafts, d)
	}

	if len(stale) > 0 {
		// Best effort; a failure only leaves dangling ids for the next call.
		_ = s.client.SRem(ctx, indexKey(merchantID), stale...).Err()
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].UpdatedAt.After(drafts[j].UpdatedAt)
	})
	return drafts, nil
}

func (s *DraftStore) Delete(ctx context.Context, merchantID int64, draftID string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, draftKey(merchantID, draftID))
	pipe.SRem(ctx, indexKey(merchantID), draftID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if del.Val() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Claim atomically removes the draft and returns it. A second claim of the
// same draft gets ErrNotFound.
func (s *DraftStore) Claim(ctx context.Context, merchantID int64, draftID string) (*deal.DealDraft, error) {
	pipe := s.client.TxPipeline()
	get := pipe.GetDel(ctx, draftKey(merchantID, draftID))
	pipe.SRem(ctx, indexKey(merchantID), draftID)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("failed to claim draft: %w", err)
	}

	data, err := get.Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim draft: %w", err)
	}
	return decodeDraft(data)
}
