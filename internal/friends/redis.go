package friends

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/furnet-labs/furnet/internal/apperrors"
)

// RedisStore persists friend records in redis, one key per unique_id under
// a common prefix.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "friends"
	}

	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) Get(ctx context.Context, uniqueID string) (Friend, bool, error) {
	raw, err := s.client.Get(ctx, s.key(uniqueID)).Bytes()
	if err == redis.Nil {
		return Friend{}, false, nil
	}
	if err != nil {
		return Friend{}, false, apperrors.Internal(
			fmt.Sprintf("redis read failed for friend %q", uniqueID), err)
	}

	var friend Friend
	if err := json.Unmarshal(raw, &friend); err != nil {
		return Friend{}, false, apperrors.Internal(
			fmt.Sprintf("stored friend %q is not valid JSON", uniqueID), err)
	}

	return friend, true, nil
}

func (s *RedisStore) Put(ctx context.Context, friend Friend) error {
	raw, err := json.Marshal(friend)
	if err != nil {
		return apperrors.Internal(
			fmt.Sprintf("failed to marshal friend %q", friend.UniqueID), err)
	}

	// Friend records have no TTL: they live until explicitly removed.
	if err := s.client.Set(ctx, s.key(friend.UniqueID), raw, 0).Err(); err != nil {
		return apperrors.Internal(
			fmt.Sprintf("redis write failed for friend %q", friend.UniqueID), err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, uniqueID string) (bool, error) {
	removed, err := s.client.Del(ctx, s.key(uniqueID)).Result()
	if err != nil {
		return false, apperrors.Internal(
			fmt.Sprintf("redis delete failed for friend %q", uniqueID), err)
	}

	return removed > 0, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Friend, error) {
	keys, err := s.client.Keys(ctx, s.prefix+":*").Result()
	if err != nil {
		return nil, apperrors.Internal("redis key listing failed", err)
	}

	friends := make([]Friend, 0, len(keys))
	for _, key := range keys {
		raw, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			// Key expired or was removed between Keys and Get.
			continue
		}

		var friend Friend
		if err := json.Unmarshal(raw, &friend); err != nil {
			continue
		}

		friends = append(friends, friend)
	}

	// Redis key order is arbitrary; order by registration time for a
	// stable display, matching the memory store's insertion order.
	sort.Slice(friends, func(i, j int) bool {
		if friends[i].ConnectedAt.Equal(friends[j].ConnectedAt) {
			return strings.Compare(friends[i].UniqueID, friends[j].UniqueID) < 0
		}
		return friends[i].ConnectedAt.Before(friends[j].ConnectedAt)
	})

	return friends, nil
}

func (s *RedisStore) key(uniqueID string) string {
	return s.prefix + ":" + uniqueID
}
