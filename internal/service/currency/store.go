package currency

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Store 조회한 환율을 보관합니다. 만료 여부는 Cache가 FetchedAt과 TTL로 판단합니다.
type Store interface {
	// Get 저장된 환율을 반환합니다. 없으면 (nil, false, nil)입니다.
	Get(ctx context.Context, base string) (*Rates, bool, error)

	// Set 환율을 저장합니다. ttl은 저장소가 스스로 정리할 수 있을 때 사용하는 보관 기간입니다.
	Set(ctx context.Context, rates *Rates, ttl time.Duration) error
}

// MemoryStore 프로세스 메모리에 환율을 보관하는 Store입니다.
type MemoryStore struct {
	mu    sync.RWMutex
	rates map[string]*Rates
}

// NewMemoryStore 새로운 MemoryStore를 생성합니다.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rates: make(map[string]*Rates)}
}

func (s *MemoryStore) Get(_ context.Context, base string) (*Rates, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rates[base]
	if !ok {
		return nil, false, nil
	}
	return r.clone(), true, nil
}

func (s *MemoryStore) Set(_ context.Context, rates *Rates, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rates[rates.Base] = rates.clone()
	return nil
}

// RedisStore Redis에 환율을 보관하는 Store입니다. 여러 인스턴스가 같은 환율을 공유할 때 사용합니다.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// DefaultRedisKeyPrefix 환율 키의 기본 접두사입니다.
const DefaultRedisKeyPrefix = "nordexplore:rates:"

// NewRedisStore 주어진 Redis 클라이언트를 사용하는 RedisStore를 생성합니다.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisClient redis:// 형식의 URL로 Redis 클라이언트를 생성하고 연결을 확인합니다.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "Redis URL 형식이 올바르지 않습니다")
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(err, apperrors.System, "Redis 서버에 연결할 수 없습니다")
	}
	return client, nil
}

func (s *RedisStore) key(base string) string {
	return s.prefix + base
}

func (s *RedisStore) Get(ctx context.Context, base string) (*Rates, bool, error) {
	data, err := s.client.Get(ctx, s.key(base)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, apperrors.System, "Redis에서 환율을 읽지 못했습니다")
	}

	var r Rates
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.ParsingFailed, "저장된 환율 형식이 올바르지 않습니다")
	}
	return &r, true, nil
}

func (s *RedisStore) Set(ctx context.Context, rates *Rates, ttl time.Duration) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "환율 직렬화에 실패하였습니다")
	}
	if err := s.client.Set(ctx, s.key(rates.Base), data, ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "Redis에 환율을 저장하지 못했습니다")
	}
	return nil
}
