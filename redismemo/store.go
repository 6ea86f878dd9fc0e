// Package redismemo stores memoized callback results in Redis, so that several
// app instances share one memo.
package redismemo

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jackielii/dashpages"
	"github.com/jackielii/dashpages/ui"
)

const defaultPrefix = "dash_memo:"

func init() {
	// Concrete types that callback results and layout props are built from.
	gob.Register(ui.Figure{})
	gob.Register(&ui.Node{})
	gob.Register([]*ui.Node{})
	gob.Register([]ui.Option{})
	gob.Register(map[string]string{})
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// Store is a dashpages.MemoStore backed by Redis. Values are gob encoded, so
// custom types returned by callbacks must be registered with gob.Register.
type Store struct {
	rdb    goredis.Cmdable
	prefix string
}

var _ dashpages.MemoStore = (*Store)(nil)

type Option func(*Store)

// WithPrefix sets the key prefix, "dash_memo:" by default.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

func New(rdb goredis.Cmdable, opts ...Option) *Store {
	s := &Store{rdb: rdb, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewClient connects to the Redis server at redisURL and pings it.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// key bounds the size of Redis keys; memo keys embed serialized arguments.
func (s *Store) key(k string) string {
	sum := sha256.Sum256([]byte(k))
	return s.prefix + hex.EncodeToString(sum[:])
}

func (s *Store) Get(ctx context.Context, key string) ([]any, bool, error) {
	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	v, err := decode(data)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []any, ttl time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func encode(v []any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, fmt.Errorf("encode memo value: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) ([]any, error) {
	var v []any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode memo value: %w", err)
	}
	return v, nil
}
