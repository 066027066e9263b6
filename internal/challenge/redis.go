// Package challenge stores pending WebAuthn ceremony state.
//
// Each username holds at most one live challenge at a time. Entries
// are single use and expire after gallery.ChallengeTTL; a new Put
// supersedes the previous entry and resets the clock.
package challenge

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	redislib "github.com/go-redis/redis"
	"github.com/pkg/errors"

	gallery "github.com/naszahistoria/gallery"
)

const keyPrefix = "challenge:"

// takeScript removes and returns a key in a single round trip so that
// concurrent consumers cannot both observe the same challenge.
const takeScript = `local v = redis.call('GET', KEYS[1])
if v then redis.call('DEL', KEYS[1]) end
return v`

// Rediser is an interface to go-redis.
type Rediser interface {
	Get(key string) *redislib.StringCmd
	Set(key string, value interface{}, expiration time.Duration) *redislib.StatusCmd
	Eval(script string, keys []string, args ...interface{}) *redislib.Cmd
	WithContext(ctx context.Context) *redislib.Client
	Close() error
}

// redisStore is a gallery.ChallengeStore backed by redis. Expiry is
// enforced by redis key TTLs.
type redisStore struct {
	logger log.Logger
	db     Rediser
	ttl    time.Duration
}

// Put stores challenge data for a username.
func (s *redisStore) Put(ctx context.Context, username string, data []byte) error {
	err := s.db.Set(keyPrefix+username, data, s.ttl).Err()
	if err != nil {
		return errors.Wrap(err, "failed to store challenge")
	}

	return nil
}

// TakeAndInvalidate atomically removes and returns the challenge data
// stored for a username.
func (s *redisStore) TakeAndInvalidate(ctx context.Context, username string) ([]byte, error) {
	v, err := s.db.Eval(takeScript, []string{keyPrefix + username}).Result()
	if err == redislib.Nil || v == nil {
		return nil, gallery.ErrChallengeExpired("challenge is expired or was already used")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to consume challenge")
	}

	str, ok := v.(string)
	if !ok {
		return nil, errors.Errorf("unexpected challenge type %T", v)
	}

	return []byte(str), nil
}
