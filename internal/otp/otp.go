// Package otp stores one-time passwords in Redis.
package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrMismatch = errors.New("otp: missing, expired or wrong code")

// verifyScript compares and consumes the code in one round trip, so two
// concurrent confirms cannot both succeed. Wrong guesses are counted next to
// the code and burn it once ARGV[2] is reached.
var verifyScript = redis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if not stored then
	return 0
end
if stored == ARGV[1] then
	redis.call("DEL", KEYS[1], KEYS[2])
	return 1
end
local attempts = redis.call("INCR", KEYS[2])
if attempts == 1 then
	local ttl = redis.call("PTTL", KEYS[1])
	if ttl > 0 then
		redis.call("PEXPIRE", KEYS[2], ttl)
	end
end
if attempts >= tonumber(ARGV[2]) then
	redis.call("DEL", KEYS[1], KEYS[2])
end
return 0
`)

type Store struct {
	rdb         *redis.Client
	ttl         time.Duration
	opTimeout   time.Duration
	maxAttempts int
}

func NewStore(rdb *redis.Client, ttl, opTimeout time.Duration, maxAttempts int) *Store {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Store{
		rdb:         rdb,
		ttl:         ttl,
		opTimeout:   opTimeout,
		maxAttempts: maxAttempts,
	}
}

func key(purpose, subject string) string {
	return fmt.Sprintf("otp_%s_%s", subject, purpose)
}

func attemptsKey(purpose, subject string) string {
	return key(purpose, subject) + "_attempts"
}

// Save replaces any outstanding code for the same purpose and subject and
// resets its attempt counter.
func (s *Store) Save(ctx context.Context, purpose, subject, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key(purpose, subject), code, s.ttl)
		pipe.Del(ctx, attemptsKey(purpose, subject))
		return nil
	})
	return err
}

// Verify consumes the code when it matches. After maxAttempts wrong guesses
// the code is discarded and a new one has to be requested.
func (s *Store) Verify(ctx context.Context, purpose, subject, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	keys := []string{key(purpose, subject), attemptsKey(purpose, subject)}
	ok, err := verifyScript.Run(ctx, s.rdb, keys, code, s.maxAttempts).Int()
	if err != nil {
		return err
	}
	if ok != 1 {
		return ErrMismatch
	}
	return nil
}
