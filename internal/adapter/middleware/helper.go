package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"debtsify-backend/pkg/id"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

func buildKey(method, path, requestKey string) string {
	return "idemp:debtsify:" + strings.ToLower(method) + ":" + path + ":" + requestKey
}

// validReqID accepts a canonical lowercase UUID (versions 1 to 5) or the
// 32-hex form used for entity ids.
func validReqID(key string) bool {
	if id.Valid(key) {
		return true
	}
	if len(key) != 36 || key != strings.ToLower(key) {
		return false
	}
	u, err := uuid.Parse(key)
	if err != nil {
		return false
	}
	return u.Version() >= 1 && u.Version() <= 5 && u.Variant() == uuid.RFC4122
}

// readHeaders returns the idempotency key and request time, or the reason the
// request must be refused.
func readHeaders(h http.Header, now time.Time) (string, time.Time, error) {
	key := strings.TrimSpace(h.Get(HeaderIdempotencyKey))
	if key == "" {
		return "", time.Time{}, errors.New("missing " + HeaderIdempotencyKey)
	}
	if !validReqID(key) {
		return "", time.Time{}, errors.New("invalid " + HeaderIdempotencyKey + " format")
	}
	at, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return "", time.Time{}, err
	}
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return "", time.Time{}, errors.New(HeaderRequestAt + " too skewed")
	}
	return key, at, nil
}

// parseRequestAt accepts:
//   - epoch seconds (e.g., "1736123456")
//   - epoch milliseconds (e.g., "1736123456789")
//   - RFC3339 / RFC3339Nano **with timezone** (e.g., "2025-09-05T10:00:00+07:00" or "...Z")
//
// Naive local timestamps **without** timezone are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	// RFC3339Nano also parses RFC3339; both require a zone
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

// ---- Redis store ----

type replayStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// claim stores a pending record unless the key exists. false means someone
// else holds it.
func (s *replayStore) claim(ctx context.Context, key string, rec record) (bool, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

// load returns redis.Nil when the key is absent.
func (s *replayStore) load(ctx context.Context, key string) (record, error) {
	var rec record
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return rec, err
	}
	err = json.Unmarshal(v, &rec)
	return rec, err
}

func (s *replayStore) finish(ctx context.Context, key string, rec record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s *replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
