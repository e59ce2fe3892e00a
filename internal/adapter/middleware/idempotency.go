package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestAt      = "X-Request-At"
	// HeaderReplayed marks a response served from the store.
	HeaderReplayed = "Idempotent-Replayed"

	// How long a claim survives when the handler never finishes (crash, timeout).
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for X-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// ---- Data types ----

// record is kept per key: a pending claim while the handler runs, then the
// final response.
type record struct {
	Pending     bool      `json:"pending"`
	Status      int       `json:"status,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	BodySHA256  string    `json:"body_sha256"`
	RequestAtMS int64     `json:"request_at_ms"`
	StoredAt    time.Time `json:"stored_at"`
}

// captureWriter tees the response so it can be stored once the handler is done.
type captureWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes a retried money movement (loan creation, pay,
// revert…) replay the first answer instead of applying twice.
// key = method + request path + Idempotency-Key.
// X-Request-At **must** be epoch (seconds or ms) OR RFC3339/RFC3339Nano **with** timezone (Z or ±HH:MM).
// Server errors are forgotten so the client may retry them under the same key.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) echo.MiddlewareFunc {
	store := &replayStore{rdb: rdb, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if safeMethod(req.Method) {
				return next(c)
			}

			reqKey, at, err := readHeaders(req.Header, nowUTC())
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			sum := bodyHash(body)

			key := buildKey(req.Method, req.URL.Path, reqKey)
			klog := log.WithField("idempotency_key", key)

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			claimed, err := store.claim(ctx, key, record{
				Pending:     true,
				BodySHA256:  sum,
				RequestAtMS: at.UnixMilli(),
				StoredAt:    nowUTC(),
			})
			if err != nil {
				klog.WithError(err).Error("idempotency store unavailable")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !claimed {
				return answerDuplicate(ctx, c, store, key, sum, klog)
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may be gone by now
			sctx, scancel := context.WithTimeout(context.Background(), storeTimeout)
			defer scancel()
			if w.status >= http.StatusInternalServerError {
				if err := store.release(sctx, key); err != nil {
					klog.WithError(err).Warn("idempotency key not released")
				}
				return nil
			}
			err = store.finish(sctx, key, record{
				Status:      w.status,
				ContentType: w.Header().Get(echo.HeaderContentType),
				Body:        w.buf.Bytes(),
				BodySHA256:  sum,
				RequestAtMS: at.UnixMilli(),
				StoredAt:    nowUTC(),
			})
			if err != nil {
				klog.WithError(err).Warn("idempotency result not stored")
			}
			return nil
		}
	}
}

// answerDuplicate handles a key that is already claimed: replay the stored
// response, or refuse when the request is still running or the body differs.
func answerDuplicate(ctx context.Context, c echo.Context, store *replayStore, key, sum string, log logrus.FieldLogger) error {
	prev, err := store.load(ctx, key)
	switch {
	case errors.Is(err, redis.Nil):
		// claim released or expired between SETNX and GET
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	case err != nil:
		log.WithError(err).Error("idempotency entry unreadable")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
	}

	if prev.BodySHA256 != sum {
		return c.JSON(http.StatusConflict, map[string]string{"error": HeaderIdempotencyKey + " reused with different body"})
	}
	if prev.Pending {
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	}

	log.WithField("status", prev.Status).Info("idempotent replay")
	c.Response().Header().Set(HeaderReplayed, "true")
	if len(prev.Body) == 0 {
		return c.NoContent(prev.Status)
	}
	ct := prev.ContentType
	if ct == "" {
		ct = echo.MIMEApplicationJSON
	}
	return c.Blob(prev.Status, ct, prev.Body)
}
