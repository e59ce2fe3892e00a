package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	payPath = "/installments/aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa/pay"
	reqKey  = "cccccccccccccccccccccccccccccccc"
)

// helper: new Echo with the middleware in front of handler
func setupEcho(t *testing.T, ttl time.Duration, handler echo.HandlerFunc) (*miniredis.Miniredis, *echo.Echo) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, newEcho(rdb, ttl, handler)
}

func newEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	log, _ := test.NewNullLogger()
	e := echo.New()
	e.HideBanner = true
	e.Use(IdempotencyMiddleware(rdb, ttl, log))
	e.POST("/installments/:id/pay", handler)
	e.GET("/installments/:id/pay", handler)
	return e
}

func doReq(e *echo.Echo, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func headers(key string) map[string]string {
	return map[string]string{
		HeaderIdempotencyKey: key,
		HeaderRequestAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

// counting returns a handler answering with reply and a pointer to its call count.
func counting(reply func(c echo.Context, n int32) error) (echo.HandlerFunc, *int32) {
	var calls int32
	return func(c echo.Context) error {
		return reply(c, atomic.AddInt32(&calls, 1))
	}, &calls
}

func Test_SafeMethodsBypass(t *testing.T) {
	h, calls := counting(func(c echo.Context, _ int32) error { return c.JSON(http.StatusOK, map[string]string{"status": "get ok"}) })
	_, e := setupEcho(t, time.Minute, h)

	rec := doReq(e, http.MethodGet, payPath, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func Test_BadHeadersNeverReachHandler(t *testing.T) {
	h, calls := counting(func(c echo.Context, _ int32) error { return c.NoContent(http.StatusOK) })
	_, e := setupEcho(t, time.Minute, h)

	for _, hdr := range []map[string]string{
		nil,
		{HeaderIdempotencyKey: "NOT-VALID", HeaderRequestAt: time.Now().UTC().Format(time.RFC3339)},
		{HeaderIdempotencyKey: reqKey, HeaderRequestAt: "yesterday"},
		{HeaderIdempotencyKey: reqKey, HeaderRequestAt: time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)},
	} {
		rec := doReq(e, http.MethodPost, payPath, `{}`, hdr)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%v", hdr)
	}
	assert.Zero(t, atomic.LoadInt32(calls))
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	h, calls := counting(func(c echo.Context, n int32) error {
		return c.JSON(http.StatusOK, map[string]any{"call": n})
	})
	_, e := setupEcho(t, 2*time.Minute, h)

	first := doReq(e, http.MethodPost, payPath, `{"amount":"1000"}`, headers(reqKey))
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Empty(t, first.Header().Get(HeaderReplayed))

	again := doReq(e, http.MethodPost, payPath, `{"amount":"1000"}`, headers(reqKey))
	require.Equal(t, http.StatusOK, again.Code, again.Body.String())
	assert.Equal(t, first.Body.String(), again.Body.String())
	assert.Equal(t, "true", again.Header().Get(HeaderReplayed))
	assert.Contains(t, again.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func Test_EmptyResponsesReplay(t *testing.T) {
	h, calls := counting(func(c echo.Context, _ int32) error { return c.NoContent(http.StatusNoContent) })
	_, e := setupEcho(t, time.Minute, h)

	doReq(e, http.MethodPost, payPath, "", headers(reqKey))
	rec := doReq(e, http.MethodPost, payPath, "", headers(reqKey))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(HeaderReplayed))
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func Test_SameKey_DifferentPath_IsIndependent(t *testing.T) {
	h, calls := counting(func(c echo.Context, _ int32) error {
		return c.JSON(http.StatusOK, map[string]any{"id": c.Param("id")})
	})
	_, e := setupEcho(t, 2*time.Minute, h)

	doReq(e, http.MethodPost, payPath, `{}`, headers(reqKey))
	rec := doReq(e, http.MethodPost, "/installments/bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb/pay", `{}`, headers(reqKey))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(HeaderReplayed))
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func Test_ClientErrorsAreReplayed(t *testing.T) {
	h, calls := counting(func(c echo.Context, _ int32) error {
		return echo.NewHTTPError(http.StatusConflict, map[string]string{"error": "installment already paid"})
	})
	_, e := setupEcho(t, 2*time.Minute, h)

	first := doReq(e, http.MethodPost, payPath, `{}`, headers(reqKey))
	again := doReq(e, http.MethodPost, payPath, `{}`, headers(reqKey))

	assert.Equal(t, http.StatusConflict, first.Code)
	assert.Equal(t, http.StatusConflict, again.Code)
	assert.Equal(t, first.Body.String(), again.Body.String())
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func Test_ServerErrorsReleaseKey(t *testing.T) {
	h, calls := counting(func(c echo.Context, n int32) error {
		if n == 1 {
			return errors.New("db down")
		}
		return c.JSON(http.StatusOK, map[string]any{"ok": true})
	})
	mr, e := setupEcho(t, 2*time.Minute, h)

	first := doReq(e, http.MethodPost, payPath, `{}`, headers(reqKey))
	require.Equal(t, http.StatusInternalServerError, first.Code)
	assert.False(t, mr.Exists(buildKey(http.MethodPost, payPath, reqKey)), "key must be released after a server error")

	retry := doReq(e, http.MethodPost, payPath, `{}`, headers(reqKey))
	assert.Equal(t, http.StatusOK, retry.Code)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func Test_Conflict_When_InProgress(t *testing.T) {
	h, calls := counting(func(c echo.Context, _ int32) error { return c.NoContent(http.StatusOK) })
	mr, e := setupEcho(t, 2*time.Minute, h)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := &replayStore{rdb: rdb, ttl: time.Minute}
	ok, err := store.claim(context.Background(), buildKey(http.MethodPost, payPath, reqKey), record{
		Pending:    true,
		BodySHA256: bodyHash([]byte(`{"x":1}`)),
	})
	require.NoError(t, err)
	require.True(t, ok)

	rec := doReq(e, http.MethodPost, payPath, `{"x":1}`, headers(reqKey))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "in progress")
	assert.Zero(t, atomic.LoadInt32(calls))
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	h, calls := counting(func(c echo.Context, _ int32) error { return c.JSON(http.StatusOK, map[string]bool{"ok": true}) })
	_, e := setupEcho(t, 2*time.Minute, h)

	doReq(e, http.MethodPost, payPath, `{"x":1}`, headers(reqKey))
	rec := doReq(e, http.MethodPost, payPath, `{"x":2}`, headers(reqKey))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "different body")
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// closed port → SetNX fails fast
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	h, calls := counting(func(c echo.Context, _ int32) error { return c.NoContent(http.StatusOK) })
	e := newEcho(rdb, time.Minute, h)

	rec := doReq(e, http.MethodPost, payPath, `{}`, headers(reqKey))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, atomic.LoadInt32(calls))
}
