package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tandem/pkg/requestcontext"
)

type WindowSuite struct {
	suite.Suite
	base time.Time
}

func TestWindowSuite(t *testing.T) {
	suite.Run(t, new(WindowSuite))
}

func (s *WindowSuite) SetupTest() {
	s.base = time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
}

func (s *WindowSuite) at(offset time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.base.Add(offset))
}

func (s *WindowSuite) TestAllowUpToLimit() {
	w := NewWindow(2, time.Minute)

	first := w.Allow(s.at(0), "u1")
	s.True(first.Allowed)
	s.Equal(1, first.Remaining)

	second := w.Allow(s.at(time.Second), "u1")
	s.True(second.Allowed)
	s.Equal(0, second.Remaining)

	third := w.Allow(s.at(2*time.Second), "u1")
	s.False(third.Allowed)
	s.Equal(s.base.Add(time.Minute), third.ResetAt)
	s.Equal(58*time.Second, third.RetryAfter)
}

func (s *WindowSuite) TestWindowSlides() {
	w := NewWindow(1, time.Minute)
	s.True(w.Allow(s.at(0), "u1").Allowed)
	s.False(w.Allow(s.at(59*time.Second), "u1").Allowed)
	s.True(w.Allow(s.at(time.Minute), "u1").Allowed)
}

func (s *WindowSuite) TestKeysAreIndependent() {
	w := NewWindow(1, time.Minute)
	s.True(w.Allow(s.at(0), "u1").Allowed)
	s.True(w.Allow(s.at(0), "u2").Allowed)
	s.False(w.Allow(s.at(0), "u1").Allowed)
}

func (s *WindowSuite) TestZeroLimitAdmitsEverything() {
	w := NewWindow(0, time.Minute)
	for range 5 {
		s.True(w.Allow(s.at(0), "u1").Allowed)
	}
	var nilWindow *Window
	s.True(nilWindow.Allow(s.at(0), "u1").Allowed)
}

func (s *WindowSuite) TestResetAndSweep() {
	w := NewWindow(1, time.Minute)
	w.Allow(s.at(0), "u1")
	w.Allow(s.at(30*time.Second), "u2")

	w.Reset("u1")
	s.True(w.Allow(s.at(time.Second), "u1").Allowed)

	s.Equal(0, w.Sweep(s.at(45*time.Second)))
	s.Equal(1, w.Sweep(s.at(75*time.Second)))
	s.Equal(1, w.Sweep(s.at(2*time.Minute)))
}

func (s *WindowSuite) TestMiddleware() {
	w := NewWindow(1, time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	key := func(r *http.Request) string { return r.Header.Get("X-Member") }
	calls := 0
	h := Middleware(w, key, logger)(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		calls++
		rw.WriteHeader(http.StatusOK)
	}))

	send := func(member string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil).WithContext(s.at(0))
		req.Header.Set("X-Member", member)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	s.Run("first call passes", func() {
		rec := send("u1")
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("1", rec.Header().Get("X-RateLimit-Limit"))
		s.Equal("0", rec.Header().Get("X-RateLimit-Remaining"))
	})

	s.Run("second call is rejected", func() {
		rec := send("u1")
		s.Equal(http.StatusTooManyRequests, rec.Code)
		s.Equal("60", rec.Header().Get("Retry-After"))
		s.Contains(rec.Body.String(), "rate_limited")
	})

	s.Run("empty key skips limiting", func() {
		s.Equal(http.StatusOK, send("").Code)
		s.Equal(http.StatusOK, send("").Code)
	})

	s.Equal(3, calls)
}
