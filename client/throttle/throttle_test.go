package throttle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRoundTripper_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		rps    int
		burst  int
		expErr error
	}{
		{
			name:   "Invalid RPS (zero)",
			rps:    0,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid RPS (negative)",
			rps:    -5,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (zero)",
			rps:    10,
			burst:  0,
			expErr: ErrMustNotBeZero,
		},
		{
			name:  "Valid input",
			rps:   10,
			burst: 20,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rt, err := NewRoundTripper(tc.rps, tc.burst, func() *slog.Logger { return nil }, http.DefaultTransport)

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("exp nil err, got: %v", err)
			}
			if rt == nil {
				t.Error("exp non-nil RoundTripper")
			}
		})
	}
}

func TestNewRoundTripper_NilCollaborators(t *testing.T) {
	rt, err := NewRoundTripper(1, 1, nil, nil)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	th, ok := rt.(*throttle)
	if !ok {
		t.Fatalf("exp *throttle, got %T", rt)
	}
	if th.next != http.DefaultTransport {
		t.Error("exp default transport fallback")
	}
	if th.logFn() != nil {
		t.Error("exp nil-returning log func fallback")
	}
}

func TestThrottle_Behavior(t *testing.T) {
	testCases := map[string]struct {
		rps         int
		burst       int
		numRequests int
		reqTimeout  time.Duration
		preCancel   bool
		expErrs     int
		errCheck    func(t *testing.T, err error)
		minDuration time.Duration
	}{
		"within burst": {
			rps:         5,
			burst:       5,
			numRequests: 5,
		},
		"exceed burst and wait": {
			rps:         10,
			burst:       2,
			numRequests: 4,
			reqTimeout:  2 * time.Second,
			minDuration: 150 * time.Millisecond,
		},
		"exceed burst and time out waiting": {
			rps:         1,
			burst:       1,
			numRequests: 3,
			reqTimeout:  100 * time.Millisecond,
			expErrs:     2,
			errCheck: func(t *testing.T, err error) {
				if !errors.Is(err, ErrWaitingFailed) {
					t.Errorf("exp ErrWaitingFailed, got: %v", err)
				}
			},
		},
		"pre-cancelled context": {
			rps:         10,
			burst:       10,
			numRequests: 1,
			preCancel:   true,
			expErrs:     1,
			errCheck: func(t *testing.T, err error) {
				if !errors.Is(err, ErrContextEnded) || !errors.Is(err, context.Canceled) {
					t.Errorf("exp ErrContextEnded wrapping context.Canceled, got: %v", err)
				}
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			rt, err := NewRoundTripper(tc.rps, tc.burst, func() *slog.Logger { return nil }, http.DefaultTransport)
			if err != nil {
				t.Fatal(err)
			}
			hc := &http.Client{Transport: rt}

			var wg sync.WaitGroup
			errs := make([]error, tc.numRequests)
			start := time.Now()

			for i := range tc.numRequests {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()

					ctx, cancel := context.WithCancel(t.Context())
					if tc.reqTimeout > 0 {
						ctx, cancel = context.WithTimeout(t.Context(), tc.reqTimeout)
					}
					defer cancel()
					if tc.preCancel {
						cancel()
					}

					req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL+"/imagine", nil)
					if err != nil {
						errs[idx] = err
						return
					}

					resp, err := hc.Do(req)
					if err != nil {
						errs[idx] = err
						return
					}
					resp.Body.Close()
				}(i)
			}
			wg.Wait()
			elapsed := time.Since(start)

			var failed int
			for _, err := range errs {
				if err == nil {
					continue
				}
				failed++
				if tc.errCheck != nil {
					tc.errCheck(t, err)
				}
			}

			if failed != tc.expErrs {
				t.Errorf("exp %d failed requests, got %d: %v", tc.expErrs, failed, errs)
			}
			if got := int(atomic.LoadInt32(&calls)); got != tc.numRequests-failed {
				t.Errorf("exp %d server calls, got %d", tc.numRequests-failed, got)
			}
			if elapsed < tc.minDuration {
				t.Errorf("exp throttling to take at least %v, took %v", tc.minDuration, elapsed)
			}
		})
	}
}

func TestThrottle_LogsExhaustion(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRoundTripper(20, 1, func() *slog.Logger { return logger }, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}
	hc := &http.Client{Transport: rt}

	for range 2 {
		req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, server.URL+"/result", nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := hc.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
	}

	logs := buf.String()
	if !strings.Contains(logs, "throttle tokens exhausted") {
		t.Errorf("exp exhaustion log, got:\n%s", logs)
	}
	if !strings.Contains(logs, "op=/result") {
		t.Errorf("exp op path in log, got:\n%s", logs)
	}
	if !strings.Contains(logs, "throttle wait complete") {
		t.Errorf("exp wait completion log, got:\n%s", logs)
	}
}
