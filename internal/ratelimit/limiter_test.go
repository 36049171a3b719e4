package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	limiter := NewLimiter(60, 60*time.Second)

	if limiter == nil {
		t.Fatal("NewLimiter() returned nil")
	}
	if limiter.limit != 60 {
		t.Errorf("NewLimiter() limit = %d, want 60", limiter.limit)
	}
	if limiter.window != 60*time.Second {
		t.Errorf("NewLimiter() window = %v, want 60s", limiter.window)
	}
	if limiter.buckets == nil {
		t.Error("NewLimiter() buckets is nil")
	}
}

func TestNewLimiter_ClampsToMinimums(t *testing.T) {
	limiter := NewLimiter(0, 0)

	if limiter.limit != 1 {
		t.Errorf("NewLimiter(0, 0) limit = %d, want 1", limiter.limit)
	}
	if limiter.window != time.Second {
		t.Errorf("NewLimiter(0, 0) window = %v, want 1s", limiter.window)
	}
}

func TestLimiter_Check_ExhaustsLimit(t *testing.T) {
	limiter := NewLimiter(3, 60*time.Second)

	for i := 0; i < 3; i++ {
		result := limiter.Check("10.0.0.1")
		if !result.Allowed {
			t.Fatalf("Check() request %d rejected, want accepted", i+1)
		}
		wantRemaining := 3 - (i + 1)
		if result.Remaining != wantRemaining {
			t.Errorf("Check() request %d remaining = %d, want %d", i+1, result.Remaining, wantRemaining)
		}
		if result.ResetSeconds != 60 {
			t.Errorf("Check() accept-path reset = %d, want full window 60", result.ResetSeconds)
		}
	}

	result := limiter.Check("10.0.0.1")
	if result.Allowed {
		t.Fatal("Check() request over limit accepted, want rejected")
	}
	if result.Remaining != 0 {
		t.Errorf("Check() rejected remaining = %d, want 0", result.Remaining)
	}
	if result.ResetSeconds < 0 || result.ResetSeconds > 60 {
		t.Errorf("Check() rejected reset = %d, want within [0, 60]", result.ResetSeconds)
	}
}

func TestLimiter_Check_RejectionDoesNotConsume(t *testing.T) {
	limiter := NewLimiter(1, 60*time.Second)

	current := time.Unix(1000, 0)
	limiter.now = func() time.Time { return current }

	if result := limiter.Check("k"); !result.Allowed {
		t.Fatal("first Check() rejected, want accepted")
	}

	// Repeated rejections must not extend the window by recording new
	// timestamps.
	for i := 0; i < 5; i++ {
		if result := limiter.Check("k"); result.Allowed {
			t.Fatal("Check() over limit accepted, want rejected")
		}
	}

	if got := len(limiter.buckets["k"]); got != 1 {
		t.Errorf("bucket length after rejections = %d, want 1", got)
	}
}

func TestLimiter_Check_RecoversAfterWindow(t *testing.T) {
	limiter := NewLimiter(2, 60*time.Second)

	current := time.Unix(1000, 0)
	limiter.now = func() time.Time { return current }

	limiter.Check("k")
	limiter.Check("k")

	rejected := limiter.Check("k")
	if rejected.Allowed {
		t.Fatal("Check() over limit accepted, want rejected")
	}
	if rejected.ResetSeconds != 60 {
		t.Errorf("Check() rejected reset = %d, want 60 (no time elapsed)", rejected.ResetSeconds)
	}

	// Partway through the window the reset hint shrinks.
	current = current.Add(25 * time.Second)
	rejected = limiter.Check("k")
	if rejected.Allowed {
		t.Fatal("Check() within window accepted, want rejected")
	}
	if rejected.ResetSeconds != 35 {
		t.Errorf("Check() rejected reset = %d, want 35", rejected.ResetSeconds)
	}

	// Past the oldest timestamp plus the window the key is admitted again.
	current = current.Add(36 * time.Second)
	recovered := limiter.Check("k")
	if !recovered.Allowed {
		t.Fatal("Check() after window expiry rejected, want accepted")
	}
}

func TestLimiter_Check_IndependentKeys(t *testing.T) {
	limiter := NewLimiter(1, 60*time.Second)

	if result := limiter.Check("10.0.0.1"); !result.Allowed {
		t.Fatal("first key rejected, want accepted")
	}
	if result := limiter.Check("10.0.0.2"); !result.Allowed {
		t.Fatal("second key rejected, want accepted")
	}
	if result := limiter.Check("10.0.0.1"); result.Allowed {
		t.Fatal("first key over limit accepted, want rejected")
	}
}

func TestLimiter_Check_Concurrent(t *testing.T) {
	const limit = 50
	limiter := NewLimiter(limit, 60*time.Second)

	var waitGroup sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < 2*limit; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			if limiter.Check("shared").Allowed {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	waitGroup.Wait()

	if accepted != limit {
		t.Errorf("concurrent accepted = %d, want exactly %d", accepted, limit)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		expected   string
	}{
		{
			name:       "forwarded single entry",
			forwarded:  "203.0.113.7",
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.7",
		},
		{
			name:       "forwarded multiple entries takes first",
			forwarded:  "203.0.113.7, 10.0.0.2, 10.0.0.3",
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.7",
		},
		{
			name:       "forwarded with surrounding spaces",
			forwarded:  "  203.0.113.7  ,10.0.0.2",
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.7",
		},
		{
			name:       "no forwarded header uses remote host",
			remoteAddr: "192.168.1.9:5555",
			expected:   "192.168.1.9",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.168.1.9",
			expected:   "192.168.1.9",
		},
		{
			name:     "nothing known",
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/classes", nil)
			request.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				request.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := ClientIP(request); got != tt.expected {
				t.Errorf("ClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
