package ratelimit

import "testing"

func TestAllowWithinLimit(t *testing.T) {
	rl := NewRateLimiter(2, nil)

	allowed, remaining, _ := rl.Allow("user-1")
	if !allowed || remaining != 1 {
		t.Fatalf("expected first call allowed with 1 remaining, got %v %d", allowed, remaining)
	}
	allowed, remaining, _ = rl.Allow("user-1")
	if !allowed || remaining != 0 {
		t.Fatalf("expected second call allowed with 0 remaining, got %v %d", allowed, remaining)
	}
	allowed, _, reset := rl.Allow("user-1")
	if allowed {
		t.Fatal("expected third call to be rejected")
	}
	if reset <= 0 {
		t.Fatalf("expected positive reset seconds, got %d", reset)
	}
}

func TestAllowIsolatesUsers(t *testing.T) {
	rl := NewRateLimiter(1, nil)
	rl.Allow("user-1")
	if allowed, _, _ := rl.Allow("user-2"); !allowed {
		t.Fatal("expected user-2 to have its own window")
	}
}

func TestAllowOverrides(t *testing.T) {
	rl := NewRateLimiter(1, map[string]int{"vip": 3})
	for i := 0; i < 3; i++ {
		if allowed, _, _ := rl.Allow("vip"); !allowed {
			t.Fatalf("expected vip call %d to be allowed", i+1)
		}
	}
	if allowed, _, _ := rl.Allow("vip"); allowed {
		t.Fatal("expected vip to be limited after 3 calls")
	}
}

func TestZeroLimitDisables(t *testing.T) {
	rl := NewRateLimiter(0, nil)
	for i := 0; i < 10; i++ {
		if allowed, _, _ := rl.Allow("user-1"); !allowed {
			t.Fatal("expected unlimited access with zero limit")
		}
	}
}
