package api

import (
	"fmt"
	"testing"
)

func TestGateLimiter_TableStaysBounded(t *testing.T) {
	for i := 0; i < gateLimiterCap+10; i++ {
		if l := gateLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256)); l == nil {
			t.Fatal("nil limiter")
		}
	}

	gateLimitersMu.Lock()
	n := len(gateLimiters)
	gateLimitersMu.Unlock()
	if n > gateLimiterCap {
		t.Fatalf("limiter table grew to %d, cap is %d", n, gateLimiterCap)
	}
}
