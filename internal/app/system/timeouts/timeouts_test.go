package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	defer Reset()

	Configure(Config{AI: 5 * time.Second})
	if AI() != 5*time.Second {
		t.Errorf("AI() = %v, want 5s", AI())
	}
	if Short() != DefaultShort {
		t.Errorf("Short() = %v, want default %v", Short(), DefaultShort)
	}

	Reset()
	if AI() != DefaultAI {
		t.Errorf("after Reset AI() = %v, want %v", AI(), DefaultAI)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()

	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
	}
}
