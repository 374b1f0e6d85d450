package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewProvider_MockNeedsNoMiddleware(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, ok := p.(*MockProvider); !ok {
		t.Fatalf("mock config returned %T", p)
	}
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "abacus"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestWithLogging_NilRepoIsPassthrough(t *testing.T) {
	mock := NewMockProvider()
	p := WithLogging(mock, "mock", nil)
	if p.(*MockProvider) != mock {
		t.Fatal("nil repo should return the provider unchanged")
	}
}

// stalledProvider blocks until its context is done.
type stalledProvider struct{}

func (stalledProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stalledProvider) ModelID() string { return "stalled" }

func TestTimeoutProvider_CutsOffSlowCalls(t *testing.T) {
	p := &timeoutProvider{inner: stalledProvider{}, timeout: 5 * time.Millisecond}

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
	if p.ModelID() != "stalled" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}
