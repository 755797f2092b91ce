package service

import (
	"context"
	"errors"
	"testing"
)

func TestFetchWithFallback_PrimarySuccess(t *testing.T) {
	fallbackCalls := 0
	got, degraded, err := FetchWithFallback(context.Background(),
		func(ctx context.Context) ([]string, error) { return []string{"a", "b"}, nil },
		func(ctx context.Context) ([]string, error) { fallbackCalls++; return []string{"x"}, nil },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if degraded {
		t.Fatal("primary success must not be degraded")
	}
	if len(got) != 2 || got[0] != "a" {
		t.Fatalf("unexpected result: %v", got)
	}
	if fallbackCalls != 0 {
		t.Fatalf("fallback must not run, ran %d times", fallbackCalls)
	}
}

func TestFetchWithFallback_404InvokesFallbackOnce(t *testing.T) {
	fallbackCalls := 0
	got, degraded, err := FetchWithFallback(context.Background(),
		func(ctx context.Context) ([]string, error) {
			return nil, &httpErr{status: 404, msg: "not found"}
		},
		func(ctx context.Context) ([]string, error) {
			fallbackCalls++
			return []string{"derived"}, nil
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !degraded {
		t.Fatal("expected degraded result")
	}
	if fallbackCalls != 1 {
		t.Fatalf("fallback must run exactly once, ran %d times", fallbackCalls)
	}
	if len(got) != 1 || got[0] != "derived" {
		t.Fatalf("fallback result not adopted: %v", got)
	}
}

func TestFetchWithFallback_OtherErrorsPropagate(t *testing.T) {
	serverErr := &httpErr{status: 500, msg: "boom"}
	fallbackCalls := 0
	_, degraded, err := FetchWithFallback(context.Background(),
		func(ctx context.Context) ([]string, error) { return nil, serverErr },
		func(ctx context.Context) ([]string, error) { fallbackCalls++; return nil, nil },
	)
	if !errors.Is(err, serverErr) {
		t.Fatalf("expected the 500 to propagate, got %v", err)
	}
	if fallbackCalls != 0 {
		t.Fatal("a 500 means the endpoint exists; fallback must not mask it")
	}
	if degraded {
		t.Fatal("propagated errors are not degraded results")
	}
}

func TestFetchWithFallback_NetworkErrorPropagates(t *testing.T) {
	netErr := errors.New("connection refused")
	fallbackCalls := 0
	_, _, err := FetchWithFallback(context.Background(),
		func(ctx context.Context) (int, error) { return 0, netErr },
		func(ctx context.Context) (int, error) { fallbackCalls++; return 42, nil },
	)
	if !errors.Is(err, netErr) {
		t.Fatalf("expected network error to propagate, got %v", err)
	}
	if fallbackCalls != 0 {
		t.Fatal("fallback is gated on 404 only")
	}
}

func TestFetchWithFallback_FallbackFailure(t *testing.T) {
	fallbackErr := errors.New("derivation failed")
	_, degraded, err := FetchWithFallback(context.Background(),
		func(ctx context.Context) (int, error) { return 0, &httpErr{status: 404} },
		func(ctx context.Context) (int, error) { return 0, fallbackErr },
	)
	if !errors.Is(err, fallbackErr) {
		t.Fatalf("expected fallback error, got %v", err)
	}
	if !degraded {
		t.Fatal("the 404 was observed; the attempt was degraded")
	}
}
