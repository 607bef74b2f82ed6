package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

var errDown = errors.New("connection refused")

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 5, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return Transient(errDown)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return errDown
	})
	if !errors.Is(err, errDown) {
		t.Errorf("Do() = %v, want %v", err, errDown)
	}
	if calls != 1 {
		t.Errorf("permanent errors should not be retried, calls = %d", calls)
	}
}

func TestDoReturnsLastError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return Transient(errDown)
	})
	if err != errDown {
		t.Errorf("Do() = %v, want the unwrapped last error", err)
	}
	if IsTransient(err) {
		t.Error("returned error should no longer be marked transient")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoReturnsCauseOfWrappedTransient(t *testing.T) {
	err := Do(context.Background(), 2, time.Millisecond, func() error {
		return fmt.Errorf("dial redis: %w", Transient(errDown))
	})
	if err != errDown {
		t.Errorf("Do() = %#v, want the cause %v", err, errDown)
	}
	if IsTransient(err) {
		t.Error("returned error should no longer be marked transient")
	}
}

func TestDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, 10, time.Hour, func() error {
		calls++
		cancel()
		return Transient(errDown)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoMinimumOneAttempt(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return nil
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
	wrapped := Transient(errDown)
	if !IsTransient(wrapped) || !errors.Is(wrapped, errDown) {
		t.Error("Transient should mark and wrap the error")
	}
	if IsTransient(errDown) {
		t.Error("plain errors are not transient")
	}
}
