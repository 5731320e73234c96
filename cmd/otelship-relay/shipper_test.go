// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bureau-foundation/otelship/lib/clock"
	"github.com/bureau-foundation/otelship/lib/export"
	"github.com/bureau-foundation/otelship/lib/testutil"
)

// exportCall is one recorded Export invocation.
type exportCall struct {
	signal  export.Signal
	payload []byte
}

// fakeExporter records Export calls and returns configurable errors.
// The called channel signals after every Export invocation so tests
// can synchronize without polling.
type fakeExporter struct {
	mu       sync.Mutex
	calls    []exportCall
	errorSeq []error // errors to return in order; nil entries mean success
	index    int
	called   chan struct{} // signaled after each Export call
}

func newFakeExporter(errorSeq []error, expectedCalls int) *fakeExporter {
	return &fakeExporter{
		errorSeq: errorSeq,
		called:   make(chan struct{}, expectedCalls),
	}
}

func (f *fakeExporter) Export(_ context.Context, signal export.Signal, payload []byte) error {
	f.mu.Lock()
	copied := make([]byte, len(payload))
	copy(copied, payload)
	f.calls = append(f.calls, exportCall{signal: signal, payload: copied})
	var err error
	if f.index < len(f.errorSeq) {
		err = f.errorSeq[f.index]
		f.index++
	}
	f.mu.Unlock()

	// Signal after releasing the lock so tests waiting on called
	// can read callCount without deadlocking.
	if f.called != nil {
		f.called <- struct{}{}
	}

	return err
}

func (f *fakeExporter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeExporter) callAt(i int) exportCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

// waitForCalls blocks until the exporter has been called n more times.
func (f *fakeExporter) waitForCalls(t *testing.T, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		<-f.called
	}
}

func TestShipperSuccessfulDrain(t *testing.T) {
	buffer := NewBuffer(4096)
	for i := byte(0); i < 5; i++ {
		signal := export.SignalTraces
		if i%2 == 1 {
			signal = export.SignalMetrics
		}
		if err := buffer.Push(signal, []byte{i}); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	exporter := newFakeExporter(nil, 5)
	var shipped atomic.Uint64
	logger := slog.Default()
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		runShipper(ctx, buffer, exporter, fakeClock, &shipped, logger)
		close(done)
	}()

	// Wait for all 5 entries to be shipped. The initial Push calls
	// signaled the notify channel, so the shipper wakes up and
	// drains the buffer in a tight loop.
	exporter.waitForCalls(t, 5)

	cancel()
	testutil.RequireClosed(t, done, 5*time.Second, "shipper did not stop")

	if shipped.Load() != 5 {
		t.Fatalf("expected 5 shipped, got %d", shipped.Load())
	}
	if exporter.callCount() != 5 {
		t.Fatalf("expected 5 export calls, got %d", exporter.callCount())
	}

	// Each payload must have been exported under the signal it was
	// pushed with.
	for i := 0; i < 5; i++ {
		call := exporter.callAt(i)
		wantSignal := export.SignalTraces
		if i%2 == 1 {
			wantSignal = export.SignalMetrics
		}
		if call.signal != wantSignal {
			t.Fatalf("call %d: expected signal %v, got %v", i, wantSignal, call.signal)
		}
		if call.payload[0] != byte(i) {
			t.Fatalf("call %d: expected payload [%d], got %v", i, i, call.payload)
		}
	}
}

func TestShipperRetryOnFailure(t *testing.T) {
	buffer := NewBuffer(4096)
	if err := buffer.Push(export.SignalTraces, []byte{1}); err != nil {
		t.Fatalf("Push: %v", err)
	}

	// Fail twice, then succeed.
	retryError := errors.New("temporary failure")
	exporter := newFakeExporter([]error{retryError, retryError, nil}, 3)
	var shipped atomic.Uint64
	logger := slog.Default()
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		runShipper(ctx, buffer, exporter, fakeClock, &shipped, logger)
		close(done)
	}()

	// 1st call fails; the shipper enters its 1s backoff.
	exporter.waitForCalls(t, 1)
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(1 * time.Second)

	// 2nd call fails; the shipper enters its 2s backoff.
	exporter.waitForCalls(t, 1)
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(2 * time.Second)

	// 3rd call succeeds.
	exporter.waitForCalls(t, 1)

	cancel()
	testutil.RequireClosed(t, done, 5*time.Second, "shipper did not stop")

	if shipped.Load() != 1 {
		t.Fatalf("expected 1 shipped, got %d", shipped.Load())
	}
	if exporter.callCount() != 3 {
		t.Fatalf("expected 3 export calls, got %d", exporter.callCount())
	}
}

func TestShipperContextCancellation(t *testing.T) {
	buffer := NewBuffer(4096)
	exporter := newFakeExporter(nil, 0)
	var shipped atomic.Uint64
	logger := slog.Default()
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		runShipper(ctx, buffer, exporter, fakeClock, &shipped, logger)
		close(done)
	}()

	// Cancel immediately; the shipper sees ctx.Done() and returns.
	cancel()
	testutil.RequireClosed(t, done, 5*time.Second, "shipper did not stop")
}

func TestShipperDrainOnShutdown(t *testing.T) {
	buffer := NewBuffer(4096)
	for i := byte(0); i < 3; i++ {
		if err := buffer.Push(export.SignalTraces, []byte{i}); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	// First call fails (triggering backoff), then the context is
	// cancelled during the backoff, and the drain pass ships all 3
	// entries (the first entry is retried since it was Peek'd but
	// not Pop'd).
	exporter := newFakeExporter([]error{errors.New("fail"), nil, nil, nil}, 4)
	var shipped atomic.Uint64
	logger := slog.Default()
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		runShipper(ctx, buffer, exporter, fakeClock, &shipped, logger)
		close(done)
	}()

	// Wait for the 1st call (fails) and for the backoff timer to
	// be registered.
	exporter.waitForCalls(t, 1)
	fakeClock.WaitForTimers(1)

	// Cancel while the shipper is in its backoff sleep. The drain
	// pass should ship all 3 entries.
	cancel()

	// Wait for the 3 drain calls.
	exporter.waitForCalls(t, 3)
	testutil.RequireClosed(t, done, 5*time.Second, "shipper did not stop")

	if shipped.Load() != 3 {
		t.Fatalf("expected 3 shipped during drain, got %d", shipped.Load())
	}
}

func TestShipperBackoffCap(t *testing.T) {
	buffer := NewBuffer(4096)
	if err := buffer.Push(export.SignalTraces, []byte{1}); err != nil {
		t.Fatalf("Push: %v", err)
	}

	// Fail 8 times to verify the exponential backoff reaches the
	// 30s cap and stays there, then succeed.
	//
	// Expected backoff sequence after each failure:
	//   1s, 2s, 4s, 8s, 16s, 30s(cap), 30s, 30s
	failError := errors.New("keep failing")
	exporter := newFakeExporter([]error{
		failError, failError, failError, failError,
		failError, failError, failError, failError,
		nil, // 9th attempt succeeds
	}, 9)
	var shipped atomic.Uint64
	logger := slog.Default()
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		runShipper(ctx, buffer, exporter, fakeClock, &shipped, logger)
		close(done)
	}()

	// Advance through all 8 backoff periods. After each advance the
	// shipper retries; the first 8 attempts fail, the 9th succeeds.
	expectedBackoffs := []time.Duration{
		1 * time.Second,  // after failure 1
		2 * time.Second,  // after failure 2
		4 * time.Second,  // after failure 3
		8 * time.Second,  // after failure 4
		16 * time.Second, // after failure 5
		30 * time.Second, // after failure 6 (would be 32s, capped)
		30 * time.Second, // after failure 7 (still capped)
		30 * time.Second, // after failure 8 (still capped)
	}

	for _, backoff := range expectedBackoffs {
		exporter.waitForCalls(t, 1)
		fakeClock.WaitForTimers(1)
		fakeClock.Advance(backoff)
	}

	// Wait for the 9th (successful) call.
	exporter.waitForCalls(t, 1)

	cancel()
	testutil.RequireClosed(t, done, 5*time.Second, "shipper did not stop")

	if shipped.Load() != 1 {
		t.Fatalf("expected 1 shipped, got %d", shipped.Load())
	}
	// 8 failures + 1 success = 9 total calls.
	if exporter.callCount() != 9 {
		t.Fatalf("expected 9 export calls, got %d", exporter.callCount())
	}
}
