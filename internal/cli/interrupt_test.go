package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler_DefaultsToStdout(t *testing.T) {
	handler := NewInterruptHandler(nil)
	assert.Equal(t, os.Stdout, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
}

func TestHandleInterrupts_Signal(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx := handler.HandleInterrupts(context.Background(), "Booking", "Check 'hikesafe transactions list' before booking again.")

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled initially")
	default:
	}

	handler.signals <- syscall.SIGINT
	waitDone(t, ctx)

	assert.True(t, handler.WasInterrupted())
	out := output.String()
	assert.Contains(t, out, "Booking interrupted!")
	assert.Contains(t, out, "hikesafe transactions list")
	assert.Contains(t, out, "See you on the trail!")
}

func TestHandleInterrupts_NoHint(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx := handler.HandleInterrupts(context.Background(), "Export", "")
	handler.signals <- syscall.SIGTERM
	waitDone(t, ctx)

	out := output.String()
	assert.Contains(t, out, "Export interrupted!")
	assert.Equal(t, 1, strings.Count(out, "interrupted!"))
}

func TestHandleInterrupts_ParentCanceled(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent, "Login", "")
	cancel()
	waitDone(t, ctx)

	// A normal shutdown is not an interrupt.
	time.Sleep(20 * time.Millisecond)
	require.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}

func TestHandleInterrupts_SignalWithRootCancel(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	root, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(root, "Booking", "")
	// The root command's own signal context fires on the same Ctrl-C.
	handler.signals <- syscall.SIGINT
	cancel()
	waitDone(t, ctx)

	assert.Eventually(t, handler.WasInterrupted, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return strings.Contains(output.String(), "Booking interrupted!")
	}, time.Second, 5*time.Millisecond)
}
