package sender

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2, QueueSize: 8})
	var n atomic.Int32
	for range 5 {
		if err := d.Enqueue(context.Background(), "test", "", func() error {
			n.Add(1)
			return nil
		}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	d.Close()
	if n.Load() != 5 {
		t.Fatalf("ran %d jobs, want 5", n.Load())
	}
	if sent, failed := d.Stats(); sent != 5 || failed != 0 {
		t.Fatalf("stats = %d/%d", sent, failed)
	}
	if err := d.Enqueue(context.Background(), "late", "", func() error { return nil }); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Enqueue after Close err = %v", err)
	}
	d.Close()
}

func TestDispatcherRetriesTransient(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	_ = d.Enqueue(context.Background(), "retry", "", func() error {
		if calls.Add(1) < 3 {
			return &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		return nil
	})
	d.Close()
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestDispatcherToleratedErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, Tolerate: IsBadRequest})
	_ = d.Enqueue(context.Background(), "strip", "editMessageReplyMarkup", func() error {
		return &tele.Error{Code: http.StatusBadRequest, Description: "Bad Request: message to edit not found"}
	})
	_ = d.Enqueue(context.Background(), "strip", "editMessageReplyMarkup", func() error {
		return &tele.Error{Code: http.StatusForbidden, Description: "Forbidden: bot was kicked"}
	})
	d.Close()
	if sent, failed := d.Stats(); sent != 1 || failed != 1 {
		t.Fatalf("stats = %d/%d, want 1/1", sent, failed)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{context.DeadlineExceeded, "timeout"},
		{&net.OpError{Op: "dial", Err: errors.New("x")}, "dial"},
		{&tele.Error{Code: 400}, "http_4xx"},
		{&tele.Error{Code: 502}, "http_5xx"},
		{&tele.Error{Code: 429}, "flood"},
		{errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Fatalf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRedact(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123:AA-bb_CC/sendMessage": timeout`)
	if got := Redact(err); got != `Post "https://api.telegram.org/bot<redacted>/sendMessage": timeout` {
		t.Fatalf("Redact = %q", got)
	}
}
