package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/logger"
)

func validOptions() Options {
	return Options{
		Addr: "localhost:6379",
		Backoff: Backoff{
			Initial:     2 * time.Second,
			Max:         10 * time.Second,
			Total:       30 * time.Second,
			PingTimeout: 2 * time.Second,
			WarnAfter:   3,
		},
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr []string
	}{
		{"valid", func(*Options) {}, nil},
		{"missing addr", func(o *Options) { o.Addr = "" }, []string{"Addr"}},
		{"zero total", func(o *Options) { o.Backoff.Total = 0 }, []string{"Backoff.Total"}},
		{"zero initial", func(o *Options) { o.Backoff.Initial = 0 }, []string{"Backoff.Initial"}},
		{"zero max", func(o *Options) { o.Backoff.Max = 0 }, []string{"Backoff.Max"}},
		{"zero ping timeout", func(o *Options) { o.Backoff.PingTimeout = 0 }, []string{"Backoff.PingTimeout"}},
		{"negative warn budget", func(o *Options) { o.Backoff.WarnAfter = -1 }, []string{"Backoff.WarnAfter"}},
		{"every problem reported", func(o *Options) { *o = Options{Backoff: Backoff{WarnAfter: -1}} },
			[]string{"Addr", "Backoff.Total", "Backoff.Initial", "Backoff.Max", "Backoff.PingTimeout", "Backoff.WarnAfter"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want mention of %v", tt.wantErr)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() error = %v, want mention of %s", err, want)
				}
			}
		})
	}
}

func TestNewRejectsInvalidOptionsWithoutDialing(t *testing.T) {
	opts := validOptions()
	opts.Addr = ""
	client, err := New(context.Background(), opts, logger.Nop())
	if err == nil || client != nil {
		t.Fatalf("New() = %v, %v, want an options error", client, err)
	}
}

func fastBackoff(total time.Duration) Backoff {
	return Backoff{
		Initial:     time.Millisecond,
		Max:         4 * time.Millisecond,
		Total:       total,
		PingTimeout: 50 * time.Millisecond,
		WarnAfter:   1,
	}
}

func TestWaitReady(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name      string
		failFirst int
		total     time.Duration
		wantErr   bool
		minCalls  int
	}{
		{"first ping answers", 0, time.Second, false, 1},
		{"answers after retries", 3, time.Second, false, 4},
		{"never answers", 1 << 30, 30 * time.Millisecond, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			ping := func(ctx context.Context) error {
				calls++
				if _, ok := ctx.Deadline(); !ok {
					t.Error("ping called without a deadline")
				}
				if calls <= tt.failFirst {
					return down
				}
				return nil
			}

			err := waitReady(context.Background(), ping, fastBackoff(tt.total), logger.Nop())
			if tt.wantErr {
				if !errors.Is(err, down) {
					t.Fatalf("waitReady() error = %v, want wrapped %v", err, down)
				}
			} else if err != nil {
				t.Fatalf("waitReady() error = %v", err)
			}
			if tt.wantErr && calls < tt.minCalls || !tt.wantErr && calls != tt.minCalls {
				t.Errorf("ping called %d times, want %d", calls, tt.minCalls)
			}
		})
	}
}

func TestWaitReadyStopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitReady(ctx, func(ctx context.Context) error { return ctx.Err() }, fastBackoff(time.Minute), logger.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("waitReady() error = %v, want context.Canceled", err)
	}
}

func TestEscalate(t *testing.T) {
	tests := []struct {
		name      string
		attempt   int
		remaining time.Duration
		want      bool
	}{
		{"within warning budget", 2, 20 * time.Second, false},
		{"past warning budget", 4, 20 * time.Second, true},
		{"deadline approaching", 1, 5 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escalate(tt.attempt, tt.remaining, 3); got != tt.want {
				t.Errorf("escalate(%d, %v, 3) = %v, want %v", tt.attempt, tt.remaining, got, tt.want)
			}
		})
	}
}

func TestNextWait(t *testing.T) {
	tests := []struct {
		wait, max, want time.Duration
	}{
		{2 * time.Second, 10 * time.Second, 4 * time.Second},
		{4 * time.Second, 10 * time.Second, 8 * time.Second},
		{8 * time.Second, 10 * time.Second, 10 * time.Second},
		{10 * time.Second, 10 * time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		if got := nextWait(tt.wait, tt.max); got != tt.want {
			t.Errorf("nextWait(%v, %v) = %v, want %v", tt.wait, tt.max, got, tt.want)
		}
	}
}
