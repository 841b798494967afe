package utils

import (
	"errors"
	"testing"

	"github.com/MrSnakeDoc/sitemapd/internal/logger"
)

type closer struct {
	calls int
	err   error
}

func (c *closer) Close() error {
	c.calls++
	return c.err
}

func TestMustClose(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "ok"},
		{name: "error is logged, not returned", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &closer{err: tt.err}
			MustClose(c, "test", logger.Nop())
			if c.calls != 1 {
				t.Errorf("Close() called %d times, want 1", c.calls)
			}
		})
	}

	MustClose(nil, "nil", logger.Nop())
}
