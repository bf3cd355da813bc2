package cache

import (
	"context"
	"testing"
)

func TestDisabledCache(t *testing.T) {
	c := NewUnreadCache("", "", 0)
	if c != nil {
		t.Fatal("NewUnreadCache with empty addr should return nil")
	}

	// A nil cache is a no-op, not a panic.
	ctx := context.Background()
	if count, ok := c.Get(ctx, "alice"); ok || count != 0 {
		t.Errorf("nil cache Get = (%d, %v), want (0, false)", count, ok)
	}
	c.Set(ctx, "alice", 3)
	c.Invalidate(ctx, "alice")
	c.Close()
}

func TestKey(t *testing.T) {
	if got := key("alice"); got != "unread:alice" {
		t.Errorf("key() = %q", got)
	}
}
