package cache

import (
	"testing"
	"time"
)

type payload struct {
	Keyword string  `json:"keyword"`
	Count   int     `json:"count"`
	Price   float64 `json:"price"`
}

func TestCachePutGet(t *testing.T) {
	c := New()

	in := payload{Keyword: "nike", Count: 3, Price: 29.99}
	if err := c.Put("k", in, time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var out payload
	found, err := c.Get("k", &out)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New()
	var out payload
	found, err := c.Get("absent", &out)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("expected cache miss for absent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New()
	if err := c.Put("k", payload{Keyword: "adidas"}, time.Millisecond); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	var out payload
	found, _ := c.Get("k", &out)
	if found {
		t.Error("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, len=%d", c.Len())
	}
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	c := New()
	if err := c.Put("k", payload{Keyword: "jordan"}, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	time.Sleep(2 * time.Millisecond)

	var out payload
	found, _ := c.Get("k", &out)
	if !found {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestCacheRemoveClear(t *testing.T) {
	c := New()
	_ = c.Put("a", payload{}, time.Minute)
	_ = c.Put("b", payload{}, time.Minute)

	c.Remove("a")
	var out payload
	if found, _ := c.Get("a", &out); found {
		t.Error("removed key should miss")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, len=%d", c.Len())
	}
}

func TestSearchKey(t *testing.T) {
	if got := SearchKey("nike air", 50); got != "search|nike air|50" {
		t.Errorf("unexpected key %q", got)
	}
}
