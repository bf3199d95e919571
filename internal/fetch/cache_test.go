package fetch

import (
	"bytes"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	const url = "https://example.com/film/1980"

	if _, ok := cache.Get(url); ok {
		t.Fatalf("Get() before Put() reported a hit")
	}

	body := []byte("<html><body>hi</body></html>")
	if err := cache.Put(url, body); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := cache.Get(url)
	if !ok {
		t.Fatalf("Get() after Put() reported a miss")
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("Get() = %q, want %q", got, body)
	}

	// Different URLs do not collide.
	if _, ok := cache.Get(url + "?page=2"); ok {
		t.Fatalf("Get() of a different URL reported a hit")
	}
}

func TestCacheOverwrite(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	const url = "https://example.com/page"
	if err := cache.Put(url, []byte("old")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := cache.Put(url, []byte("new")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := cache.Get(url)
	if !ok || string(got) != "new" {
		t.Fatalf("Get() = %q, %v, want new entry", got, ok)
	}
}
