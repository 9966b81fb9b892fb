package cache

import (
	"context"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	content := []byte("# Cell\n")
	payload := NewPayload("main.urd.md", content, 2, 3, 1, false)

	if err := c.Put(payload.ContentHash, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(payload.ContentHash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("Get reported no payload for a key just Put")
	}
	if got.Path != "main.urd.md" || got.SectionCount != 2 || got.LocationCount != 3 || got.ChoiceCount != 1 {
		t.Errorf("round-tripped payload = %+v, want matching fields", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, ok, err := c.Get(Key([]byte("never stored")))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Errorf("Get reported a payload for a key never Put")
	}
}

func TestHashContentIsDeterministic(t *testing.T) {
	a := HashContent([]byte("same bytes"))
	b := HashContent([]byte("same bytes"))
	if a != b {
		t.Errorf("HashContent is not deterministic across calls: %v != %v", a, b)
	}
	c := HashContent([]byte("different bytes"))
	if a == c {
		t.Errorf("HashContent collided for distinct inputs")
	}
}

func TestDropAllRemovesEntries(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	payload := NewPayload("main.urd.md", []byte("content"), 1, 1, 0, false)
	if err := c.Put(payload.ContentHash, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	_, ok, err := c.Get(payload.ContentHash)
	if err != nil {
		t.Fatalf("Get after DropAll: %v", err)
	}
	if ok {
		t.Errorf("Get found an entry after DropAll")
	}
}

func TestWarmAllPopulatesEveryFile(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	results := []FileResult{
		{Path: "main.urd.md", Content: []byte("# Cell\n"), SectionCount: 1},
		{Path: "lib.urd.md", Content: []byte("# Corridor\n"), SectionCount: 1},
	}
	if err := c.WarmAll(context.Background(), results); err != nil {
		t.Fatalf("WarmAll: %v", err)
	}
	for _, res := range results {
		_, ok, err := c.Get(HashContent(res.Content))
		if err != nil {
			t.Fatalf("Get(%s): %v", res.Path, err)
		}
		if !ok {
			t.Errorf("WarmAll did not populate an entry for %s", res.Path)
		}
	}
}

func TestWarmAllOnNilCacheIsNoop(t *testing.T) {
	var c *Disk
	if err := c.WarmAll(context.Background(), []FileResult{{Path: "x", Content: []byte("x")}}); err != nil {
		t.Fatalf("WarmAll on nil cache: %v", err)
	}
}
