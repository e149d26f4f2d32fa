package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBuf() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	return &buf, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestKeysAreRedacted(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{})
	h.CacheWriteFailed("featured:prod:featuredProducts", errors.New("down"))

	out := buf.String()
	if strings.Contains(out, "featuredProducts") {
		t.Fatalf("raw key leaked: %s", out)
	}
	if !strings.Contains(out, "storefront.cache_write_failed") {
		t.Fatalf("missing event: %s", out)
	}
}

func TestSelfHealSampling(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{SelfHealEvery: 3, Redact: func(s string) string { return s }})
	for i := 0; i < 6; i++ {
		h.SnapshotSelfHealed("k", "corrupt")
	}
	if n := strings.Count(buf.String(), "storefront.snapshot_self_healed"); n != 2 {
		t.Fatalf("sampled lines: got %d want 2", n)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.RefreshFailed("toggle", "id", errors.New("x"))
	h.PopulateSkipped("k", 1, 2)
}
