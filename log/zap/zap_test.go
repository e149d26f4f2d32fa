package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/storefront"
)

func TestFieldsAndErrorsKept(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := ZapLogger{L: zap.New(core)}

	l.Warn("cache read failed", storefront.Fields{"key": "featured:prod:featuredProducts", "err": errors.New("boom")})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries: got %d want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["key"] != "featured:prod:featuredProducts" || ctx["err"] != "boom" {
		t.Fatalf("fields: %v", ctx)
	}
}
