package logx

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"DEBUG": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestUse(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Use(zap.New(core).Sugar())
	t.Cleanup(func() { lg = nil })

	L().Infow("email_sent", "to", "a@x.com")

	entries := logs.FilterMessage("email_sent").All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["to"] != "a@x.com" {
		t.Fatalf("unexpected fields: %v", entries[0].ContextMap())
	}
}
