package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "", want: slog.LevelInfo},
		{input: "info", want: slog.LevelInfo},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogger_ComponentTagging(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Output: &buf, Component: ComponentApp})

	logger.WithComponent(ComponentStorage).Warn("bad json", FieldKey, "contributions")

	out := buf.String()
	if !strings.Contains(out, "component=storage") {
		t.Errorf("expected storage component, got %q", out)
	}
	if strings.Contains(out, "component=app") {
		t.Errorf("parent component leaked into %q", out)
	}
	if !strings.Contains(out, "key=contributions") {
		t.Errorf("expected key field, got %q", out)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})

	ctx := NewContext(context.Background(), logger.With(FieldRequestID, "abc"))
	FromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Errorf("expected request id in %q", buf.String())
	}

	if FromContext(context.Background()) == nil {
		t.Error("expected a fallback logger")
	}
	if got := FromContextOr(context.Background(), logger); got != logger {
		t.Error("expected the explicit fallback")
	}
}
