package main

import (
	"reflect"
	"testing"

	"github.com/terassyi/statefile"
)

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", float64(42)},
		{"3.5", 3.5},
		{"true", true},
		{"null", nil},
		{`"quoted"`, "quoted"},
		{"plain string", "plain string"},
		{"2.86.0", "2.86.0"}, // not valid JSON, kept as string
		{`[1,2]`, []any{float64(1), float64(2)}},
		{`{"a":1}`, map[string]any{"a": float64(1)}},
	}

	for _, tt := range tests {
		got := parseScalar(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseScalar(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}

func TestResolveCodec(t *testing.T) {
	t.Cleanup(func() { formatFlag = "" })

	formatFlag = ""
	if _, err := resolveCodec("state.json"); err != nil {
		t.Fatalf("failed to resolve json codec: %v", err)
	}
	codec, err := resolveCodec("state.yaml")
	if err != nil {
		t.Fatalf("failed to resolve yaml codec: %v", err)
	}
	if _, ok := codec.(statefile.YAMLCodec[Document]); !ok {
		t.Errorf("expected YAML codec for .yaml, got %T", codec)
	}

	formatFlag = "yaml"
	codec, err = resolveCodec("state.json")
	if err != nil {
		t.Fatalf("failed to resolve forced yaml codec: %v", err)
	}
	if _, ok := codec.(statefile.YAMLCodec[Document]); !ok {
		t.Errorf("expected YAML codec with --format yaml, got %T", codec)
	}

	formatFlag = "toml"
	if _, err := resolveCodec("state.json"); err == nil {
		t.Error("expected error for unknown format")
	}
}
