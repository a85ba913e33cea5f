package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestCommandErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewCommandError("run", cause)

	if !errors.Is(err, cause) {
		t.Error("CommandError does not unwrap to cause")
	}
	if err.Error() != "command run failed: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("server.listen_address", "required")
	if err.Error() != "config error in server.listen_address: required" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]int{"rules": 7}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output not JSON: %v", err)
	}
	if decoded["rules"] != 7 {
		t.Errorf("rules = %d", decoded["rules"])
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
