package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// captureLogOutput redirects the package logger into a buffer for the
// duration of f.
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	defer func() { defaultLogger = oldLogger }()

	f()
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"INFO", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"", LevelInfo, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"text", FormatText, false},
		{"TEXT", FormatText, false},
		{"", FormatJSON, false},
		{"yaml", FormatJSON, true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestJobEvent(t *testing.T) {
	output := captureLogOutput(func() {
		JobEvent("job-123", "started", "model", "gpt-4o")
	})

	var entry map[string]any
	if err := json.Unmarshal([]byte(output), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, output)
	}
	if entry["msg"] != "job_event" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["job_id"] != "job-123" {
		t.Errorf("job_id = %v", entry["job_id"])
	}
	if entry["event"] != "started" {
		t.Errorf("event = %v", entry["event"])
	}
	if entry["model"] != "gpt-4o" {
		t.Errorf("model = %v", entry["model"])
	}
}

func TestWebSocketEvent(t *testing.T) {
	output := captureLogOutput(func() {
		WebSocketEvent("job-9", "client_connected", 2)
	})

	if !strings.Contains(output, `"websocket_event"`) {
		t.Errorf("output missing event name: %s", output)
	}
	if !strings.Contains(output, `"client_count":2`) {
		t.Errorf("output missing client count: %s", output)
	}
}

func TestMiddleware(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	output := captureLogOutput(func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
		}
	})

	var entry map[string]any
	if err := json.Unmarshal([]byte(output), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, output)
	}
	if entry["msg"] != "http_request" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["path"] != "/api/v1/jobs/abc" {
		t.Errorf("path = %v", entry["path"])
	}
	if entry["status_code"] != float64(http.StatusTeapot) {
		t.Errorf("status_code = %v", entry["status_code"])
	}
}

func TestMiddleware_DefaultStatus(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	output := captureLogOutput(func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	if !strings.Contains(output, `"status_code":200`) {
		t.Errorf("implicit 200 not logged: %s", output)
	}
}
