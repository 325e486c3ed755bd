package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"Media thumbnail", "/api/media/42/thumbnail", "/api/media/{id}/thumbnail"},
		{"Gallery detail", "/api/galleries/7", "/api/galleries/{id}"},
		{"No IDs untouched", "/api/galleries", "/api/galleries"},
		{"Health untouched", "/health", "/health"},
		{"Multiple IDs", "/a/1/b/2", "/a/{id}/b/{id}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		config LoggingConfig
		want   bool
	}{
		{"Health logged by default", "/health", DefaultLoggingConfig(), false},
		{"Health skipped when disabled", "/health", LoggingConfig{LogHealthChecks: false}, true},
		{"Static skipped by default", "/app.css", DefaultLoggingConfig(), true},
		{"Static logged when enabled", "/app.css", LoggingConfig{LogStaticFiles: true, LogHealthChecks: true}, false},
		{"API never skipped", "/api/galleries", DefaultLoggingConfig(), false},
		{"Uppercase extension skipped", "/APP.JS", DefaultLoggingConfig(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldSkip(tt.path, tt.config); got != tt.want {
				t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Clean string untouched", "GET /api/galleries", "GET /api/galleries"},
		{"Newline replaced", "a\nb", "a b"},
		{"Carriage return replaced", "a\rb", "a b"},
		{"Escape stripped", "a\x1b[31mb", "a[31mb"},
		{"Null stripped", "a\x00b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"Remote addr", "10.0.0.1:1234", nil, "10.0.0.1"},
		{"X-Forwarded-For wins", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "1.2.3.4"},
		{"First of forwarded chain", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "1.2.3.4"},
		{"X-Real-IP fallback", "10.0.0.1:1234", map[string]string{"X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK) // second call ignored
	if _, err := rw.Write([]byte("hello")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if rw.statusCode != http.StatusTeapot {
		t.Errorf("Expected captured status 418, got %d", rw.statusCode)
	}
	if rw.bytesWritten != 5 {
		t.Errorf("Expected 5 bytes written, got %d", rw.bytesWritten)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected underlying status 418, got %d", rec.Code)
	}
}

func TestMetricsMiddlewarePassesThrough(t *testing.T) {
	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/scan", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201 through middleware, got %d", rec.Code)
	}
}

func TestLoggerMiddlewarePassesThrough(t *testing.T) {
	handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			t.Errorf("Write failed: %v", err)
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/galleries", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("Expected passthrough response, got %d %q", rec.Code, rec.Body.String())
	}
}
