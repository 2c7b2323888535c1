package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talvi/pulsemagstep/pkg/calibration"
	"github.com/talvi/pulsemagstep/pkg/config"
	"github.com/talvi/pulsemagstep/pkg/interp"
	"github.com/talvi/pulsemagstep/pkg/utils/ptr"
)

var testTable = calibration.NewTable([]calibration.Point{
	{Voltage: 20, Field: 3.0},
	{Voltage: 50, Field: 12.5},
	{Voltage: 100, Field: 31.0},
	{Voltage: 150, Field: 58.2},
	{Voltage: 200, Field: 96.0},
})

func newTestHandler() http.Handler {
	gin.SetMode(gin.TestMode)
	conf := config.NewFileFromConfig(&config.RawFileConfig{
		Technique:    ptr.To("pwl"),
		Steps:        ptr.To(6),
		MinField:     ptr.To(0.0),
		MaxField:     ptr.To(100.0),
		Distribution: ptr.To("lin"),
	}, "")
	return New(testTable, conf)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPostStepsDefaults(t *testing.T) {
	w := do(t, newTestHandler(), http.MethodPost, "/steps", "{}")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var results []interp.Result
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	wantFields := []float64{0, 20, 40, 60, 80, 100}
	if len(results) != len(wantFields) {
		t.Fatalf("got %d results, want %d", len(results), len(wantFields))
	}
	for i, r := range results {
		if r.Field != wantFields[i] {
			t.Errorf("result %d field = %v, want %v", i, r.Field, wantFields[i])
		}
	}
	// 0 and 100 lie outside the 3..96 calibration span.
	if results[0].Status != interp.StatusOutOfRange || results[5].Status != interp.StatusOutOfRange {
		t.Errorf("expected out-of-range at both ends, got %+v", results)
	}
	if !results[2].Valid() {
		t.Errorf("expected field 40 to be valid, got %+v", results[2])
	}
}

func TestPostStepsOverrides(t *testing.T) {
	w := do(t, newTestHandler(), http.MethodPost, "/steps",
		`{"min": 10, "max": 1000, "steps": 3, "distribution": "exp", "technique": "lsq"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var results []interp.Result
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || results[0].Field != 10 || results[1].Field != 100 || results[2].Field != 1000 {
		t.Fatalf("unexpected fields: %+v", results)
	}
	for _, r := range results {
		if !r.Valid() {
			t.Errorf("least-squares result %+v should be valid", r)
		}
	}
}

func TestPostStepsBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown technique", `{"technique": "cubic"}`},
		{"unknown distribution", `{"distribution": "random"}`},
		{"too few steps", `{"steps": 1}`},
		{"too many steps", `{"steps": 4611686018427387904}`},
		{"inverted range", `{"min": 50, "max": 10}`},
		{"not json", `steps=3`},
	}
	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/steps", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetCalibration(t *testing.T) {
	w := do(t, newTestHandler(), http.MethodGet, "/calibration", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var table calibration.Table
	if err := json.Unmarshal(w.Body.Bytes(), &table); err != nil {
		t.Fatal(err)
	}
	if table.Len() != testTable.Len() {
		t.Fatalf("got %d points, want %d", table.Len(), testTable.Len())
	}
}

func TestGetConfigAndVersion(t *testing.T) {
	h := newTestHandler()
	w := do(t, h, http.MethodGet, "/config", "")
	if w.Code != http.StatusOK {
		t.Fatalf("config status = %d", w.Code)
	}
	var raw config.RawFileConfig
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if raw.Technique == nil || *raw.Technique != "pwl" {
		t.Errorf("unexpected config %s", w.Body.String())
	}

	if w := do(t, h, http.MethodGet, "/version", ""); w.Code != http.StatusOK {
		t.Fatalf("version status = %d", w.Code)
	}
}

func TestRunShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, addr, newTestHandler())
	}()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/version")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
