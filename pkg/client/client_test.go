package client

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/talvi/pulsemagstep/pkg/calibration"
	"github.com/talvi/pulsemagstep/pkg/config"
	"github.com/talvi/pulsemagstep/pkg/interp"
	"github.com/talvi/pulsemagstep/pkg/server"
	"github.com/talvi/pulsemagstep/pkg/utils/ptr"
	"github.com/talvi/pulsemagstep/pkg/version"
)

var testTable = calibration.NewTable([]calibration.Point{
	{Voltage: 20, Field: 3.0},
	{Voltage: 50, Field: 12.5},
	{Voltage: 100, Field: 31.0},
	{Voltage: 150, Field: 58.2},
	{Voltage: 200, Field: 96.0},
})

func newTestService() http.Handler {
	gin.SetMode(gin.TestMode)
	return server.New(testTable, config.NewFileFromConfig(nil, ""))
}

func TestClientOverTCP(t *testing.T) {
	ts := httptest.NewServer(newTestService())
	defer ts.Close()

	c := NewClient(ts.URL)

	results, err := c.GetSteps(server.StepsRequest{
		Min:          ptr.To(10.0),
		Max:          ptr.To(90.0),
		Steps:        ptr.To(5),
		Distribution: ptr.To("lin"),
		Technique:    ptr.To("pwl"),
	})
	if err != nil {
		t.Fatalf("GetSteps returned error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	for _, r := range results {
		if !r.Valid() {
			t.Errorf("field %v: status %s, want valid", r.Field, r.Status)
		}
	}

	table, err := c.GetCalibration()
	if err != nil {
		t.Fatalf("GetCalibration returned error: %v", err)
	}
	if table.Len() != testTable.Len() {
		t.Errorf("got %d calibration points, want %d", table.Len(), testTable.Len())
	}

	v, err := c.GetVersion()
	if err != nil || v != version.Version {
		t.Errorf("GetVersion() = %q, %v; want %q", v, err, version.Version)
	}

	conf, err := c.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig returned error: %v", err)
	}
	if conf.Steps == nil || *conf.Steps != 35 {
		t.Errorf("unexpected steps in remote config")
	}

	if _, err := c.GetSteps(server.StepsRequest{Technique: ptr.To("cubic")}); err == nil {
		t.Errorf("expected error for unknown technique")
	}

	if _, err := c.Get("/nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClientOverUnixSocket(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "step.sock")
	l, err := net.Listen("unix", sock)
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	ts := httptest.NewUnstartedServer(newTestService())
	_ = ts.Listener.Close()
	ts.Listener = l
	ts.Start()
	defer ts.Close()

	results, err := NewClient("unix://"+sock).GetSteps(server.StepsRequest{
		Min:   ptr.To(1.0),
		Max:   ptr.To(1000.0),
		Steps: ptr.To(4),
	})
	if err != nil {
		t.Fatalf("GetSteps returned error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	if results[0].Field != 1 || results[0].Status != interp.StatusValid {
		t.Errorf("spline must extrapolate below the calibration, got %+v", results[0])
	}
}

func TestClientServiceNotRunning(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "absent.sock")
	_, err := NewClient("unix://" + sock).GetVersion()
	if !errors.Is(err, ErrServiceNotRunning) {
		t.Fatalf("expected ErrServiceNotRunning, got %v", err)
	}
}
