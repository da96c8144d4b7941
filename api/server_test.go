package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uranury/sensor-output/output"
	"github.com/Uranury/sensor-output/sensors"
)

type brokenSensor struct{}

func (brokenSensor) Name() string { return "broken" }

func (brokenSensor) Read() (*sensors.SensorData, error) {
	return nil, errors.New("sensor offline")
}

func newTestServer(sensor sensors.Sensor) *Server {
	return NewServer("127.0.0.1:0", sensor, "climate_sensor", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSampleText(t *testing.T) {
	s := newTestServer(sensors.NewClimateSensor())

	rec := get(t, s, "/api/sensors/sample")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))

	data, err := output.ParseText(rec.Body.String())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), data.Timestamp, 5*time.Second)
	assert.GreaterOrEqual(t, data.Temperature, sensors.MinTemperature)
	assert.LessOrEqual(t, data.Temperature, sensors.MaxTemperature)
}

func TestSampleJSON(t *testing.T) {
	at := time.Date(2025, time.January, 15, 14, 32, 7, 0, time.UTC)
	s := newTestServer(sensors.NewClimateSensor(
		sensors.WithClock(func() time.Time { return at }),
	))

	rec := get(t, s, "/api/sensors/sample?format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))

	var data sensors.SensorData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.True(t, at.Equal(data.Timestamp))
	assert.Equal(t, "OFF", data.HeaterState)
	assert.Equal(t, "N.A.", data.LightningState)
}

func TestSampleLineProtocol(t *testing.T) {
	s := newTestServer(sensors.NewClimateSensor())

	rec := get(t, s, "/api/sensors/sample?format=line-protocol")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "climate_sensor,sensor=climate "))
}

func TestSampleFreshPerRequest(t *testing.T) {
	s := newTestServer(sensors.NewClimateSensor())

	seen := map[string]struct{}{}
	for range 20 {
		rec := get(t, s, "/api/sensors/sample?format=json")
		require.Equal(t, http.StatusOK, rec.Code)

		var data sensors.SensorData
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
		seen[output.FormatReading(data.Temperature)+"/"+output.FormatReading(data.Humidity)] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestSampleErrors(t *testing.T) {
	rec := get(t, newTestServer(sensors.NewClimateSensor()), "/api/sensors/sample?format=xml")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown format")

	rec = get(t, newTestServer(brokenSensor{}), "/api/sensors/sample")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "sensor read failed")
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(sensors.NewClimateSensor()), "/api/sensors/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sensor":"climate"}`, rec.Body.String())
}

func waitStopped(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("server still running 2s after Stop")
		return nil
	}
}

func TestStopBeforeStart(t *testing.T) {
	s := newTestServer(sensors.NewClimateSensor())
	require.NoError(t, s.Stop(context.Background()))

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	assert.ErrorIs(t, waitStopped(t, errCh), http.ErrServerClosed)
}

func TestStartThenStop(t *testing.T) {
	s := newTestServer(sensors.NewClimateSensor())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	assert.ErrorIs(t, waitStopped(t, errCh), http.ErrServerClosed)
}

func TestServeListener(t *testing.T) {
	s := newTestServer(sensors.NewClimateSensor())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/sensors/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","sensor":"climate"}`, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.ErrorIs(t, waitStopped(t, errCh), http.ErrServerClosed)
}
