package sensors

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Reading ranges of the simulated climate station.
const (
	MinTemperature = 2.0
	MaxTemperature = 40.0
	MinHumidity    = 5.0
	MaxHumidity    = 80.0
)

var (
	ErrClockUnavailable = errors.New("sensors: clock unavailable")
	ErrInvalidDraw      = errors.New("sensors: random draw outside [0, 1]")
)

// Clock returns the current local time.
type Clock func() time.Time

// Source yields uniformly distributed values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

type runtimeSource struct{}

func (runtimeSource) Float64() float64 { return rand.Float64() }

// ClimateSensor simulates the station's temperature and humidity probe.
// Replace with a real driver once the LCU exposes one.
type ClimateSensor struct {
	clock  Clock
	source Source
}

type Option func(*ClimateSensor)

func WithClock(c Clock) Option {
	return func(s *ClimateSensor) { s.clock = c }
}

func WithSource(src Source) Option {
	return func(s *ClimateSensor) { s.source = src }
}

func NewClimateSensor(opts ...Option) *ClimateSensor {
	s := &ClimateSensor{
		clock:  time.Now,
		source: runtimeSource{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ClimateSensor) Name() string {
	return "climate"
}

// Read takes one sample. Temperature is drawn before humidity.
func (s *ClimateSensor) Read() (*SensorData, error) {
	now := s.clock()
	if now.IsZero() {
		return nil, ErrClockUnavailable
	}

	temperature, err := Uniform(s.source, MinTemperature, MaxTemperature)
	if err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}
	humidity, err := Uniform(s.source, MinHumidity, MaxHumidity)
	if err != nil {
		return nil, fmt.Errorf("humidity: %w", err)
	}

	return &SensorData{
		Timestamp:      now,
		Temperature:    Round2(temperature),
		Humidity:       Round2(humidity),
		HeaterState:    HeaterOff,
		Power48VState:  PowerOn,
		PowerLCUState:  PowerOn,
		LightningState: LightningUnavailable,
	}, nil
}

// Uniform maps one draw from src onto [lo, hi].
func Uniform(src Source, lo, hi float64) (float64, error) {
	f := src.Float64()
	if math.IsNaN(f) || f < 0 || f > 1 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDraw, f)
	}
	return min(max(lo+f*(hi-lo), lo), hi), nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
