package sensors

import "time"

// Fixed state flags reported by the climate station alongside every reading.
const (
	HeaterOff            = "OFF"
	PowerOn              = "ON"
	LightningUnavailable = "N.A."
)

// SensorData is a single climate sample
type SensorData struct {
	Timestamp      time.Time `json:"timestamp"`
	Temperature    float64   `json:"temperature"`
	Humidity       float64   `json:"humidity"`
	HeaterState    string    `json:"heater_state"`
	Power48VState  string    `json:"power_48v_state"`
	PowerLCUState  string    `json:"power_lcu_state"`
	LightningState string    `json:"lightning_state"`
}

// Sensor interface that all sensors must implement
type Sensor interface {
	Read() (*SensorData, error)
	Name() string
}
