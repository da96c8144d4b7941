package output

import (
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Uranury/sensor-output/sensors"
)

// NewPoint converts a sample into an InfluxDB point tagged with the sensor name.
func NewPoint(d *sensors.SensorData, measurement, sensor string) *write.Point {
	return influxdb2.NewPoint(measurement,
		map[string]string{"sensor": sensor},
		map[string]interface{}{
			"temperature":     d.Temperature,
			"humidity":        d.Humidity,
			"heater_state":    d.HeaterState,
			"power_48v_state": d.Power48VState,
			"power_lcu_state": d.PowerLCUState,
			"lightning_state": d.LightningState,
		},
		d.Timestamp)
}

// FormatLineProtocol renders d in InfluxDB line protocol with second precision.
func FormatLineProtocol(d *sensors.SensorData, measurement, sensor string) string {
	p := NewPoint(d, measurement, sensor)
	return strings.TrimSuffix(write.PointToLineProtocol(p, time.Second), "\n")
}
