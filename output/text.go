// Package output renders climate samples for stdout and HTTP callers.
package output

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Uranury/sensor-output/sensors"
)

// TimestampLayout is the station's date format, e.g. "Wed Jan 15 14:32:07 2025".
const TimestampLayout = "Mon Jan 02 15:04:05 2006"

var ErrMalformedLine = errors.New("output: malformed sample line")

var linePattern = regexp.MustCompile(`^date = (\w{3} \w{3} \d{2} \d{2}:\d{2}:\d{2} \d{4})` +
	` temperature = (-?\d+(?:\.\d+)?)` +
	` humidity = (-?\d+(?:\.\d+)?)` +
	` heater state = (\S+)` +
	` power 48V state = (\S+)` +
	` power LCU state = (\S+)` +
	` lightning state = (\S+)$`)

// FormatText renders d as a single station line without the trailing newline.
func FormatText(d *sensors.SensorData) string {
	var b strings.Builder
	b.WriteString("date = ")
	b.WriteString(d.Timestamp.Local().Format(TimestampLayout))
	b.WriteString(" temperature = ")
	b.WriteString(FormatReading(d.Temperature))
	b.WriteString(" humidity = ")
	b.WriteString(FormatReading(d.Humidity))
	b.WriteString(" heater state = ")
	b.WriteString(d.HeaterState)
	b.WriteString(" power 48V state = ")
	b.WriteString(d.Power48VState)
	b.WriteString(" power LCU state = ")
	b.WriteString(d.PowerLCUState)
	b.WriteString(" lightning state = ")
	b.WriteString(d.LightningState)
	return b.String()
}

// FormatReading prints v in its shortest round-tripping form, keeping at
// least one fractional digit: 21.5, 42.33, 40.0.
func FormatReading(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseText reads a line produced by FormatText. The timestamp is
// interpreted in local time.
func ParseText(line string) (*sensors.SensorData, error) {
	m := linePattern.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return nil, ErrMalformedLine
	}

	ts, err := time.ParseInLocation(TimestampLayout, m[1], time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: date: %v", ErrMalformedLine, err)
	}
	temperature, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: temperature: %v", ErrMalformedLine, err)
	}
	humidity, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: humidity: %v", ErrMalformedLine, err)
	}

	return &sensors.SensorData{
		Timestamp:      ts,
		Temperature:    temperature,
		Humidity:       humidity,
		HeaterState:    m[4],
		Power48VState:  m[5],
		PowerLCUState:  m[6],
		LightningState: m[7],
	}, nil
}
