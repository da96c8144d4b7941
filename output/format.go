package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Uranury/sensor-output/sensors"
)

type Format string

const (
	TextFormat         Format = "text"
	JSONFormat         Format = "json"
	LineProtocolFormat Format = "line-protocol"
)

var ErrUnknownFormat = errors.New("output: unknown format")

// ParseFormat accepts a format name case-insensitively; empty means text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return TextFormat, nil
	case TextFormat, JSONFormat, LineProtocolFormat:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// ContentType is the HTTP media type for f.
func (f Format) ContentType() string {
	if f == JSONFormat {
		return "application/json; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Encoder renders samples in one format.
type Encoder struct {
	Format      Format
	Measurement string
	Sensor      string
}

// Render returns d in the encoder's format, without a trailing newline.
func (e Encoder) Render(d *sensors.SensorData) ([]byte, error) {
	switch e.Format {
	case TextFormat, "":
		return []byte(FormatText(d)), nil
	case JSONFormat:
		b, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return b, nil
	case LineProtocolFormat:
		return []byte(FormatLineProtocol(d, e.Measurement, e.Sensor)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(e.Format))
	}
}

// Write renders d and writes it to w followed by a newline.
func (e Encoder) Write(w io.Writer, d *sensors.SensorData) error {
	b, err := e.Render(d)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	return nil
}
