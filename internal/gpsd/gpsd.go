package gpsd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// DefaultAddr is the conventional gpsd listen address.
const DefaultAddr = "localhost:2947"

const (
	dialTimeout = 2 * time.Second
	readTimeout = 5 * time.Second

	maxLineBytes = 256 * 1024
)

// Message classes this client cares about. gpsd also emits VERSION, WATCH,
// SKY and more; callers skip what they don't ask for.
const (
	ClassTPV     = "TPV"
	ClassDevices = "DEVICES"
)

// watchCommand enables JSON streaming reports.
const watchCommand = "?WATCH={\"enable\":true,\"json\":true}\n"

type msgBase struct {
	Class string `json:"class"`
}

// TPV is a time-position-velocity report. Pointer fields are nil when the
// report omitted them; gpsd only sends what the receiver knows.
type TPV struct {
	Class string `json:"class"`
	Mode  *int   `json:"mode"`
	Time  string `json:"time"`

	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`

	Alt   *float64 `json:"alt"`
	Speed *float64 `json:"speed"`
	Climb *float64 `json:"climb"`
}

// Device is one entry of a DEVICES report.
type Device struct {
	Path      string `json:"path"`
	Driver    string `json:"driver"`
	Subtype   string `json:"subtype"`
	Activated string `json:"activated"`
}

// Devices is gpsd's receiver-enumeration report.
type Devices struct {
	Class   string   `json:"class"`
	Devices []Device `json:"devices"`
}

// Conn is a single streaming connection to gpsd. It is not safe for
// concurrent use; callers open one per exchange and close it when done.
type Conn struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

// Dial connects to gpsd, sends the WATCH command, and returns a connection
// ready to stream reports. The whole exchange is bounded by an absolute
// deadline so a daemon that accepts but never writes cannot block forever.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	if strings.TrimSpace(addr) == "" {
		addr = DefaultAddr
	}
	d := &net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(time.Now().Add(readTimeout)); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.Write([]byte(watchCommand)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("gpsd watch failed: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &Conn{conn: conn, scanner: scanner}, nil
}

func (c *Conn) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// next returns the class and raw bytes of the next non-empty report, or
// io.EOF when the stream ends.
func (c *Conn) next() (string, []byte, error) {
	for {
		if !c.scanner.Scan() {
			err := c.scanner.Err()
			if err == nil {
				err = io.EOF
			}
			return "", nil, err
		}
		line := bytes.TrimSpace(c.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var base msgBase
		if err := json.Unmarshal(line, &base); err != nil {
			return "", nil, fmt.Errorf("gpsd json parse failed: %v", err)
		}
		raw := append([]byte(nil), line...)
		return strings.ToUpper(strings.TrimSpace(base.Class)), raw, nil
	}
}

// NextTPV skips reports until a TPV arrives and decodes it.
func (c *Conn) NextTPV() (TPV, error) {
	for {
		class, raw, err := c.next()
		if err != nil {
			return TPV{}, err
		}
		if class != ClassTPV {
			continue
		}
		var tpv TPV
		if err := json.Unmarshal(raw, &tpv); err != nil {
			return TPV{}, fmt.Errorf("gpsd tpv parse failed: %v", err)
		}
		return tpv, nil
	}
}

// NextDevices skips reports until a DEVICES arrives and decodes it.
func (c *Conn) NextDevices() (Devices, error) {
	for {
		class, raw, err := c.next()
		if err != nil {
			return Devices{}, err
		}
		if class != ClassDevices {
			continue
		}
		var devs Devices
		if err := json.Unmarshal(raw, &devs); err != nil {
			return Devices{}, fmt.Errorf("gpsd devices parse failed: %v", err)
		}
		return devs, nil
	}
}
