package sensor

import (
	"strings"
	"time"

	"github.com/torbrinch/ha-gpsd-client/internal/gpsd"
)

// Fix is one decoded position report. Every field except Mode is nil when the
// TPV omitted it; a receiver without a fix reports almost nothing and that
// absence must survive into the snapshot.
type Fix struct {
	Latitude  *float64
	Longitude *float64
	Altitude  *float64
	Time      *time.Time
	Speed     *float64
	Climb     *float64
	Mode      int
}

// ModeString maps gpsd's fix mode to its display label.
func ModeString(mode int) string {
	switch mode {
	case 3:
		return "3D Fix"
	case 2:
		return "2D Fix"
	case 1:
		return "No Fix"
	default:
		return "Unknown"
	}
}

func fixFromTPV(tpv gpsd.TPV) Fix {
	f := Fix{
		Latitude:  cloneFloat(tpv.Lat),
		Longitude: cloneFloat(tpv.Lon),
		Altitude:  cloneFloat(tpv.Alt),
		Speed:     cloneFloat(tpv.Speed),
		Climb:     cloneFloat(tpv.Climb),
	}
	if tpv.Mode != nil {
		f.Mode = *tpv.Mode
	}
	if strings.TrimSpace(tpv.Time) != "" {
		if t, err := time.Parse(time.RFC3339Nano, tpv.Time); err == nil {
			u := t.UTC()
			f.Time = &u
		}
	}
	return f
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
