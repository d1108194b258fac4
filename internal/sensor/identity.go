package sensor

import (
	"context"
	"fmt"
	"strings"

	"github.com/torbrinch/ha-gpsd-client/internal/gpsd"
)

// Identity names one gpsd-backed sensor. It is resolved once at setup and
// never changes afterwards.
type Identity struct {
	Path    string
	Driver  string
	Subtype string

	// ID is the explicit override when one was configured, otherwise a slug
	// of path/driver/subtype.
	ID string
}

// ResolveIdentity connects to gpsd, waits for the DEVICES report, and derives
// a stable sensor id from the first enumerated receiver. An explicitID is
// used verbatim; the DEVICES wait still runs so setup fails early when the
// daemon is unreachable.
func ResolveIdentity(ctx context.Context, addr, explicitID string) (Identity, error) {
	conn, err := gpsd.Dial(ctx, addr)
	if err != nil {
		return Identity{}, fmt.Errorf("gpsd dial failed addr=%s: %w", addr, err)
	}
	defer conn.Close()

	devs, err := conn.NextDevices()
	if err != nil {
		return Identity{}, fmt.Errorf("gpsd devices report not received addr=%s: %w", addr, err)
	}

	var ident Identity
	if len(devs.Devices) > 0 {
		ident.Path = devs.Devices[0].Path
		ident.Driver = devs.Devices[0].Driver
		ident.Subtype = devs.Devices[0].Subtype
	}

	if explicitID != "" {
		ident.ID = explicitID
		return ident, nil
	}
	ident.ID = Slugify(ident.Path + "_" + ident.Driver + "_" + ident.Subtype)
	if ident.ID == "" {
		// All three fields empty; never hand out an empty id.
		ident.ID = "gpsd"
	}
	return ident, nil
}

// Slugify folds s to lowercase and collapses every run outside [a-z0-9] into
// a single underscore, trimming separators at both ends.
func Slugify(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		isSafe := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isSafe {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
