package sensor

import (
	"context"
	"log"

	"github.com/torbrinch/ha-gpsd-client/internal/gpsd"
)

// PollFix opens a fresh gpsd connection, waits for the first TPV report, and
// decodes it. Any failure yields ok=false; callers treat that as "no data
// this cycle" and keep whatever fix they already have.
//
// A new connection per poll means a dead one never needs recovery: there is
// nothing retained between cycles.
func PollFix(ctx context.Context, addr string) (Fix, bool) {
	conn, err := gpsd.Dial(ctx, addr)
	if err != nil {
		log.Printf("gpsd poll dial failed addr=%s: %v", addr, err)
		return Fix{}, false
	}
	defer conn.Close()

	tpv, err := conn.NextTPV()
	if err != nil {
		log.Printf("gpsd poll read stopped addr=%s: %v", addr, err)
		return Fix{}, false
	}
	return fixFromTPV(tpv), true
}
