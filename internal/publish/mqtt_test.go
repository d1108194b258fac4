package publish

import (
	"encoding/json"
	"testing"

	"github.com/torbrinch/ha-gpsd-client/internal/sensor"
)

func TestStateTopic(t *testing.T) {
	cases := []struct {
		prefix string
		id     string
		want   string
	}{
		{"gpsd", "roof", "gpsd/roof/state"},
		{"/gpsd/", "roof", "gpsd/roof/state"},
		{"", "roof", "roof/state"},
		{"home/gps", "dev_ttyusb0", "home/gps/dev_ttyusb0/state"},
	}
	for _, tc := range cases {
		if got := StateTopic(tc.prefix, tc.id); got != tc.want {
			t.Fatalf("StateTopic(%q,%q)=%q want %q", tc.prefix, tc.id, got, tc.want)
		}
	}
}

func TestConnect_RequiresBroker(t *testing.T) {
	if _, err := Connect(Config{}); err == nil {
		t.Fatalf("expected error for empty broker")
	}
}

func TestSnapshotPayloadOmitsUnknowns(t *testing.T) {
	payload, err := json.Marshal(sensor.Snapshot{Name: "GPSD Client", UniqueID: "roof", Mode: "Unknown"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"latitude", "longitude", "elevation", "utc_time", "speed", "climb"} {
		if _, ok := m[key]; ok {
			t.Fatalf("key %q should be omitted while unknown", key)
		}
	}
	if m["mode"] != "Unknown" {
		t.Fatalf("mode=%v", m["mode"])
	}
	if _, ok := m["state"]; !ok {
		t.Fatalf("state must always be present")
	}
}
