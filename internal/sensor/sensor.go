package sensor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Config describes one gpsd-backed sensor.
type Config struct {
	Name     string
	Addr     string
	UniqueID string
	Interval time.Duration
}

// Sensor owns the latest fix for one gpsd endpoint. The fix is replaced
// wholesale on every successful poll and left untouched otherwise.
type Sensor struct {
	name     string
	addr     string
	interval time.Duration
	identity Identity

	mu         sync.RWMutex
	fix        Fix
	lastUpdate time.Time
}

// Snapshot is the presentation view of a sensor: the numeric state plus the
// attribute set. Pointer fields are omitted while unknown.
type Snapshot struct {
	Name     string `json:"name"`
	UniqueID string `json:"unique_id"`
	Addr     string `json:"addr"`

	State int `json:"state"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Elevation *float64 `json:"elevation,omitempty"`
	UTCTime   string   `json:"utc_time,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Climb     *float64 `json:"climb,omitempty"`
	Mode      string   `json:"mode"`

	LastUpdateUTC string `json:"last_update_utc,omitempty"`
}

// New resolves the sensor's identity against gpsd and returns a sensor ready
// to poll. Resolution failure means this sensor is not created; the caller
// logs and moves on.
func New(ctx context.Context, cfg Config) (*Sensor, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("sensor addr is required")
	}
	if cfg.Name == "" {
		cfg.Name = "GPSD Client"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}

	ident, err := ResolveIdentity(ctx, cfg.Addr, cfg.UniqueID)
	if err != nil {
		return nil, err
	}
	return &Sensor{
		name:     cfg.Name,
		addr:     cfg.Addr,
		interval: cfg.Interval,
		identity: ident,
	}, nil
}

func (s *Sensor) Name() string       { return s.name }
func (s *Sensor) Addr() string       { return s.addr }
func (s *Sensor) UniqueID() string   { return s.identity.ID }
func (s *Sensor) Identity() Identity { return s.identity }

// Update performs one poll cycle. Failures are swallowed inside PollFix; the
// previous fix stays in place and updated reports false.
func (s *Sensor) Update(ctx context.Context) bool {
	fix, ok := PollFix(ctx, s.addr)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.fix = fix
	s.lastUpdate = time.Now().UTC()
	s.mu.Unlock()
	return true
}

// Fix returns the current fix snapshot.
func (s *Sensor) Fix() Fix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fix
}

// State is the sensor's numeric value: the fix mode.
func (s *Sensor) State() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fix.Mode
}

func (s *Sensor) Snapshot() Snapshot {
	s.mu.RLock()
	fix := s.fix
	lastUpdate := s.lastUpdate
	s.mu.RUnlock()

	out := Snapshot{
		Name:      s.name,
		UniqueID:  s.identity.ID,
		Addr:      s.addr,
		State:     fix.Mode,
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Elevation: fix.Altitude,
		Speed:     fix.Speed,
		Climb:     fix.Climb,
		Mode:      ModeString(fix.Mode),
	}
	if fix.Time != nil {
		out.UTCTime = fix.Time.Format(time.RFC3339Nano)
	}
	if !lastUpdate.IsZero() {
		out.LastUpdateUTC = lastUpdate.Format(time.RFC3339Nano)
	}
	return out
}
