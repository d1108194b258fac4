package sensor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Service drives periodic updates for a set of sensors. Each sensor gets its
// own goroutine so a slow gpsd cannot stall the others; within one sensor the
// cycles run strictly in sequence.
type Service struct {
	sensors  []*Sensor
	onUpdate func(Snapshot)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService wires sensors to an optional per-update sink. onUpdate is called
// after every successful poll with the fresh snapshot; it may be nil.
func NewService(sensors []*Sensor, onUpdate func(Snapshot)) *Service {
	return &Service{sensors: sensors, onUpdate: onUpdate}
}

func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("sensor service is nil")
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, sensor := range s.sensors {
		sensor := sensor
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runSensor(childCtx, sensor)
		}()
	}
	return nil
}

func (s *Service) runSensor(ctx context.Context, sensor *Sensor) {
	log.Printf("sensor update loop started name=%q id=%s interval=%s", sensor.Name(), sensor.UniqueID(), sensor.interval)

	ticker := time.NewTicker(sensor.interval)
	defer ticker.Stop()

	// First cycle runs immediately so the host isn't blank for a full
	// interval after startup.
	s.updateOnce(ctx, sensor)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.updateOnce(ctx, sensor)
		}
	}
}

func (s *Service) updateOnce(ctx context.Context, sensor *Sensor) {
	if !sensor.Update(ctx) {
		return
	}
	if s.onUpdate != nil {
		s.onUpdate(sensor.Snapshot())
	}
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Snapshots returns the current view of every sensor.
func (s *Service) Snapshots() []Snapshot {
	if s == nil {
		return nil
	}
	out := make([]Snapshot, 0, len(s.sensors))
	for _, sensor := range s.sensors {
		out = append(out, sensor.Snapshot())
	}
	return out
}
