package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/torbrinch/ha-gpsd-client/internal/config"
	"github.com/torbrinch/ha-gpsd-client/internal/publish"
	"github.com/torbrinch/ha-gpsd-client/internal/sensor"
	"github.com/torbrinch/ha-gpsd-client/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./gpsd-sensor.yaml", "Path to YAML config")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Printf("loaded .env overrides")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("gpsd-sensor starting")

	var sensors []*sensor.Sensor
	for _, sc := range cfg.Sensors {
		s, err := sensor.New(ctx, sensor.Config{
			Name:     sc.Name,
			Addr:     sc.Addr(),
			UniqueID: sc.UniqueID,
			Interval: sc.ScanInterval,
		})
		if err != nil {
			// Setup failure skips this entry; the process keeps running.
			log.Printf("gpsd sensor setup failed name=%q addr=%s: %v", sc.Name, sc.Addr(), err)
			continue
		}
		log.Printf("gpsd sensor ready name=%q id=%s addr=%s", s.Name(), s.UniqueID(), s.Addr())
		sensors = append(sensors, s)
	}
	if len(sensors) == 0 {
		log.Fatalf("no gpsd sensors available")
	}

	var pub *publish.Publisher
	if cfg.MQTT.Broker != "" {
		pub, err = publish.Connect(publish.Config{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
		})
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			defer pub.Close()
			log.Printf("mqtt publishing broker=%s prefix=%s", cfg.MQTT.Broker, cfg.MQTT.TopicPrefix)
		}
	}

	hub := web.NewHub()
	defer hub.Close()

	onUpdate := func(snap sensor.Snapshot) {
		hub.Broadcast(snap)
		if pub != nil {
			if err := pub.Publish(snap); err != nil {
				log.Printf("mqtt publish failed id=%s: %v", snap.UniqueID, err)
			}
		}
	}

	svc := sensor.NewService(sensors, onUpdate)
	if err := svc.Start(ctx); err != nil {
		log.Fatalf("sensor service start failed: %v", err)
	}
	defer svc.Close()

	if cfg.Web.Enable {
		srv := &http.Server{Addr: cfg.Web.Listen, Handler: web.Handler(svc, hub)}
		go func() {
			<-ctx.Done()
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = srv.Shutdown(shutCtx)
		}()
		go func() {
			log.Printf("web listening on %s", cfg.Web.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("web server stopped: %v", err)
				cancel()
			}
		}()
	}

	<-ctx.Done()
	log.Printf("gpsd-sensor stopping")
}
