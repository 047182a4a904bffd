// Command nonagonengine runs the control engine against a configured
// set of device transports, draining their decoded input into the
// control loop and writing color state back out each frame. It also
// starts the scene-persistence admin API when a database is
// configured.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"nonagonengine/internal/adminapi"
	"nonagonengine/internal/clock"
	"nonagonengine/internal/config"
	"nonagonengine/internal/control"
	"nonagonengine/internal/gridmodel"
	"nonagonengine/internal/midicodec"
	"nonagonengine/internal/msgbus"
	"nonagonengine/internal/scenestore"
	"nonagonengine/internal/telemetry"
	"nonagonengine/internal/transport"
	"nonagonengine/internal/wire"
)

func main() {
	configPath := flag.String("config", "nonagonengine.toml", "path to engine config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(4096)
	defer logger.Shutdown()
	logger.Logf(telemetry.ComponentSystem, telemetry.LevelInfo, "starting at control=%dHz audio=%dHz", cfg.ControlRateHz, cfg.AudioRateHz)

	engine := control.NewEngine()

	router := midicodec.NewRouter(midicodec.ShapeProMk3)
	for _, route := range cfg.Routes {
		t, ok := midicodec.RouteTypeFromString(route.Type)
		if !ok {
			logger.Logf(telemetry.ComponentSystem, telemetry.LevelError, "route %d: unknown type %q, skipping", route.ID, route.Type)
			continue
		}
		router.Configure(route.ID, t)
		engine.Grids[route.ID] = gridmodel.NewGrid(engine.Bus, route.ID)
	}

	var frame uint64
	runDevices(cfg, engine, router, logger, &frame)
	runAdminAPI(cfg, logger)

	fc := clock.NewFrameClock(cfg.ControlRateHz, cfg.AudioRateHz)
	fc.ControlStep = func(uint64) error {
		now := atomic.AddUint64(&frame, 1)
		engine.Tick(now, 1.0/float64(cfg.ControlRateHz), func(msg msgbus.MessageIn) (int, bool) {
			if router.Configured(msg.RouteID) {
				return msg.RouteID, true
			}
			return 0, false
		})
		return nil
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.AudioRateHz))
	defer ticker.Stop()

	for range ticker.C {
		if err := fc.Step(); err != nil {
			logger.Logf(telemetry.ComponentSystem, telemetry.LevelError, "frame step: %v", err)
		}
	}
}

// runDevices opens one transport per configured cfg.Transports entry,
// paired positionally with the route of the same index, and starts a
// goroutine pumping its GridTouch input onto the message bus and its
// GridColor output back out, both keyed by that route's id.
func runDevices(cfg config.Config, engine *control.Engine, router *midicodec.Router, logger *telemetry.Logger, frame *uint64) {
	n := len(cfg.Transports)
	if len(cfg.Routes) < n {
		n = len(cfg.Routes)
	}
	for i := 0; i < n; i++ {
		t := cfg.Transports[i]
		routeID := cfg.Routes[i].ID
		stream, err := transport.Connect(t.Host, t.Port)
		if err != nil {
			logger.Logf(telemetry.ComponentTransport, telemetry.LevelError, "transport %s: %v", t.Name, err)
			continue
		}
		session := transport.NewSession(uint8(routeID), stream)
		if err := session.Handshake(); err != nil {
			logger.Logf(telemetry.ComponentTransport, telemetry.LevelError, "transport %s: handshake: %v", t.Name, err)
			continue
		}
		go pumpDevice(t.Name, routeID, session, engine, logger, frame)
	}
}

// pumpDevice runs the per-device read/write loop for the lifetime of
// the process: decoded GridTouch events become timestamped
// msgbus.MessageIn records, and the shared bus's color plane for
// routeID is mirrored back out as GridColor events on the same
// connection.
func pumpDevice(name string, routeID int, session *transport.Session, engine *control.Engine, logger *telemetry.Logger, frame *uint64) {
	protocol := wire.NewProtocol(session.Stream)
	var colorEpoch uint64

	for {
		events, err := protocol.GetEvents()
		if err != nil {
			logger.Logf(telemetry.ComponentTransport, telemetry.LevelError, "transport %s: %v", name, err)
		}
		now := atomic.LoadUint64(frame)
		for _, e := range events {
			if e.Type != wire.TypeGridTouch {
				continue
			}
			mode := msgbus.PadPress
			if e.Velocity() == 0 {
				mode = msgbus.PadRelease
			}
			engine.Messages.Push(msgbus.MessageIn{
				Timestamp: now,
				RouteID:   routeID,
				Mode:      mode,
				X:         e.X(),
				Y:         e.Y(),
				Amount:    int64(e.Velocity()),
			})
		}

		cells, err := engine.Bus.IterateColors(routeID, &colorEpoch)
		if err == nil {
			for _, c := range cells {
				if err := protocol.AddEvent(wire.NewGridColor(c.X, c.Y, c.Color.R, c.Color.G, c.Color.B)); err != nil {
					logger.Logf(telemetry.ComponentTransport, telemetry.LevelError, "transport %s: %v", name, err)
					break
				}
			}
			if err := protocol.SendEvents(); err != nil {
				logger.Logf(telemetry.ComponentTransport, telemetry.LevelError, "transport %s: %v", name, err)
			}
		}

		time.Sleep(2 * time.Millisecond)
	}
}

// runAdminAPI starts the scene-persistence HTTP control plane when a
// database DSN is configured; without one, scene save/load is simply
// unavailable for the run, a valid deployment for a rig with no admin
// surface.
func runAdminAPI(cfg config.Config, logger *telemetry.Logger) {
	if cfg.Database.DSN == "" {
		logger.Logf(telemetry.ComponentSystem, telemetry.LevelInfo, "no database configured, admin API disabled")
		return
	}

	store, err := scenestore.Open(cfg.Database.DSN)
	if err != nil {
		logger.Logf(telemetry.ComponentSystem, telemetry.LevelError, "scenestore: %v", err)
		return
	}

	server := adminapi.NewServer(store, []byte(cfg.AdminAPI.JWTSecret), []byte(cfg.AdminAPI.SessionKey))
	addr := cfg.AdminAPI.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	go func() {
		if err := server.Engine.Run(addr); err != nil {
			logger.Logf(telemetry.ComponentSystem, telemetry.LevelError, "admin API: %v", err)
		}
	}()
	logger.Logf(telemetry.ComponentSystem, telemetry.LevelInfo, "admin API listening on %s", addr)
}
