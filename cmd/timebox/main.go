// Command timebox runs the time-locked box: it polls the lid switch,
// drives the servo lock and the two-digit countdown display, and persists
// lock state across power loss.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/timebox/internal/clock"
	"github.com/sweeney/timebox/internal/command"
	"github.com/sweeney/timebox/internal/display"
	"github.com/sweeney/timebox/internal/gpio"
	"github.com/sweeney/timebox/internal/logic"
	"github.com/sweeney/timebox/internal/mqtt"
	"github.com/sweeney/timebox/internal/servo"
	"github.com/sweeney/timebox/internal/status"
	"github.com/sweeney/timebox/internal/store"
	"github.com/sweeney/timebox/internal/web"
)

// buildUnix is the build timestamp (unix seconds), injected via
// -ldflags "-X main.buildUnix=$(date +%s)". Used to seed a clock that was
// never set and as the plausibility floor for IsRunning.
var buildUnix = ""

// defaultClockFloor is used when buildUnix was not injected: 2024-01-01T00:00:00Z.
const defaultClockFloor = 1704067200

func main() {
	poll := flag.Duration("poll", 20*time.Millisecond, "Control loop polling interval")
	debounce := flag.Duration("debounce", time.Second, "Lid switch debounce duration")
	hold := flag.Duration("hold", display.DefaultHold, "Per-digit display hold")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	minutes := flag.Int("minutes", 15, "Default lock duration in minutes (1-99)")
	pinSwitch := flag.Int("pin-switch", gpio.DefaultPinSwitch, "BCM pin number for the lid switch")
	pinServo := flag.Int("pin-servo", servo.DefaultPinServo, "BCM pin number for the lock servo")
	segmentPins := flag.String("pins-segments", "5,6,13,19,26,21,20", "BCM pins for display segments a-g")
	pinTens := flag.Int("pin-digit-tens", display.DefaultPins.DigitTens, "BCM pin for the tens digit enable")
	pinOnes := flag.Int("pin-digit-ones", display.DefaultPins.DigitOnes, "BCM pin for the ones digit enable")
	pinDP := flag.Int("pin-dp", display.DefaultPins.DecimalPoint, "BCM pin for the decimal point")
	nvram := flag.String("nvram", "/var/lib/timebox/nvram", "Path to the lock-state storage file")
	printState := flag.Bool("print-state", false, "Print persisted lock state and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")

	flag.Parse()

	segments, err := parseSegmentPins(*segmentPins)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	pins := display.PinConfig{
		Segments:     segments,
		DigitTens:    *pinTens,
		DigitOnes:    *pinOnes,
		DecimalPoint: *pinDP,
	}

	if err := run(*poll, *debounce, *hold, *broker, *heartbeat, *minutes, *pinSwitch, *pinServo, pins, *nvram, *printState, *httpAddr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll, debounce, hold time.Duration, broker string, heartbeat time.Duration, minutes, pinSwitch, pinServo int, pins display.PinConfig, nvram string, printState bool, httpAddr string) error {
	// Open persistent storage
	device, err := store.NewFileDevice(nvram)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer device.Close()
	codec := store.NewCodec(device)

	// Print state mode
	if printState {
		return printPersistedState(codec)
	}

	// A trusted clock is a hard requirement: without it the countdown
	// cannot survive power loss correctly, so refuse to run.
	clk := clock.NewSystem(clockFloor())
	if err := ensureClock(clk); err != nil {
		return err
	}

	// Initialize hardware
	sw, err := gpio.NewRealSwitch(pinSwitch)
	if err != nil {
		return fmt.Errorf("init switch gpio: %w", err)
	}
	defer sw.Close()

	actuator, err := servo.NewRealActuator(pinServo)
	if err != nil {
		return fmt.Errorf("init servo: %w", err)
	}
	defer actuator.Close()

	dispPins, err := display.NewRealPins(pins)
	if err != nil {
		return fmt.Errorf("init display gpio: %w", err)
	}
	disp := display.NewMux(dispPins, hold)
	defer disp.Close()

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		DebounceMs:  debounce.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		HTTPAddr:    httpAddr,
		StoragePath: nvram,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Restore lock state, crediting time that passed while powered off
	ctrl, err := logic.NewController(actuator, codec, minutes)
	if err != nil {
		return err
	}
	rtcNow, err := clk.Now()
	if err != nil {
		return fmt.Errorf("read clock: %w", err)
	}
	recovered, err := ctrl.RecoverOnBoot(rtcNow, time.Now())
	if err != nil {
		log.Printf("recovery failed, starting unlocked: %v", err)
		if _, uerr := ctrl.Unlock(time.Now()); uerr != nil {
			return fmt.Errorf("unlock after failed recovery: %w", uerr)
		}
	}
	if recovered != nil {
		log.Printf("recovered: %s (remaining=%dm)", recovered.Type, recovered.RemainingMinutes)
		if err := publisher.Publish(*recovered); err != nil {
			log.Printf("publish recovery event: %v", err)
		}
	} else {
		log.Printf("recovered: %s", ctrl.State())
	}
	tracker.Update(ctrl.State(), ctrl.DisplayMinutes(), ctrl.Configured(), false, ctrl.Counts())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: poll=%v debounce=%v broker=%s heartbeat=%v minutes=%d", poll, debounce, broker, heartbeat, minutes)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	cmds := command.NewReader(os.Stdin)

	return runLoop(sw, disp, ctrl, clk, publisher, publisher, tracker, debounce, heartbeat, time.Now, ticker.C, cmds.Lines(), sigCh)
}

func runLoop(sw gpio.Switch, disp display.Driver, ctrl *logic.Controller, clk clock.Clock, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, debounce, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, cmds <-chan string, sig <-chan os.Signal) error {
	startTime := now()
	debouncer := logic.NewDebouncer(debounce)
	minuteTicker := logic.NewTicker(startTime)
	lastHeartbeat := startTime
	blink := false

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if err := disp.Blank(); err != nil {
				log.Printf("blank display: %v", err)
			}
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case line, ok := <-cmds:
			if !ok {
				// Stdin closed; stop selecting on it
				cmds = nil
				continue
			}
			n, err := command.Parse(line)
			if err != nil {
				log.Printf("command rejected: %v", err)
				continue
			}
			if err := ctrl.SetDuration(n); err != nil {
				log.Printf("command rejected: %v", err)
				continue
			}
			log.Printf("lock duration set to %d minutes", n)

		case <-tick:
			t := now()

			rtcNow, err := clk.Now()
			if err != nil {
				log.Printf("clock read error: %v", err)
				continue
			}

			closed, err := sw.Read()
			if err != nil {
				log.Printf("switch read error: %v", err)
				continue
			}

			if edge := debouncer.Process(closed, t); edge == logic.EdgeClosed {
				event, err := ctrl.TryLock(rtcNow, t)
				if err != nil {
					log.Printf("lock failed: %v", err)
				}
				if event != nil {
					log.Printf("event: %s (remaining=%dm)", event.Type, event.RemainingMinutes)
					minuteTicker.Reset(t)
					blink = false
					if err := publisher.Publish(*event); err != nil {
						log.Printf("publish error: %v", err)
						// Don't crash on publish failure
					}
				}
			}

			if ctrl.Locked() {
				seconds, minutes := minuteTicker.Advance(t)
				for i := 0; i < seconds; i++ {
					blink = !blink
				}
				for i := 0; i < minutes && ctrl.Locked(); i++ {
					event, err := ctrl.Tick(t)
					if err != nil {
						log.Printf("countdown tick failed: %v", err)
					}
					if event != nil {
						log.Printf("event: %s", event.Type)
						if err := publisher.Publish(*event); err != nil {
							log.Printf("publish error: %v", err)
						}
					}
				}
			}
			if !ctrl.Locked() {
				blink = false
			}

			// Check for heartbeat
			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				log.Printf("heartbeat: state=%s remaining=%dm locks=%d unlocks=%d",
					ctrl.State(), ctrl.Remaining(), ctrl.Counts().Locks, ctrl.Counts().Unlocks)

				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					tracker.Update(ctrl.State(), ctrl.DisplayMinutes(), ctrl.Configured(), debouncer.Baselined(), ctrl.Counts())
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			if err := disp.Refresh(display.FrameFor(ctrl.DisplayMinutes()), blink); err != nil {
				log.Printf("display refresh error: %v", err)
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(ctrl.State(), ctrl.DisplayMinutes(), ctrl.Configured(), debouncer.Baselined(), ctrl.Counts())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

// ensureClock verifies the clock holds trusted time, seeding it from the
// build timestamp if it was never set. Failure is fatal: running with
// unknown time would corrupt the countdown.
func ensureClock(clk clock.Clock) error {
	running, err := clk.IsRunning()
	if err != nil {
		return fmt.Errorf("probe clock: %w", err)
	}
	if running {
		return nil
	}

	floor := clockFloor()
	log.Printf("clock not set, seeding from build time %d", floor)
	if err := clk.SetTime(floor); err != nil {
		log.Printf("seed clock: %v", err)
	}

	running, err = clk.IsRunning()
	if err != nil {
		return fmt.Errorf("probe clock: %w", err)
	}
	if !running {
		return fmt.Errorf("real-time clock not available")
	}
	return nil
}

// clockFloor returns the build timestamp, or a fixed fallback when the
// build did not inject one.
func clockFloor() uint32 {
	if buildUnix == "" {
		return defaultClockFloor
	}
	u, err := strconv.ParseUint(buildUnix, 10, 32)
	if err != nil {
		log.Printf("bad buildUnix %q: %v", buildUnix, err)
		return defaultClockFloor
	}
	return uint32(u)
}

func printPersistedState(codec *store.Codec) error {
	st, ok, err := codec.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if !ok {
		fmt.Println("no valid persisted state")
		return nil
	}
	if st.Locked {
		lockedAt := time.Unix(int64(st.LockedAt), 0).UTC().Format(time.RFC3339)
		fmt.Printf("LOCKED, %d minutes remaining (locked at %s)\n", st.RemainingMinutes, lockedAt)
		return nil
	}
	fmt.Println("UNLOCKED")
	return nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// parseSegmentPins parses the seven comma-separated segment pin numbers.
func parseSegmentPins(s string) ([7]int, error) {
	var pins [7]int
	parts := strings.Split(s, ",")
	if len(parts) != len(pins) {
		return pins, fmt.Errorf("pins-segments: need %d pins, got %d", len(pins), len(parts))
	}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return pins, fmt.Errorf("pins-segments: bad pin %q", part)
		}
		pins[i] = n
	}
	return pins, nil
}
