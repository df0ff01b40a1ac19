package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/leandrodaf/midiclock/internal/logger"
	"github.com/leandrodaf/midiclock/internal/oscsync"
	"github.com/leandrodaf/midiclock/sdk/clock"
	"github.com/leandrodaf/midiclock/sdk/contracts"
	"github.com/leandrodaf/midiclock/sdk/midi"
	"github.com/leandrodaf/midiclock/sdk/timing"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register the gomidi backend driver.
)

var (
	bpm      = flag.Float64("bpm", contracts.DefaultTempo, "tempo in beats per minute (20-300)")
	ppq      = flag.Int("ppq", contracts.DefaultPPQ, "tick resolution for musical positions")
	device   = flag.String("device", "", "send MIDI clock to the first destination whose name contains this")
	backend  = flag.String("backend", "", "MIDI backend: coremidi, winmm or gomidi (default: native)")
	list     = flag.Bool("list", false, "list MIDI destinations and exit")
	oscAddr  = flag.String("osc", "", "publish oscsync messages to this UDP host:port")
	duration = flag.Duration("duration", 0, "stop after this long (default: run until interrupted)")
	logFile  = flag.String("log-file", "", "write logs to this file instead of the console")
	debug    = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	log := logger.NewStandardLogger()
	if *logFile != "" {
		log.SetDestination(contracts.FileLog, *logFile)
	}
	defer log.Sync()

	level := contracts.InfoLevel
	if *debug {
		level = contracts.DebugLevel
	}

	if *list {
		listDevices(log, level)
		return
	}

	mt, err := timing.NewMusicalTime(*ppq)
	if err != nil {
		log.Error("Invalid resolution", log.Field().Error("error", err))
		return
	}

	c, err := clock.NewClock(
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithPPQ(*ppq),
		contracts.WithInitialTempo(*bpm),
		contracts.WithHandlers(contracts.Handlers{
			OnQuarterNote: func(quarter int) {
				ticks := quarter * mt.PPQ()
				log.Info("Beat",
					log.Field().Int("quarter", quarter),
					log.Field().Int("bar", ticks/mt.TicksPerBar()+1),
					log.Field().Int("tick", ticks))
			},
			OnBarStart: func() { log.Debug("Bar start") },
		}),
	)
	if err != nil {
		log.Error("Failed to create clock", log.Field().Error("error", err))
		return
	}
	defer c.Cleanup()

	if *device != "" {
		output, err := midi.NewClockOutput(
			contracts.WithOutputLogger(log),
			contracts.WithOutputLogLevel(level),
			contracts.WithBackend(contracts.Backend(*backend)),
			contracts.WithDeviceName(*device),
		)
		if err != nil {
			log.Error("Failed to open MIDI output", log.Field().Error("error", err))
			return
		}
		bridge := midi.Attach(c, output, log)
		defer func() {
			if err := bridge.Close(); err != nil {
				log.Error("Failed to close MIDI output", log.Field().Error("error", err))
			}
			gomidi.CloseDriver()
		}()
	}

	if *oscAddr != "" {
		host, portStr, err := net.SplitHostPort(*oscAddr)
		if err != nil {
			log.Error("Invalid OSC address", log.Field().Error("error", err))
			return
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			log.Error("Invalid OSC port", log.Field().Error("error", err))
			return
		}
		detach := oscsync.NewBroadcaster(host, port, log).Attach(c)
		defer detach()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	log.Info("Pulse interval", log.Field().Duration("interval", mt.PulseInterval(c.CurrentTempo())))
	started := time.Now()
	c.Start()
	fmt.Println("Clock running... Press Ctrl+C to exit.")
	<-ctx.Done()
	c.Stop()

	log.Info("Session length", log.Field().Duration("elapsed", time.Since(started)))
}

func listDevices(log contracts.Logger, level contracts.LogLevel) {
	output, err := midi.NewClockOutput(
		contracts.WithOutputLogger(log),
		contracts.WithOutputLogLevel(level),
		contracts.WithBackend(contracts.Backend(*backend)),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI output", log.Field().Error("error", err))
		return
	}
	defer output.Stop()

	devices, err := output.ListDevices()
	if err != nil {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	for _, d := range devices {
		fmt.Printf("%2d  %s (%s)\n", d.ID, d.Name, d.Manufacturer)
	}
}
