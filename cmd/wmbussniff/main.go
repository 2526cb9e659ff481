// Command wmbussniff listens for wM-Bus frames on a serial dongle (or an
// in-memory stub, for smoke-testing without hardware) and logs each decoded
// frame until interrupted.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ystepanoff/gowmbus"
)

func main() {
	var (
		port        = pflag.String("port", "", "serial port path (e.g. /dev/ttyUSB0); empty runs an in-memory stub")
		baud        = pflag.Int("baud", 9600, "serial port baud rate")
		mode        = pflag.String("mode", "t", "wM-Bus mode to decode: c or t")
		withoutELL  = pflag.Bool("without-ell", false, "skip ELL parsing; treat every frame's APL as starting right after the DLL")
		readTimeout = pflag.Duration("read-timeout", 500*time.Millisecond, "per-read timeout for the serial port")
	)
	pflag.Parse()

	decodeMode, err := parseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "[wmbussniff] ", log.LstdFlags)

	var stackOpt gowmbus.ControllerOption
	if *withoutELL {
		stackOpt = gowmbus.WithStack(gowmbus.NewStackWithoutELL())
	} else {
		stackOpt = gowmbus.WithStack(gowmbus.NewStack())
	}

	var ctrl *gowmbus.Controller
	if *port == "" {
		logger.Print("no --port given, running against an in-memory stub driver")
		ctrl, _ = gowmbus.NewStubController(0, stackOpt, gowmbus.WithLogger(logger))
	} else {
		ctrl = gowmbus.NewSerialController(*port, *baud, *readTimeout, stackOpt, gowmbus.WithLogger(logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctrl.Init(ctx); err != nil {
		logger.Fatalf("init: %v", err)
	}
	defer ctrl.Idle(context.Background())

	logger.Printf("listening for mode %s frames", decodeMode)
	for result := range ctrl.Receive(ctx) {
		if result.Err != nil {
			logger.Printf("frame rejected: %v", result.Err)
			continue
		}
		f := result.Frame
		if (f.Packet.Mode == gowmbus.ModeTMTO) != (decodeMode == gowmbus.ModeTMTO) {
			continue
		}
		addr := "unknown"
		if f.Packet.DLL != nil {
			addr = f.Packet.DLL.Address.String()
		}
		logger.Printf("frame from %s mode=%s rssi=%d apl_len=%d",
			addr, f.Packet.Mode, f.RSSI, len(f.Packet.APL))
	}
}

func parseMode(s string) (gowmbus.Mode, error) {
	switch s {
	case "c":
		return gowmbus.ModeCFFB, nil
	case "t":
		return gowmbus.ModeTMTO, nil
	default:
		return 0, fmt.Errorf("wmbussniff: unknown mode %q, want \"c\" or \"t\"", s)
	}
}
