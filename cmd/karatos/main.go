//go:build !rp2040 && !rp2350

// Command karatos runs the kernel demo on a host terminal: the demonstration
// task set plus the interactive console, until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"karatos/hal"
	"karatos/kernel"
	"karatos/shell"
)

func main() {
	console, err := hal.OpenTTY()
	if err != nil {
		fmt.Fprintln(os.Stderr, "karatos:", err)
		os.Exit(1)
	}
	defer console.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	k := kernel.New(kernel.Config{
		Console: console,
		Ticks:   hal.NewWallTicks(),
	})
	if err := k.SpawnDemoTasks(); err != nil {
		fmt.Fprintln(os.Stderr, "karatos:", err)
		os.Exit(1)
	}

	sh := shell.New(k)
	k.Run(ctx, func() {
		sh.Service()
		// Pace the busy loop; a hardware target just spins.
		time.Sleep(50 * time.Microsecond)
	})
}
