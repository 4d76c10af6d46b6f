//go:build rp2040 || rp2350

// Command pico-karatos boots the kernel on a Pico-class board with the shell
// on UART0. Flash with tinygo: tinygo flash -target=pico ./cmd/pico-karatos
package main

import (
	"context"

	"karatos/hal"
	"karatos/kernel"
	"karatos/shell"
)

func main() {
	console := hal.DefaultConsole()

	k := kernel.New(kernel.Config{
		Console: console,
		Ticks:   hal.NewWallTicks(),
	})
	if err := k.SpawnDemoTasks(); err != nil {
		// Keep the console up; status will show the empty table.
		k.Log().Record("boot: demo spawn failed")
	}

	sh := shell.New(k)
	k.Run(context.Background(), sh.Service)
}
