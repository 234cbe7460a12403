package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/LayerOneX/cargo-l1x/internal/cli"
)

// The entry point for cargo-l1x.
//
// Cargo runs external subcommands as "cargo-l1x l1x <args>", so a leading
// "l1x" is dropped. SIGINT and SIGTERM cancel the running build, which kills
// the external tool in flight.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cargoArgs(os.Args[1:]), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cargoArgs strips the subcommand name cargo passes as the first argument.
func cargoArgs(args []string) []string {
	if len(args) > 0 && args[0] == "l1x" {
		return args[1:]
	}
	return args
}
