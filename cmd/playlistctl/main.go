// Command playlistctl manages YouTube playlists from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/TamarElitzur/youtubePlaylists/internal/client"
	"github.com/TamarElitzur/youtubePlaylists/pkg/logger"
)

func main() {
	log := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: true, Output: os.Stderr, Service: "playlistctl"})

	runner := NewRunner(RunnerOpts{Logger: log})

	app := &cli.Command{
		Name:     "playlistctl",
		Usage:    "Manage your YouTube playlists",
		Version:  "1.0.0",
		Flags:    []cli.Flag{configFlag()},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, client.ErrNotLoggedIn):
			fmt.Fprintln(os.Stderr, "not logged in; run `playlistctl login` first")
		case errors.Is(err, client.ErrNetwork):
			fmt.Fprintf(os.Stderr, "cannot reach the server: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
