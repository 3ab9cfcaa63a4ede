// Command web serves the analysis HTTP API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"ghgcli/internal/app"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	application, err := app.NewApplication(*configFile)
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
