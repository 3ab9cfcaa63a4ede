// Command analyzer runs structural inference over one spreadsheet or CSV
// file and prints the analysis as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ghgcli/internal/config"
	"ghgcli/internal/inference"
	"ghgcli/internal/infrastructure"
)

func main() {
	filePath := flag.String("file", "", "path of the .xlsx or .csv file to analyse")
	hint := flag.String("hint", "", "optional sheet-name hint, e.g. \"la only\"")
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -file <path> [-hint <sheet hint>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	analyzer := inference.NewAnalyzer(cfg.Inference, logger)
	analysis, err := analyzer.LocateStructure(context.Background(), *filePath, *hint)
	if err != nil {
		logger.Error("structural analysis failed",
			slog.String("file", *filePath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		logger.Error("failed to encode analysis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(string(out))
}
