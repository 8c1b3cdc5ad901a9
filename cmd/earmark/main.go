package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/linuxmatters/earmark/internal/analysis"
	"github.com/linuxmatters/earmark/internal/cli"
	"github.com/linuxmatters/earmark/internal/logging"
)

var (
	version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	Config  string `short:"c" type:"path" help:"Path to YAML config file overriding detector thresholds (optional)"`
	Logs    bool   `help:"Write a detailed analysis report next to the input file"`
	Verbose bool   `help:"Log analysis diagnostics to stderr"`
	File    string `arg:"" name:"file" help:"Audio file to analyse" type:"path" optional:""`
}

func main() {
	os.Exit(run())
}

func run() int {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("earmark"),
		kong.Description("Acoustic event analyzer for recorded audio"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		return 0
	}

	// The result document always goes to stdout, success or not. A missing
	// argument is reported the same way, plus a non-zero exit.
	if cliArgs.File == "" {
		emit(analysis.Failure(errors.New("usage: earmark <audio_file>")))
		return 1
	}

	cfg := analysis.DefaultConfig()
	if cliArgs.Config != "" {
		loaded, err := analysis.LoadConfig(cliArgs.Config)
		if err != nil {
			emit(analysis.Failure(err))
			return 1
		}
		cfg = loaded
	}

	log := logrus.New()
	if cliArgs.Verbose {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetOutput(io.Discard)
	}

	pipeline, err := analysis.NewPipeline(cfg, analysis.WithLogger(log))
	if err != nil {
		emit(analysis.Failure(err))
		return 1
	}

	startTime := time.Now()
	result := pipeline.AnalyzeFile(cliArgs.File)
	emit(result)

	// Generate analysis report if --logs flag is set
	if cliArgs.Logs && result.Success {
		reportData := logging.ReportData{
			InputPath: cliArgs.File,
			StartTime: startTime,
			EndTime:   time.Now(),
			Config:    cfg,
			Result:    result,
		}
		if err := logging.GenerateReport(reportData); err != nil {
			cli.PrintError(fmt.Sprintf("failed to write analysis report: %v", err))
		}
	}

	if !result.Success {
		return 1
	}
	return 0
}

// emit prints the result document to stdout with multi-line indentation.
func emit(result *analysis.Result) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		// Should not happen; fall back to a minimal failure document.
		fmt.Println(`{"success": false, "error": "failed to encode result"}`)
		return
	}
	fmt.Println(string(out))
}
