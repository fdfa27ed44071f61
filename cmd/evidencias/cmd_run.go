package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/carlosaherrerap/Evidencias/internal/config"
	"github.com/carlosaherrerap/Evidencias/internal/engine"
	"github.com/carlosaherrerap/Evidencias/internal/engine/classifier"
	"github.com/carlosaherrerap/Evidencias/internal/evidence"
	"github.com/carlosaherrerap/Evidencias/internal/model"
	"github.com/carlosaherrerap/Evidencias/internal/output"
	"github.com/carlosaherrerap/Evidencias/internal/output/async"
	"github.com/carlosaherrerap/Evidencias/internal/output/file"
	"github.com/carlosaherrerap/Evidencias/internal/output/multi"
	"github.com/carlosaherrerap/Evidencias/internal/output/runlog"
	"github.com/carlosaherrerap/Evidencias/internal/output/stdout"
	"github.com/carlosaherrerap/Evidencias/internal/pipeline"
)

var (
	inputs       model.Inputs
	jsonOutput   bool
	runLogPath   string
	progressPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the evidence packages",
	Example: `  evidencias run --fuente datos_fuente.xlsx --nuevos nuevos_datos.xlsx \
    --sms sms.xlsx --consolidados consolidados.xlsx --ivr ivr.mp3 \
    --out ./salida --container EVIDENCIAS_ENERO`,
	Args: cobra.NoArgs,
	RunE: runEvidence,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&inputs.Primary, "fuente", "", "Primary client list (datos_fuente)")
	f.StringVar(&inputs.Management, "nuevos", "", "Management records (nuevos_datos)")
	f.StringVar(&inputs.SMS, "sms", "", "SMS records (optional)")
	f.StringVar(&inputs.Consolidated, "consolidados", "", "Call-recording index (optional)")
	f.StringVar(&inputs.IVRAudio, "ivr", "", "IVR audio copied to every IVR client")
	f.StringVar(&inputs.OutputDir, "out", "", "Output directory")
	f.StringVar(&inputs.Container, "container", "", "Container folder created inside --out")
	f.BoolVar(&jsonOutput, "json", false, "Print progress and summary as JSON lines")
	f.StringVar(&runLogPath, "run-log", "", "Append a JSON audit log of the run to this file")
	f.StringVar(&progressPath, "progress-file", "", "Append progress events as NDJSON to this file")
}

// applyRunFlags lets run's flags override config values.
func applyRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Lookup("json") != nil && flags.Changed("json") {
		if jsonOutput {
			cfg.Output.Format = "json"
		} else {
			cfg.Output.Format = "text"
		}
	}
	if flags.Lookup("run-log") != nil && flags.Changed("run-log") {
		cfg.Log.RunLog = runLogPath
	}
	if flags.Lookup("progress-file") != nil && flags.Changed("progress-file") {
		cfg.Output.Progress = progressPath
	}
}

func runEvidence(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader, err := newLoader()
	if err != nil {
		return err
	}
	out, err := buildOutput(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(classifier.Default(), evidence.NewFiles())
	p := pipeline.New(loader, eng, out)
	defer p.Close()

	summary, err := p.Run(ctx, inputs)
	if err == nil || summary.Canceled {
		printSummary(cmd.OutOrStdout(), summary, cfg.Output.Format == "json")
	}
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("run interrupted: %w", err)
		}
		return err
	}
	return nil
}

// buildOutput assembles stdout plus any configured file sinks. File sinks
// are wrapped in async so disk latency never slows the run.
func buildOutput(c config.Config) (output.Output, error) {
	minLevel, _ := model.ParseLevel(c.Output.MinLevel)
	outs := []output.Output{
		stdout.New(c.Output.Format == "json", c.Output.Pretty, minLevel),
	}
	if c.Output.Progress != "" {
		f, err := file.New(c.Output.Progress,
			file.WithMaxSize(c.Output.ProgressMaxSize),
			file.WithBackups(c.Output.ProgressBackups))
		if err != nil {
			multi.New(outs...).Close()
			return nil, err
		}
		outs = append(outs, async.New(f, async.WithBufferSize(c.Output.BufferSize)))
	}
	if c.Log.RunLog != "" {
		rl, err := runlog.New(c.Log.RunLog, model.LevelDebug)
		if err != nil {
			multi.New(outs...).Close()
			return nil, err
		}
		outs = append(outs, async.New(rl, async.WithBufferSize(c.Output.BufferSize)))
	}
	return multi.New(outs...), nil
}

func printSummary(w io.Writer, s model.Summary, asJSON bool) {
	if asJSON {
		if err := json.NewEncoder(w).Encode(struct {
			Summary model.Summary `json:"summary"`
		}{s}); err != nil {
			slog.Warn("summary encode failed", "error", err)
		}
		return
	}
	fmt.Fprintf(w, "\nprocessed %d/%d clients: %d succeeded, %d skipped, %d failed, %d files in %s\n",
		s.Processed, s.Total, s.Succeeded, s.Skipped, s.Failed, s.Files, s.Duration.Round(time.Millisecond))
	if s.Canceled {
		fmt.Fprintln(w, "run canceled before all clients were processed")
	}
	if len(s.Warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "%d warnings:\n", len(s.Warnings))
	for _, wr := range s.Warnings {
		if wr.Cuenta != "" {
			fmt.Fprintf(w, "  %s (%s): %s\n", wr.Nombre, wr.Cuenta, wr.Message)
		} else {
			fmt.Fprintf(w, "  %s\n", wr.Message)
		}
	}
}
