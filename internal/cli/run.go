package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tidewatch/tidewatch/internal/alloc"
	"github.com/tidewatch/tidewatch/internal/chain"
	"github.com/tidewatch/tidewatch/internal/config"
	"github.com/tidewatch/tidewatch/internal/engine"
	"github.com/tidewatch/tidewatch/internal/handlers"
	"github.com/tidewatch/tidewatch/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config   string
	Database string // overrides the config's db path when set
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <events.ndjson>",
		Short: "Replay an event log into the state database",
		Long: `Replay an exported NDJSON event log through the pipeline.

Events are applied in file order, one transaction each. Events at or
before the database's persisted cursor are skipped, so re-running the
same log (or an extended one) is safe.

Example:
  tidewatch run --config mainnet.yaml events.ndjson
  tidewatch run --config mainnet.yaml --db /tmp/replay.db events.ndjson`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML config (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to config's db)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// RunResult is the run command's output payload.
type RunResult struct {
	Events      int    `json:"events"`
	FinalBlock  int64  `json:"finalBlock"`
	FinalSeq    int64  `json:"finalSeq"`
	FinalTxHash string `json:"finalTxHash,omitempty"`
}

func (r RunResult) String() string {
	return fmt.Sprintf("replayed %d events, cursor at block %d seq %d", r.Events, r.FinalBlock, r.FinalSeq)
}

func runReplay(opts *RunOptions, logPath string, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	dbPath := cfg.DB
	if opts.Database != "" {
		dbPath = opts.Database
	}

	f, err := os.Open(logPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open event log", err)
	}
	defer f.Close()

	events, err := chain.ReadLog(f)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to parse event log", err)
	}
	slog.Info("event log loaded", "path", logPath, "events", len(events))

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	reader := chain.NewStaticReader(cfg.StaticViews())
	set := handlers.New(alloc.New(reader), reader, chain.LogTracker{}, cfg.Network.FeeDecimals)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline, err := engine.New(ctx, st, set)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start pipeline", err)
	}

	for _, ev := range events {
		pipeline.Enqueue(ev)
	}
	pipeline.Stop()

	if err := pipeline.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "replay interrupted", err)
	}

	result := RunResult{Events: len(events)}
	if cur, ok := pipeline.Cursor(); ok {
		result.FinalBlock = cur.Block
		result.FinalSeq = cur.Seq
		result.FinalTxHash = cur.TxHash
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(result)
}
