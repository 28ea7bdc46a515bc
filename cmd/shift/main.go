package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/shift/internal/config"
	"github.com/bamsammich/shift/internal/driver"
	"github.com/bamsammich/shift/internal/event"
	"github.com/bamsammich/shift/internal/input"
	"github.com/bamsammich/shift/internal/stats"
	"github.com/bamsammich/shift/internal/transfer"
	"github.com/bamsammich/shift/internal/ui"
)

var version = "dev"

const manual = `Move/copy files using instructions from standard input.

Example input:

  </home/alice/notes.txt
  >/home/bob/notes.txt
  <documents
  >../backup/docs

  This input would be interpreted as:

  1. Move '/home/alice/notes.txt' to '/home/bob/notes.txt'
  2. Move 'documents' to '../backup/docs'

Input format:

  1. Each input line contains a single instruction.
  2. Instruction must start with either '<' or '>' character.
     '<' is followed by an input path.
     '>' is followed by an output path.
  3. Paths may be absolute or relative.
     Relative paths are resolved to the current working directory.
  4. Input path must be an existing file or directory.
     Output path may not exist.
  5. Existing output path must be of the same type as the input path.
     In other words, both paths must be either file or directory.
  6. Empty paths are not allowed.
  7. Breaking any of these rules will result in error.

Interpretation:

  1. After reading a '>' instruction, an operation is performed between
     the last known input path and this output path. The input path
     stays in effect, so several '>' lines may follow one '<' line.
  2. The default operation is to move the file or directory.
     If both paths are on the same device, this will result in rename.
     If both paths are on different devices, the item will be copied
     on the output device and then deleted from the input device.
  3. The copy operation can be enabled using the -c, --copy flag.
     Directories are copied recursively with their content.
  4. If the destination directory is non-empty, the source directory will
     be merged with it. This means that only the files that exist in both
     directories will be overwritten. This rule is applied recursively
     for subdirectories.
  5. Any non-existent directories in the output path are automatically created.
  6. Instructions are executed in order. The first error stops the run;
     later instructions are not read.

Exit status:

  0  every instruction succeeded
  1  an instruction failed after at least one transfer succeeded
  2  nothing was transferred, or the command line was invalid

Configuration:

  Defaults for --null, --copy, --verbose and --bwlimit, and the colors of
  the verbose log, can be set in $XDG_CONFIG_HOME/shift/config.toml:

    [defaults]
    copy = true
    bwlimit = "50M"

    [colors]
    source = "4"
    dest = "6"
    success = "2"
    failure = "#f38ba8"`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		null        bool
		copyMode    bool
		verbose     bool
		quiet       bool
		showVersion bool
		bwLimitStr  string
		logFile     string
	)

	rootCmd := &cobra.Command{
		Use:           "shift [flags] < instructions",
		Short:         "Move/copy files using instructions from standard input",
		Long:          manual,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "shift %s\n", version)
				return nil
			}

			// Load optional config file. A load error is logged below, after
			// logging is configured.
			cfg, cfgErr := config.Load()
			applyConfigDefaults(cmd.Flags(), cfg.Defaults, &null, &copyMode, &verbose, &bwLimitStr)

			// Configure logging.
			logLevel := slog.LevelInfo
			if quiet {
				logLevel = slog.LevelWarn
			} else if verbose {
				logLevel = slog.LevelDebug
			}
			textHandler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			var jsonHandler slog.Handler
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler = slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
			}
			slog.SetDefault(slog.New(logHandler))
			if cfgErr != nil {
				slog.Warn("failed to load config", "error", cfgErr)
			}

			// Parse bandwidth limit.
			var bwLimit int64
			if bwLimitStr != "" {
				var err error
				bwLimit, err = config.ParseSize(bwLimitStr)
				if err != nil {
					return fmt.Errorf("invalid --bwlimit: %w", err)
				}
			}

			sep := input.Newline
			mode := transfer.Move
			if null {
				sep = input.Null
			}
			if copyMode {
				mode = transfer.Copy
			}

			// Set up context with signal handling. The transfer in flight
			// always completes; a second signal kills the process.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stop()
			}()
			defer transfer.CleanupTmpFiles()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			// When --log is set, tee events through a logging goroutine
			// that writes structured records to the log file before
			// forwarding to the presenter.
			presenterEvents := (<-chan event.Event)(events)
			if jsonHandler != nil {
				presenterEvents = teeEvents(events, slog.New(jsonHandler))
			}

			presenter := ui.NewPresenter(ui.Config{
				Writer:  cmd.OutOrStdout(),
				Stats:   collector,
				Palette: ui.DefaultPalette().WithColors(cfg.Colors),
				Color:   isTerminal(cmd.OutOrStdout()),
				Quiet:   quiet,
				Verbose: verbose,
			})

			engine := transfer.New(transfer.Config{
				Events:  events,
				Stats:   collector,
				BWLimit: bwLimit,
			})

			slog.Debug("starting",
				"mode", mode,
				"separator", sep,
				"bwlimit", bwLimit,
			)

			// Presenter in background, driver in foreground.
			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			result := driver.Run(ctx, driver.Config{
				Input:     cmd.InOrStdin(),
				Engine:    engine,
				Events:    events,
				Separator: sep,
				Mode:      mode,
			})
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				slog.Warn("presenter failed", "error", presenterErr)
			}

			if !quiet {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), summary)
				}
			}

			if result.Err != nil {
				if errors.Is(result.Err, context.Canceled) {
					result.Err = errors.New("interrupted")
				}
				code := 2 // nothing transferred
				if result.Stats.Transfers > 0 {
					code = 1 // partial failure
				}
				return &exitError{code: code, err: result.Err}
			}

			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().BoolVarP(&null, "null", "0", false, "line delimiter is NUL, not newline")
	rootCmd.Flags().BoolVarP(&copyMode, "copy", "c", false, "copy files instead of moving them")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print each transfer as it runs")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().
		StringVar(&bwLimitStr, "bwlimit", "", "bandwidth limit for copied data (e.g. 100M, 1G)")
	rootCmd.Flags().
		StringVar(&logFile, "log", "", "write structured JSON log to FILE")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(docsCmd)

	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// teeEvents logs every event to logger and forwards it.
func teeEvents(events <-chan event.Event, logger *slog.Logger) <-chan event.Event {
	teed := make(chan event.Event, cap(events))
	go func() {
		for ev := range events {
			attrs := []slog.Attr{
				slog.String("type", ev.Type.String()),
				slog.String("src", ev.Src),
				slog.String("dst", ev.Dst),
			}
			if ev.Mode != "" {
				attrs = append(attrs, slog.String("mode", ev.Mode), slog.Int("line", ev.Line))
			}
			if ev.Size > 0 {
				attrs = append(attrs, slog.Int64("size", ev.Size))
			}
			if ev.Error != nil {
				attrs = append(attrs, slog.String("error", ev.Error.Error()))
			}
			logger.LogAttrs(context.Background(), slog.LevelInfo, "shift.event", attrs...)
			teed <- ev
		}
		close(teed)
	}()
	return teed
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	flags *pflag.FlagSet,
	defaults config.DefaultsConfig,
	null, copyMode, verbose *bool,
	bwLimit *string,
) {
	if !flags.Changed("null") && defaults.Null != nil {
		*null = *defaults.Null
	}
	if !flags.Changed("copy") && defaults.Copy != nil {
		*copyMode = *defaults.Copy
	}
	if !flags.Changed("verbose") && !flags.Changed("quiet") && defaults.Verbose != nil {
		*verbose = *defaults.Verbose
	}
	if !flags.Changed("bwlimit") && defaults.BWLimit != nil {
		*bwLimit = *defaults.BWLimit
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTTY(f.Fd())
}

type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.code, e.err)
}

func (e *exitError) Unwrap() error { return e.err }
