package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/pktsep/internal/adapters/fs"
	"github.com/bft-labs/pktsep/internal/app"
	"github.com/bft-labs/pktsep/internal/cliconfig"
	"github.com/bft-labs/pktsep/internal/pcapexport"
	"github.com/bft-labs/pktsep/internal/report"
	"github.com/bft-labs/pktsep/internal/watch"
	"github.com/bft-labs/pktsep/pkg/dump"
	"github.com/bft-labs/pktsep/pkg/log"
)

const helpDescription = `
Convert a "C Arrays" dump of a followed UDP/TCP stream into a flat binary
file. Every packet starts with its peer tag (0 or 1) and is followed by a
separator byte: the smallest byte value that appears in no packet. When all
256 values are used nothing is written.

Configuration is read from $HOME/.pktsep/config.toml, then PKTSEP_*
environment variables, then flags.
`

var exampleUsage = strings.TrimSpace(`
  pktsep stream.txt stream.bin
  pktsep --watch --pcap stream.pcap stream.txt stream.bin
  pktsep split stream.bin --separator 0x04
  pktsep inspect stream.txt
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	stderr  io.Writer
	logger  *log.ZerologAdapter
}

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		pterm.DisableStyling()
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{
		cfg:    cliconfig.DefaultConfig(),
		stderr: stderr,
		logger: log.NewZerologAdapter(stderr, "info"),
	}

	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root := c.command()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var synErr *dump.SyntaxError
		if errors.As(err, &synErr) {
			c.logger.Error("invalid dump", log.Int("line", synErr.Line), log.String("text", synErr.Text), log.Err(err))
		} else {
			c.logger.Error("pktsep", log.Err(err))
		}
		return 1
	}
	return 0
}

func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "pktsep <infile> <outfile>",
		Short:         "Convert a C array packet dump into a separator-delimited binary stream",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          exactArgs("<infile> <outfile>", 2),
		SilenceErrors: true,
		RunE:          c.runConvert,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.pktsep/config.toml)")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.Var((*cliconfig.SeparatorValue)(&c.cfg.Separator), "separator", "separator byte, or auto for the smallest unused value")
	pf.IntVar(&c.cfg.PcapPort, "pcap-port", c.cfg.PcapPort, "server UDP port used in pcap output")
	pf.DurationVar(&c.cfg.PcapInterval, "pcap-interval", c.cfg.PcapInterval, "time between packets in pcap output")

	root.Flags().BoolVar(&c.cfg.Watch, "watch", c.cfg.Watch, "convert again whenever the input file changes")
	root.Flags().DurationVar(&c.cfg.Debounce, "debounce", c.cfg.Debounce, "quiet period before converting after a change")
	root.Flags().StringVar(&c.cfg.PcapOutput, "pcap", c.cfg.PcapOutput, "also write the packets as a pcap capture to this path")

	root.AddCommand(
		&cobra.Command{
			Use:   "split <binfile>",
			Short: "Split a converted stream and print one row per packet",
			Args:  exactArgs("split <binfile>", 1),
			RunE:  c.runSplit,
		},
		&cobra.Command{
			Use:   "inspect <infile>",
			Short: "Decode the packets of a dump as Photon packets",
			Args:  exactArgs("inspect <infile>", 1),
			RunE:  c.runInspect,
		},
		&cobra.Command{
			Use:   "pcap <infile> <outfile>",
			Short: "Export the packets of a dump as a pcap capture",
			Args:  exactArgs("pcap <infile> <outfile>", 2),
			RunE:  c.runPcap,
		},
	)
	return root
}

// exactArgs is cobra.ExactArgs with a usage line in the error.
func exactArgs(usage string, n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("usage: pktsep %s (got %d arguments)", usage, len(args))
		}
		return nil
	}
}

// loadConfig resolves file, env and flag values into c.cfg and rebuilds the
// logger with the configured level.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	// Flags were valid; further errors are not usage errors.
	cmd.SilenceUsage = true

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("config file %s not found", c.cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.logger = log.NewZerologAdapter(c.stderr, c.cfg.LogLevel)
	c.logger.Debug("configuration", log.Any("config", c.cfg))
	return nil
}

func (c *cli) pcapOptions() pcapexport.Options {
	o := pcapexport.DefaultOptions()
	o.ServerPort = uint16(c.cfg.PcapPort)
	o.Interval = c.cfg.PcapInterval
	return o
}

func (c *cli) converter() *app.Converter {
	return app.NewConverter(fs.NewDumpSource(), fs.NewAtomicFileSink(0o644), c.logger)
}

func (c *cli) runConvert(cmd *cobra.Command, args []string) error {
	if err := c.loadConfig(cmd); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conv := c.converter()
	req := app.ConvertRequest{
		Input:      args[0],
		Output:     args[1],
		Separator:  c.cfg.Separator,
		PcapOutput: c.cfg.PcapOutput,
		Pcap:       c.pcapOptions(),
	}
	convert := func(ctx context.Context) error {
		start := time.Now()
		res, err := conv.Convert(ctx, req)
		if err != nil {
			return err
		}
		c.logger.Debug("conversion finished",
			log.Bool("written", res.Written),
			log.Duration("took", time.Since(start)),
		)
		return nil
	}

	err := convert(ctx)
	if !c.cfg.Watch {
		return err
	}
	if err != nil {
		c.logger.Error("conversion failed", log.String("input", req.Input), log.Err(err))
	}

	w := watch.New(watch.Config{Path: req.Input, Debounce: c.cfg.Debounce}, c.logger)
	if err := w.Run(ctx, convert); err != nil {
		return err
	}
	c.logger.Info("received signal, stopping")
	return nil
}

func (c *cli) runSplit(cmd *cobra.Command, args []string) error {
	if err := c.loadConfig(cmd); err != nil {
		return err
	}
	if c.cfg.Separator == cliconfig.AutoSeparator {
		return errors.New("split needs an explicit --separator")
	}
	packets, err := app.SplitFile(args[0], c.cfg.Separator)
	if err != nil {
		return err
	}
	return report.Split(cmd.OutOrStdout(), packets)
}

func (c *cli) runInspect(cmd *cobra.Command, args []string) error {
	if err := c.loadConfig(cmd); err != nil {
		return err
	}
	infos, err := app.Inspect(cmd.Context(), fs.NewDumpSource(), args[0])
	if err != nil {
		return err
	}
	return report.Packets(cmd.OutOrStdout(), infos)
}

func (c *cli) runPcap(cmd *cobra.Command, args []string) error {
	if err := c.loadConfig(cmd); err != nil {
		return err
	}
	_, err := c.converter().ExportPcap(cmd.Context(), args[0], args[1], c.pcapOptions())
	return err
}
