package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/xcc-stack/xccgen/internal"
)

// Represents the root command for the xccgen CLI.
var RootCmd struct {
	Quiet   bool `short:"q" help:"Suppress informational output."`
	Verbose bool `short:"v" help:"Enable verbose output."`
	Debug   bool `short:"d" help:"Enable debug output."`

	Rel     RelCmd     `cmd:"" help:"Generate a release recipe for the xeus-cling-cuda stack."`
	Dev     DevCmd     `cmd:"" help:"Generate a development recipe with a build-on-run script."`
	Build   BuildCmd   `cmd:"" help:"Build a Singularity image from a generated recipe."`
	Push    PushCmd    `cmd:"" help:"Sign and push a Singularity image to a library."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// .env files supply defaults for the XCCGEN_* variables kong reads.
	godotenv.Load()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Recipe generator for xeus-cling-cuda containers.\n\n"+
			"Generates Dockerfiles or Singularity definition files that build the\n"+
			"cling interpreter, the xeus-cling Jupyter bridge, and their full\n"+
			"dependency stack against a CUDA base image."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.Configuration(kong.JSON, "/etc/xccgen.json", "~/.config/xccgen/config.json"),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Interactive terminals get a colored handler; everything else falls
// back to plain text. Flags override build-time defaults set via linker
// flags.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	internal.SetDebug(debug)
	internal.SetQuiet(quiet)
	internal.SetVerbose(verbose)

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}

	var handler slog.Handler
	if isatty(os.Stderr) {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:     level,
			AddSource: verbose,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     level,
			AddSource: verbose,
		})
	}

	slog.SetDefault(slog.New(handler).WithGroup(internal.Name))
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
