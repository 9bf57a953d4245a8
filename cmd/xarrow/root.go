package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/xarrow/arrow"
	"github.com/lixenwraith/xarrow/audio"
	"github.com/lixenwraith/xarrow/engine"
	"github.com/lixenwraith/xarrow/logging"
	"github.com/lixenwraith/xarrow/style"
	"github.com/lixenwraith/xarrow/surface"
	"github.com/lixenwraith/xarrow/vmath"
)

const (
	exitOK      = 0
	exitFailure = 1

	usageHint = "Usage: xarrow [--fg <color>] [--bg <color>] [--transparency <boolean>]"

	flagDebug = "debug"
)

// app carries what a single invocation needs beyond the command line
type app struct {
	stderr    io.Writer
	newScreen func() (tcell.Screen, error)
}

// execute runs the command with args and returns the process exit status
func execute(args []string, stderr io.Writer, newScreen func() (tcell.Screen, error)) int {
	a := &app{stderr: stderr, newScreen: newScreen}
	cmd := a.command()
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, surface.ErrDisplayUnavailable) {
			fmt.Fprintf(stderr, "xarrow: failed to open display: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "xarrow: %v\n", err)
		}
		return exitFailure
	}
	return exitOK
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xarrow",
		Short: "An arrow that follows the pointer",
		Long: `xarrow draws an arrow from the center of its window toward the mouse pointer.

The window can be moved by dragging its title bar and resized from the bottom-right
corner. Press Escape or q, or click [x], to quit.

Colors come from $XDG_CONFIG_HOME/xarrow/config.{yaml,toml,json}, XARROW_*
environment variables and the flags below; the preference file is watched and
reapplied when it changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Extra arguments only earn a hint
		Args: cobra.ArbitraryArgs,
		RunE: a.run,
	}

	style.RegisterFlags(cmd.Flags())
	cmd.Flags().Bool(flagDebug, false, "log at debug level")
	return cmd
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		fmt.Fprintln(a.stderr, usageHint)
	}

	// Until the screen is up, warnings can go to the terminal
	console := zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, NoColor: true}).
		Level(zerolog.WarnLevel)

	prefs, err := style.New(cmd.Flags(), console)
	if err != nil {
		return err
	}

	// Logging stays off unless asked for; the terminal itself is the display
	level := prefs.LogLevel()
	debug, _ := cmd.Flags().GetBool(flagDebug)
	if debug {
		level = "debug"
	}
	log, logFile, err := logging.Setup(logging.Config{
		Enabled: debug || prefs.LogFile() != "",
		Path:    prefs.LogFile(),
		Level:   level,
	})
	if err != nil {
		console.Warn().Err(err).Msg("logging disabled")
	}
	if logFile != nil {
		defer logFile.Close()
	}
	prefs.SetLogger(log)

	screen, err := a.newScreen()
	if err != nil {
		return err
	}
	term := surface.New(screen, surface.Options{
		Title: surface.DefaultTitle,
		Size:  surface.DefaultSize,
		Mask:  prefs.EventMask(),
	})
	if err := term.Open(); err != nil {
		return err
	}
	defer term.Close()

	geo := term.Geometry()
	center := vmath.AreaCenter(vmath.Area{Width: geo.Width, Height: geo.Height})
	pointer, err := arrow.New(engine.ArrowLength(geo.Width, geo.Height), center)
	if err != nil {
		panic(fmt.Sprintf("arrow construction: %v", err))
	}

	palette := prefs.Palette()
	term.SetColors(palette.Foreground, palette.Erase())

	if prefs.Watch(func() {
		if err := term.PostStyleReload(); err != nil {
			log.Warn().Err(err).Msg("style reload dropped")
		}
	}) {
		log.Debug().Str("file", prefs.ConfigFile()).Msg("watching preferences")
	}

	opts := []engine.Option{
		engine.WithLogger(log),
		engine.WithPalette(prefs),
	}

	player := audio.NewPlayer()
	defer player.Close()
	if prefs.Sound() {
		if err := player.Init(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable")
		} else {
			opts = append(opts, engine.WithCues(player))
		}
	}

	log.Info().
		Int("width", geo.Width).Int("height", geo.Height).
		Bool("transparent", palette.Transparent).
		Msg("window mapped")

	loop := engine.NewLoop(pointer, term, opts...)
	loop.Run()

	player.Farewell()
	log.Info().Uint64("frames", loop.Frames()).Msg("window closed")
	return nil
}
