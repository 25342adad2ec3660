// Package cmd is the command line entry point.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-floor/assets"
	"github.com/iburimskiy/particle-floor/internal/audio"
	"github.com/iburimskiy/particle-floor/internal/config"
	"github.com/iburimskiy/particle-floor/internal/device"
	"github.com/iburimskiy/particle-floor/internal/game"
	"github.com/iburimskiy/particle-floor/internal/logger"
	"github.com/iburimskiy/particle-floor/internal/scene"
)

type options struct {
	device           string
	width            int
	height           int
	noPostProcessing bool
	keyboard         bool
	raycast          bool
	debug            bool
	settings         string
	soundtrack       string
	title            string
}

var rootCmd, rootOpts = newRootCmd()

func newRootCmd() (*cobra.Command, *options) {
	o := &options{}
	cmd := &cobra.Command{
		Use:          "particle-floor",
		Short:        "Animated particle floor that follows the pointer",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(cmd, o)
	}

	f := cmd.PersistentFlags()
	f.StringVar(&o.device, "device", "", "device class: desktop, tablet or phone (detected when empty)")
	f.IntVar(&o.width, "width", config.WindowWidth, "window width in logical pixels")
	f.IntVar(&o.height, "height", config.WindowHeight, "window height in logical pixels")
	f.BoolVar(&o.noPostProcessing, "no-postprocessing", false, "render the field straight to the screen")
	f.BoolVar(&o.keyboard, "keyboard", false, "enable key bindings (O opens a soundtrack, Space pauses)")
	f.BoolVar(&o.raycast, "raycast", false, "cast the pointer onto the ground plane")
	f.BoolVar(&o.debug, "debug", false, "show the parameter panel and log verbosely")
	f.StringVar(&o.settings, "settings", "", "JSON settings file overriding the defaults")
	f.StringVar(&o.soundtrack, "soundtrack", "", "wav, mp3 or flac file to play on start")
	f.StringVar(&o.title, "title", "", "window title (defaults to the project name)")
	return cmd, o
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolve builds the construction parameters: device defaults, then the
// settings file, then flags the user set explicitly.
func resolve(cmd *cobra.Command, o *options, log *zap.Logger) (config.Params, error) {
	if o.width <= 0 || o.height <= 0 {
		return config.Params{}, fmt.Errorf("invalid size %dx%d", o.width, o.height)
	}

	dev := device.Detect()
	if o.device != "" {
		dev = device.Parse(o.device)
	}
	params := config.Defaults(dev, config.Size{Width: o.width, Height: o.height})

	settings, err := config.LoadSettings(o.settings, log)
	if err != nil {
		return config.Params{}, fmt.Errorf("settings: %w", err)
	}
	settings.Apply(&params)

	flags := cmd.Flags()
	if flags.Changed("no-postprocessing") {
		params.PostProcessing = !o.noPostProcessing
	}
	if flags.Changed("keyboard") {
		params.Keyboard = o.keyboard
	}
	if flags.Changed("raycast") {
		params.Raycast = o.raycast
	}
	params.Debug = o.debug
	if o.title != "" {
		params.Name = o.title
	}
	return params, nil
}

func run(cmd *cobra.Command, o *options) error {
	log, err := logger.New(o.debug)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	params, err := resolve(cmd, o, log)
	if err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return err
	}
	if m := ebiten.Monitor(); m != nil {
		params.PixelRatio = m.DeviceScaleFactor()
	}

	sc, err := scene.New(params,
		scene.WithLogger(log),
		scene.WithTexture(assets.FS, config.ParticleTexture),
	)
	if err != nil {
		log.Error("scene setup failed", zap.Error(err))
		return err
	}

	g := game.New(sc, audio.NewPlayer(log), log)
	defer g.Close()
	g.Play(o.soundtrack)

	ebiten.SetWindowSize(params.Size.Width, params.Size.Height)
	ebiten.SetWindowTitle(params.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("game loop stopped", zap.Error(err))
		return err
	}
	return nil
}
