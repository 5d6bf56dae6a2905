package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/matt-g-everett/slidetrace/beamer"
	"github.com/matt-g-everett/slidetrace/internal/logging"
	"github.com/matt-g-everett/slidetrace/stream"
	"github.com/matt-g-everett/slidetrace/trace"
	"github.com/spf13/cobra"
)

type app struct {
	Config   stream.Config
	Log      *slog.Logger
	Renderer *beamer.Renderer
	Streamer *stream.Streamer
	out      io.Writer
}

func newApp(config stream.Config, out io.Writer, log *slog.Logger) (*app, error) {
	a := new(app)
	a.Config = config
	a.Log = log
	a.out = out

	var hues beamer.HueTable
	if len(config.Render.Hues) > 0 {
		hues = beamer.HueTable{}
		for name, h := range config.Render.Hues {
			hues[name] = beamer.Hue{Angle: h.Angle, Chroma: h.Chroma}
		}
	}

	highlight, err := trace.ParseColor(config.Render.Highlight)
	if err != nil {
		return nil, err
	}
	a.Renderer, err = beamer.NewRenderer(beamer.NewPalette(hues), highlight)
	if err != nil {
		return nil, fmt.Errorf("render.highlight: %w", err)
	}
	return a, nil
}

func (a *app) render(path string) error {
	seq, err := trace.Load(path)
	if err != nil {
		return err
	}

	name := seq.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	doc, err := trace.NewStacker(a.Log.With("sequence", name)).RenderStages(seq.Frames, seq.Code, a.Renderer)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if _, err := io.WriteString(a.out, doc.Text); err != nil {
		return err
	}

	if a.Streamer != nil {
		return a.Streamer.Send(name, doc)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		publish    bool
		preamble   bool
	)

	cmd := &cobra.Command{
		Use:           "slidetrace [trace.yaml...]",
		Short:         "Render algorithm traces as Beamer overlays",
		Long:          `slidetrace renders each frame of an algorithm trace onto its own overprint stage, optionally next to the highlighted source line.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := stream.DefaultConfig()
			if configPath != "" {
				var err error
				if config, err = stream.ReadConfig(configPath); err != nil {
					return fmt.Errorf("config: %w", err)
				}
			}
			if cmd.Flags().Changed("log-level") {
				config.Log.Level = logLevel
			}

			level, err := logging.ParseLevel(config.Log.Level)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			log := logging.New(cmd.ErrOrStderr(), level)

			a, err := newApp(config, cmd.OutOrStdout(), log)
			if err != nil {
				return err
			}

			if publish {
				client, err := stream.Connect(config, log.With("component", "mqtt"))
				if err != nil {
					return fmt.Errorf("mqtt: %w", err)
				}
				defer client.Disconnect(250)
				log.Info("connected", "broker", config.Mqtt.URL)
				a.Streamer = stream.NewStreamer(config, client, log)
			}

			if preamble {
				fmt.Fprint(a.out, beamer.Preamble)
			}
			for _, path := range args {
				if err := a.render(path); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file.")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error).")
	cmd.Flags().BoolVar(&publish, "publish", false, "Also publish the documents to the configured MQTT broker.")
	cmd.Flags().BoolVar(&preamble, "preamble", false, "Print the LaTeX preamble the output depends on first.")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
