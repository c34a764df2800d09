// Package cmd wires the CLI to the TUI application.
package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ShotaTanemura/TermiGroove/internal/audio"
	"github.com/ShotaTanemura/TermiGroove/internal/config"
	"github.com/ShotaTanemura/TermiGroove/internal/logger"
	"github.com/ShotaTanemura/TermiGroove/internal/loopengine"
	"github.com/ShotaTanemura/TermiGroove/internal/timing"
	"github.com/ShotaTanemura/TermiGroove/internal/tui"
)

// Version is stamped by the release build.
var Version = "dev"

const busCapacity = 256

var (
	flagDir     string
	flagLogFile string
)

var rootCmd = &cobra.Command{
	Use:   "termigroove",
	Short: "A terminal-native live-looping sampler",
	Long: `TermiGroove is a terminal live-looping sampler built with Bubbletea.

Pick wav samples in the browser, trigger them on the QWERTY pads, and layer
loops with a metronome count-in, overdubs and pause/resume - all from the
keyboard.`,
	RunE: run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagDir, "dir", "d", "", "directory to browse for samples (default: config or home)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write debug logs to this file")
	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, args []string) error {
	log := logger.GetProjectLogger()
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	cfg := config.Load()
	startDir := flagDir
	if startDir == "" {
		startDir = cfg.StartDir
	}

	bus := audio.NewChannelBus(busCapacity)
	defer bus.Close()
	if _, err := audio.NewPlayer(bus, cfg.MasterVolume); err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}

	engine := loopengine.New(timing.New(), bus, cfg.DefaultBPM, cfg.DefaultBars)
	log.Infof("engine ready: %d bpm, %d bars", engine.BPM(), engine.Bars())

	m := tui.New(engine, bus, startDir, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
