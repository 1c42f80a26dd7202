package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/keilerkonzept/plotstrip/strip"
	"github.com/keilerkonzept/topk/sliding"
)

type Config struct {
	// strips
	Capacity       int
	SampleInterval time.Duration
	StripsPath     string
	System         bool
	MaxFeedStrips  int
	StripHeight    int

	// leaderboard sketch
	K            int
	Width        int
	Depth        int
	Decay        float64
	DecayLUTSize int
	TickSize     time.Duration
	WindowSize   time.Duration

	// render
	PlotFPS   int
	ItemsFPS  int
	ViewSplit int

	// input
	InputPath string
	MaxLines  int
	Pace      time.Duration
	JSON      bool

	// experiment
	FullRefresh time.Duration
	PartialSize int

	StatsEnabled bool
	StatsWindow  int

	Serve     string
	LogPath   string
	AltScreen bool
}

var config = Config{
	Capacity:       strip.DefaultCapacity,
	SampleInterval: 200 * time.Millisecond,
	StripsPath:     "",
	System:         true,
	MaxFeedStrips:  16,
	StripHeight:    4,

	K:            20,
	Width:        1024,
	Depth:        3,
	Decay:        0.9,
	DecayLUTSize: 8192,
	TickSize:     time.Second,
	WindowSize:   10 * time.Second,

	PlotFPS:   10,
	ItemsFPS:  1,
	ViewSplit: 25,

	MaxLines: 0,
	Pace:     0,

	FullRefresh: 2 * time.Second,
	PartialSize: 0,

	StatsEnabled: true,
	StatsWindow:  256,

	AltScreen: true,
}

var (
	selectedColor = styles.AdaptiveColor{Light: "0", Dark: "9"}
	borderColor   = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	selectedFg    = styles.NewStyle().Foreground(selectedColor)
	borderFg      = styles.NewStyle().Foreground(borderColor)
)

func main() {
	flag.IntVar(&config.Capacity, "capacity", config.Capacity, "Samples kept per strip")
	flag.DurationVar(&config.SampleInterval, "interval", config.SampleInterval, "Sampling interval for timer-driven strips")
	flag.StringVar(&config.StripsPath, "strips", config.StripsPath, "YAML file with strip definitions (default: built-in demo strips)")
	flag.BoolVar(&config.System, "system", config.System, "Add CPU, memory and load strips to the built-in set")
	flag.IntVar(&config.MaxFeedStrips, "max-feed-strips", config.MaxFeedStrips, "Maximum number of strips created for feed series (0 = unlimited)")
	flag.IntVar(&config.StripHeight, "strip-height", config.StripHeight, "Plot rows per strip")
	flag.IntVar(&config.K, "k", config.K, "Track the top K feed series")
	flag.IntVar(&config.Width, "width", config.Width, "Sketch width")
	flag.IntVar(&config.Depth, "depth", config.Depth, "Sketch depth")
	flag.DurationVar(&config.WindowSize, "window", config.WindowSize, "Leaderboard window size")
	flag.DurationVar(&config.TickSize, "tick", config.TickSize, "Leaderboard window tick size")
	flag.Float64Var(&config.Decay, "decay", config.Decay, "Counter decay probability on collisions")
	flag.IntVar(&config.DecayLUTSize, "decay-lut-size", config.DecayLUTSize, "Sketch decay look-up table size")
	flag.IntVar(&config.PlotFPS, "plot-fps", config.PlotFPS, "Plot refresh rate (frames per second)")
	flag.IntVar(&config.ItemsFPS, "items-fps", config.ItemsFPS, "Leaderboard refresh rate (frames per second)")
	flag.IntVar(&config.ViewSplit, "view-split", config.ViewSplit, "Leaderboard width as % of the screen [10,60]")
	flag.StringVar(&config.InputPath, "in", config.InputPath, "Read feed records from this file instead of stdin")
	flag.IntVar(&config.MaxLines, "max-lines", config.MaxLines, "Stop after reading this many records (0 = unlimited)")
	flag.DurationVar(&config.Pace, "pace", config.Pace, "Sleep between input records (e.g. 5ms, 50ms)")
	flag.BoolVar(&config.JSON, "json", config.JSON, `Read JSON records {"series","value","separator"} instead of "name value" lines`)
	flag.DurationVar(&config.FullRefresh, "full-refresh", config.FullRefresh, "How often to do a full leaderboard refresh (0 = always)")
	flag.IntVar(&config.PartialSize, "partial-size", config.PartialSize, "How many leaderboard items to re-count between full refreshes (0 = visible)")
	flag.BoolVar(&config.StatsEnabled, "stats", config.StatsEnabled, "Show runtime performance stats")
	flag.IntVar(&config.StatsWindow, "stats-window", config.StatsWindow, "Number of recent samples kept per metric")
	flag.StringVar(&config.Serve, "serve", config.Serve, "Stream strip frames over websocket on this address (e.g. :8090)")
	flag.StringVar(&config.LogPath, "log", config.LogPath, "Log file (default: a temp file)")
	flag.BoolVar(&config.AltScreen, "alt-screen", config.AltScreen, "Use the terminal alternate screen buffer")

	flag.Parse()

	if err := validateAndNormalizeConfig(); err != nil {
		log.Fatal(err)
	}

	defs := builtinStrips(config.System)
	if config.StripsPath != "" {
		f, err := NewLoader(config.StripsPath).Load()
		if err != nil {
			log.Fatal(err)
		}
		defs = f.Strips
	}

	proto := StripConfig{Source: SourceFeed, Capacity: config.Capacity}
	strips := newStripSet(proto, config.MaxFeedStrips)
	for _, sc := range defs {
		if _, err := strips.add(sc.Resolve(config.Capacity)); err != nil {
			log.Fatal(err)
		}
	}

	metrics := newLatencyMetrics(config.StatsWindow)
	metrics.setEnabled(config.StatsEnabled)

	sketch := sliding.New(config.K,
		int(config.WindowSize/config.TickSize),
		sliding.WithWidth(config.Width),
		sliding.WithDepth(config.Depth),
		sliding.WithDecay(float32(config.Decay)),
		sliding.WithDecayLUTSize(config.DecayLUTSize),
	)
	feed := newFeeder(strips, sketch, metrics)
	feed.maxLines = config.MaxLines
	feed.pace = config.Pace

	input, hasInput, err := openInput(config.InputPath)
	if err != nil {
		log.Fatal(err)
	}

	var hub *wsHub
	if config.Serve != "" {
		hub = newWSHub()
		serveFrames(config.Serve, hub)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := openLog(config.LogPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	m := newModel(strips, feed, metrics, input, hub)
	m.feedActive = hasInput
	opts := []tui.ProgramOption{tui.WithInputTTY()}
	if config.AltScreen {
		opts = append(opts, tui.WithAltScreen())
	}
	if _, err := tui.NewProgram(m, opts...).Run(); err != nil {
		log.Println("program:", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func validateAndNormalizeConfig() error {
	if config.Capacity < 2 {
		return fmt.Errorf("-capacity must be >= 2")
	}
	if config.SampleInterval <= 0 {
		return fmt.Errorf("-interval must be > 0")
	}
	if config.MaxFeedStrips < 0 {
		return fmt.Errorf("-max-feed-strips must be >= 0")
	}
	if config.StripHeight < 1 {
		return fmt.Errorf("-strip-height must be >= 1")
	}
	if config.K < 1 {
		return fmt.Errorf("-k must be >= 1")
	}
	if config.Width < 1 {
		return fmt.Errorf("-width must be >= 1")
	}
	if config.Depth < 1 {
		return fmt.Errorf("-depth must be >= 1")
	}
	if config.Decay < 0 || config.Decay > 1 {
		return fmt.Errorf("-decay must be in [0,1]")
	}
	if config.DecayLUTSize < 1 {
		return fmt.Errorf("-decay-lut-size must be >= 1")
	}
	if config.TickSize <= 0 {
		return fmt.Errorf("-tick must be > 0")
	}
	if config.WindowSize < config.TickSize {
		return fmt.Errorf("-window must be >= -tick")
	}
	if config.WindowSize%config.TickSize != 0 {
		return fmt.Errorf("-window must be a multiple of -tick (got window=%s tick=%s)", config.WindowSize, config.TickSize)
	}
	if config.PlotFPS < 1 {
		return fmt.Errorf("-plot-fps must be >= 1")
	}
	if config.ItemsFPS < 1 {
		return fmt.Errorf("-items-fps must be >= 1")
	}
	if config.MaxLines < 0 {
		return fmt.Errorf("-max-lines must be >= 0")
	}
	if config.Pace < 0 {
		return fmt.Errorf("-pace must be >= 0")
	}
	if config.FullRefresh < 0 {
		return fmt.Errorf("-full-refresh must be >= 0")
	}
	if config.PartialSize < 0 {
		return fmt.Errorf("-partial-size must be >= 0")
	}
	config.ViewSplit = min(60, max(10, config.ViewSplit))
	config.StatsWindow = max(16, config.StatsWindow)
	return nil
}

func openLog(path string) (*os.File, error) {
	if path == "" {
		return os.CreateTemp("", "plotstrip-*.log")
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// openInput returns the feed source. Without -in, stdin is used only when
// it is not a terminal.
func openInput(path string) (io.ReadCloser, bool, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, false, err
		}
		return f, true, nil
	}
	if term.IsTerminal(os.Stdin.Fd()) {
		return nil, false, nil
	}
	return io.NopCloser(os.Stdin), true, nil
}
