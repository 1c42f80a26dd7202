package main

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/keilerkonzept/plotstrip/strip"
	"github.com/keilerkonzept/topk/heap"
)

const (
	minCapacity = 2
	maxCapacity = 10000
)

type model struct {
	width, height  int
	leftPaneWidth  int
	rightPaneWidth int

	paused    bool
	pauseMu   sync.Mutex
	pauseCond *sync.Cond

	list      list.Model
	listStyle styles.Style
	help      help.Model

	strips   *stripSet
	samplers map[string]sampler
	slider   *slider
	capacity int
	start    time.Time

	feed       *feeder
	feedActive bool
	input      io.ReadCloser
	ranker     *ranker
	metrics    *latencyMetrics
	hub        *wsHub

	mu        sync.Mutex
	listItems []heap.Item
	sampleErr error
	err       error
}

func newModel(strips *stripSet, feed *feeder, metrics *latencyMetrics, input io.ReadCloser, hub *wsHub) *model {
	const (
		defaultWidth  = 80
		defaultHeight = 20
	)

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = styles.NewStyle().
		Border(styles.NormalBorder(), false, false, false, true).
		BorderForeground(borderColor).
		Foreground(selectedColor).
		Padding(0, 0, 0, 1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(selectedColor)

	l := list.New(make([]list.Item, 0), d, defaultWidth/4, defaultHeight)
	l.Styles.NoItems = l.Styles.NoItems.Padding(0, 2)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)

	m := &model{
		list:     l,
		help:     help.New(),
		strips:   strips,
		samplers: make(map[string]sampler),
		slider:   newSlider(0, 100, 2),
		capacity: config.Capacity,
		start:    time.Now(),
		feed:     feed,
		input:    input,
		ranker:   newRanker(config.K, config.FullRefresh, config.PartialSize),
		metrics:  metrics,
		hub:      hub,
	}
	m.leftPaneWidth, m.rightPaneWidth = computePaneWidths(defaultWidth, config.ViewSplit)
	m.pauseCond = sync.NewCond(&m.pauseMu)
	feed.wait = m.waitIfPaused
	strips.each(func(e *entry) {
		if s := samplerFor(e.source, m.start, m.slider); s != nil {
			m.samplers[e.name] = s
		}
	})
	return m
}

type SampleTickMsg time.Time

func doSampleTick() tui.Cmd {
	return tui.Every(config.SampleInterval, func(t time.Time) tui.Msg {
		return SampleTickMsg(t)
	})
}

type PlotTickMsg time.Time

func doPlotTick() tui.Cmd {
	return tui.Every(time.Second/time.Duration(config.PlotFPS), func(t time.Time) tui.Msg {
		return PlotTickMsg(t)
	})
}

type ItemsTickMsg time.Time

func doItemsTick() tui.Cmd {
	return tui.Every(time.Second/time.Duration(config.ItemsFPS), func(t time.Time) tui.Msg {
		return ItemsTickMsg(t)
	})
}

type errMsg struct{ err error }

func (m *model) readFeed() tui.Cmd {
	if m.input == nil {
		return nil
	}
	return func() tui.Msg {
		defer func() { _ = m.input.Close() }()
		read := m.feed.readText
		if config.JSON {
			read = m.feed.readJSON
		}
		if err := read(m.input); err != nil {
			return errMsg{fmt.Errorf("feed: %w", err)}
		}
		log.Printf("feed done: %d records, %d skipped, %d dropped",
			m.feed.records.Load(), m.feed.skipped.Load(), m.feed.dropped.Load())
		return nil
	}
}

// sketchTickCmd advances the leaderboard window in real time.
func (m *model) sketchTickCmd() tui.Cmd {
	if m.input == nil {
		return nil
	}
	return func() tui.Msg {
		ticker := time.NewTicker(config.TickSize)
		defer ticker.Stop()
		for range ticker.C {
			m.waitIfPaused()
			m.feed.ticks(1)
		}
		return nil
	}
}

func (m *model) Init() tui.Cmd {
	return tui.Batch(m.readFeed(), m.sketchTickCmd(), doSampleTick(), doPlotTick(), doItemsTick())
}

func (m *model) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		log.Println(msg.err)
		m.mu.Lock()
		m.err = msg.err
		m.mu.Unlock()
		return m, nil
	case SampleTickMsg:
		if !m.isPaused() {
			m.sampleAll(time.Time(msg))
		}
		return m, doSampleTick()
	case PlotTickMsg:
		if m.hub != nil && m.hub.clientCount() > 0 {
			m.hub.broadcast(collectFrames(m.strips))
		}
		return m, doPlotTick()
	case ItemsTickMsg:
		if m.isPaused() || !m.feedActive {
			return m, doItemsTick()
		}
		m.updateLeaderboard(time.Time(msg))
		return m, tui.Batch(m.updateList(msg), doItemsTick())
	case tui.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.leftPaneWidth, m.rightPaneWidth = computePaneWidths(m.width, config.ViewSplit)
		available := max(1, m.height-m.bottomLines())
		leftW := max(1, m.leftPaneWidth)
		m.list.SetSize(leftW, available)
		m.listStyle = styles.NewStyle().Width(leftW).Height(available)
		return m, nil
	case tui.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tui.Quit
		case key.Matches(msg, keys.Pause):
			m.togglePause()
		case key.Matches(msg, keys.Separator):
			m.strips.each(func(e *entry) { e.strip.AddSeparator() })
		case key.Matches(msg, keys.Reset):
			m.reset()
		case key.Matches(msg, keys.Baseline):
			m.toggleSliderBaseline()
		case key.Matches(msg, keys.Left):
			m.slider.move(-1)
		case key.Matches(msg, keys.Right):
			m.slider.move(1)
		case key.Matches(msg, keys.Grow):
			m.resize(m.capacity * 2)
		case key.Matches(msg, keys.Shrink):
			m.resize(m.capacity / 2)
		case key.Matches(msg, keys.Up):
			m.list.CursorUp()
		case key.Matches(msg, keys.Down):
			m.list.CursorDown()
		}
		return m, nil
	}
	var cmd tui.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) sampleAll(now time.Time) {
	start := time.Now()
	var firstErr error
	m.strips.each(func(e *entry) {
		s, ok := m.samplers[e.name]
		if !ok {
			return
		}
		v, err := s.Sample(now)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		e.strip.SetValue(v)
	})
	m.metrics.observeSample(time.Since(start))
	m.mu.Lock()
	if firstErr != nil && m.sampleErr == nil {
		log.Println("sample:", firstErr)
	}
	m.sampleErr = firstErr
	m.mu.Unlock()
}

// reset clears every strip and re-centers the slider.
func (m *model) reset() {
	m.strips.each(func(e *entry) { e.strip.Do(func(s *strip.Strip) { s.Clear() }) })
	m.slider.reset()
	log.Println("reset: history cleared")
}

func (m *model) toggleSliderBaseline() {
	e := m.strips.get("slider")
	if e == nil {
		return
	}
	pos := m.slider.pos
	e.strip.Do(func(s *strip.Strip) {
		if _, ok := s.BaselineValue(); ok {
			s.ClearBaseline()
			return
		}
		s.SetBaseline(pos)
	})
}

func (m *model) resize(n int) {
	n = min(maxCapacity, max(minCapacity, n))
	if n == m.capacity {
		return
	}
	m.capacity = n
	m.strips.setCapacity(n)
}

func (m *model) togglePause() {
	m.pauseMu.Lock()
	m.paused = !m.paused
	m.pauseMu.Unlock()
	m.pauseCond.Broadcast()
}

func (m *model) isPaused() bool {
	m.pauseMu.Lock()
	defer m.pauseMu.Unlock()
	return m.paused
}

func (m *model) waitIfPaused() {
	m.pauseMu.Lock()
	for m.paused {
		m.pauseCond.Wait()
	}
	m.pauseMu.Unlock()
}

func (m *model) updateLeaderboard(now time.Time) {
	items, _ := m.ranker.refresh(now, m.list.Height(), m.feed)
	m.mu.Lock()
	m.listItems = items
	m.mu.Unlock()
}

func (m *model) updateList(msg tui.Msg) tui.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]list.Item, len(m.listItems))
	for i, item := range m.listItems {
		items[i] = listItem{Rank: i + 1, Item: item}
	}
	set := m.list.SetItems(items)
	var cmd tui.Cmd
	m.list, cmd = m.list.Update(msg)
	return tui.Batch(set, cmd)
}

// selectedSeries is the leaderboard entry under the cursor, if any.
func (m *model) selectedSeries() string {
	if li, ok := m.list.SelectedItem().(listItem); ok {
		return li.Item.Item
	}
	return ""
}

func (m *model) bottomLines() int {
	n := 1 // help
	if config.StatsEnabled {
		n += 5
	}
	return n
}

// visibleStrips orders strips for display: the selected feed series first.
func (m *model) visibleStrips(rows int) []*entry {
	all := m.strips.entries()
	if sel := m.selectedSeries(); sel != "" {
		for i, e := range all {
			if e.name == sel {
				all = append([]*entry{e}, append(all[:i:i], all[i+1:]...)...)
				break
			}
		}
	}
	// plot rows + header + separator row + border
	per := config.StripHeight + 4
	fit := max(1, rows/per)
	if len(all) > fit {
		all = all[:fit]
	}
	return all
}

func (m *model) View() string {
	start := time.Now()
	defer func() { m.metrics.observeRender(time.Since(start)) }()

	highlight, dim := plot.Red, plot.DimGray
	if !styles.DefaultRenderer().HasDarkBackground() {
		highlight, dim = plot.Black, plot.LightGray
	}

	rows := max(1, m.height-m.bottomLines())
	rightW := m.width
	if m.feedActive {
		rightW = m.rightPaneWidth
	}
	rightW = max(20, rightW)

	sel := m.selectedSeries()
	var blocks []string
	for _, e := range m.visibleStrips(rows) {
		v := stripView{
			label:       e.label,
			frame:       e.strip.Frame(),
			width:       rightW - 2,
			height:      config.StripHeight,
			highlighted: sel != "" && e.name == sel,
			highlight:   highlight,
			dim:         dim,
		}
		blocks = append(blocks, v.render())
	}
	right := styles.JoinVertical(styles.Left, blocks...)

	view := right
	if m.feedActive {
		view = styles.JoinHorizontal(styles.Top, m.listStyle.Render(m.list.View()), right)
	}

	m.mu.Lock()
	err, sampleErr := m.err, m.sampleErr
	m.mu.Unlock()
	errStyle := styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "1", Dark: "9"})
	parts := []string{view}
	if err != nil {
		parts = append(parts, errStyle.Render("ERROR: "+err.Error()))
	} else if sampleErr != nil {
		parts = append(parts, errStyle.Render("sampling: "+sampleErr.Error()))
	}
	if config.StatsEnabled {
		parts = append(parts, borderFg.Render(m.statsBlock()))
	}
	parts = append(parts, m.help.View(keys))
	return styles.JoinVertical(styles.Left, parts...)
}

func (m *model) statsBlock() string {
	snap := m.metrics.snapshot()
	title := "PERF STATS (RUNNING)"
	if m.isPaused() {
		title = "PERF STATS (PAUSED)"
	}
	lines := []string{
		title,
		fmt.Sprintf("strips: %d  capacity: %d  slider: %.0f", len(m.strips.entries()), m.capacity, m.slider.pos),
		fmt.Sprintf("feed records: %d  rate: %d rec/s  skipped: %d  dropped: %d",
			snap.records, snap.avgRps, m.feed.skipped.Load(), m.feed.dropped.Load()),
		fmt.Sprintf("render last/avg/max: %s / %s / %s",
			formatMetricDuration(snap.render.last), formatMetricDuration(snap.render.avg), formatMetricDuration(snap.render.max)),
		fmt.Sprintf("sample last/avg/max: %s / %s / %s",
			formatMetricDuration(snap.sample.last), formatMetricDuration(snap.sample.avg), formatMetricDuration(snap.sample.max)),
	}
	if m.hub != nil {
		lines[1] += fmt.Sprintf("  ws clients: %d", m.hub.clientCount())
	}
	return strings.Join(lines, "\n")
}

func formatMetricDuration(d time.Duration) string {
	if d <= 0 {
		return "0.000ms"
	}
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}

func computePaneWidths(totalWidth int, splitPercent int) (left, right int) {
	if totalWidth <= 1 {
		return 1, 1
	}
	left = totalWidth * splitPercent / 100
	left = min(totalWidth-1, max(1, left))
	right = totalWidth - left

	// Keep panes readable when the terminal is wide enough.
	const minPane = 18
	if totalWidth >= minPane*2 {
		if left < minPane {
			left = minPane
			right = totalWidth - left
		}
		if right < minPane {
			right = minPane
			left = totalWidth - right
		}
	}
	return max(1, left), max(1, right)
}

type listItem struct {
	Rank int
	heap.Item
}

func (i listItem) Title() string       { return fmt.Sprintf("#%-3d %s", i.Rank, i.Item.Item) }
func (i listItem) Description() string { return fmt.Sprintf("     %d updates", i.Count) }
func (i listItem) FilterValue() string { return i.Item.Item }

type keyMap struct {
	Pause     key.Binding
	Separator key.Binding
	Reset     key.Binding
	Baseline  key.Binding
	Left      key.Binding
	Right     key.Binding
	Grow      key.Binding
	Shrink    key.Binding
	Up        key.Binding
	Down      key.Binding
	Quit      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Pause, k.Separator, k.Reset, k.Baseline, k.Left, k.Right, k.Grow, k.Shrink}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Pause, k.Reset},
		{k.Separator, k.Baseline, k.Left, k.Right},
		{k.Grow, k.Shrink, k.Up, k.Down},
	}
}

var keys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	Separator: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "separator"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Baseline: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "baseline"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "slider down"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "slider up"),
	),
	Grow: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "more history"),
	),
	Shrink: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "less history"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
