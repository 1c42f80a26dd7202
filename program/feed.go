package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keilerkonzept/topk/heap"
	"github.com/keilerkonzept/topk/sliding"
)

var errBadRecord = errors.New("malformed record")

// feedRecord is one input record: a value or a separator for a named series.
type feedRecord struct {
	Series    string   `json:"series"`
	Value     *float64 `json:"value"`
	Separator bool     `json:"separator"`
}

// parseTextRecord parses "name value" or "name |".
func parseTextRecord(line string) (feedRecord, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return feedRecord{}, fmt.Errorf("%w: want 2 fields, got %d", errBadRecord, len(fields))
	}
	rec := feedRecord{Series: fields[0]}
	if fields[1] == "|" {
		rec.Separator = true
		return rec, nil
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return feedRecord{}, fmt.Errorf("%w: %v", errBadRecord, err)
	}
	rec.Value = &v
	return rec, nil
}

func (rec feedRecord) validate() error {
	if rec.Series == "" {
		return fmt.Errorf("%w: missing series", errBadRecord)
	}
	if !rec.Separator && rec.Value == nil {
		return fmt.Errorf("%w: series %q has neither value nor separator", errBadRecord, rec.Series)
	}
	return nil
}

// feeder routes input records into strips and counts series activity in a
// sliding top-K sketch for the leaderboard.
type feeder struct {
	strips  *stripSet
	metrics *latencyMetrics

	sketchMu sync.Mutex
	sketch   *sliding.Sketch

	maxLines int
	pace     time.Duration
	wait     func()

	records atomic.Uint64
	skipped atomic.Uint64
	dropped atomic.Uint64
}

func newFeeder(strips *stripSet, sketch *sliding.Sketch, metrics *latencyMetrics) *feeder {
	return &feeder{
		strips:  strips,
		sketch:  sketch,
		metrics: metrics,
		wait:    func() {},
	}
}

func (f *feeder) apply(rec feedRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	e, err := f.strips.feedStrip(rec.Series)
	if err != nil {
		return err
	}
	if e == nil {
		f.dropped.Add(1)
		return nil
	}
	if rec.Separator {
		e.strip.AddSeparator()
	} else {
		e.strip.SetValue(*rec.Value)
	}
	if f.sketch != nil {
		f.sketchMu.Lock()
		f.sketch.Incr(rec.Series)
		f.sketchMu.Unlock()
	}
	f.records.Add(1)
	if f.metrics != nil {
		f.metrics.observeIngest(time.Now())
	}
	return nil
}

// applyOrSkip counts malformed records instead of stopping the feed.
func (f *feeder) applyOrSkip(rec feedRecord, err error) error {
	if err == nil {
		err = f.apply(rec)
	}
	if errors.Is(err, errBadRecord) {
		f.skipped.Add(1)
		return nil
	}
	return err
}

func (f *feeder) readText(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		f.wait()
		if f.maxLines > 0 && n >= f.maxLines {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := f.applyOrSkip(parseTextRecord(line)); err != nil {
			return err
		}
		n++
		if f.pace > 0 {
			time.Sleep(f.pace)
		}
	}
	return scanner.Err()
}

func (f *feeder) readJSON(r io.Reader) error {
	dec := json.NewDecoder(bufio.NewReader(r))
	n := 0
	for {
		f.wait()
		if f.maxLines > 0 && n >= f.maxLines {
			return nil
		}
		var rec feedRecord
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := f.applyOrSkip(rec, nil); err != nil {
			return err
		}
		n++
		if f.pace > 0 {
			time.Sleep(f.pace)
		}
	}
}

func (f *feeder) ticks(n int) {
	if f.sketch == nil || n <= 0 {
		return
	}
	f.sketchMu.Lock()
	f.sketch.Ticks(n)
	f.sketchMu.Unlock()
}

func (f *feeder) sorted() []heap.Item {
	if f.sketch == nil {
		return nil
	}
	f.sketchMu.Lock()
	defer f.sketchMu.Unlock()
	return f.sketch.SortedSlice()
}

func (f *feeder) updateCounts(items []heap.Item, limit int) {
	if f.sketch == nil {
		return
	}
	f.sketchMu.Lock()
	defer f.sketchMu.Unlock()
	for i := 0; i < limit; i++ {
		items[i].Count = f.sketch.Count(items[i].Item)
	}
}
