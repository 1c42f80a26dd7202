package main

import (
	"testing"
)

func TestStripSetOrderAndDedup(t *testing.T) {
	ss := newStripSet(StripConfig{Capacity: 5}, 0)
	for _, name := range []string{"b", "a", "b"} {
		if _, err := ss.add(StripConfig{Name: name}.Resolve(5)); err != nil {
			t.Fatal(err)
		}
	}
	entries := ss.entries()
	if len(entries) != 2 || entries[0].name != "b" || entries[1].name != "a" {
		t.Fatalf("entries = %v", entries)
	}
	if ss.get("missing") != nil {
		t.Fatal("get returned a strip for an unknown name")
	}
}

func TestStripSetAddInvalid(t *testing.T) {
	ss := newStripSet(StripConfig{}, 0)
	sc := StripConfig{Name: "x"}.Resolve(0)
	if _, err := ss.add(sc); err == nil {
		t.Fatal("zero capacity strip accepted")
	}
}

func TestStripSetFeedStrip(t *testing.T) {
	ss := newStripSet(StripConfig{Capacity: 4}, 1)
	e, err := ss.feedStrip("t1")
	if err != nil || e == nil {
		t.Fatalf("feedStrip(t1) = %v, %v", e, err)
	}
	if e.source != SourceFeed || e.label != "t1" {
		t.Fatalf("feed entry = %+v", e)
	}
	if again, _ := ss.feedStrip("t1"); again != e {
		t.Fatal("feedStrip created a second strip for the same name")
	}
	if over, _ := ss.feedStrip("t2"); over != nil {
		t.Fatal("feedStrip ignored the limit")
	}
}

func TestStripSetFeedBudgetIgnoresFailedCreate(t *testing.T) {
	// Zero-capacity prototype makes every create fail.
	ss := newStripSet(StripConfig{}, 1)
	if _, err := ss.feedStrip("t1"); err == nil {
		t.Fatal("feedStrip accepted a zero capacity prototype")
	}
	if ss.feeds != 0 {
		t.Fatalf("feeds = %d after a failed create", ss.feeds)
	}
	ss.setCapacity(4)
	if e, err := ss.feedStrip("t1"); err != nil || e == nil {
		t.Fatalf("feedStrip(t1) = %v, %v", e, err)
	}
}

func TestStripSetFeedBudgetIgnoresExistingName(t *testing.T) {
	ss := newStripSet(StripConfig{Capacity: 4}, 1)
	if _, err := ss.add(StripConfig{Name: "temp", Source: SourceWave}.Resolve(4)); err != nil {
		t.Fatal(err)
	}
	if e, _ := ss.feedStrip("temp"); e == nil || e.source == SourceFeed {
		t.Fatalf("feedStrip(temp) = %+v, want the configured strip", e)
	}
	if e, _ := ss.feedStrip("t1"); e == nil {
		t.Fatal("feed budget spent on an existing strip")
	}
}

func TestStripSetCapacityAppliesToLaterFeedStrips(t *testing.T) {
	ss := newStripSet(StripConfig{Capacity: 4}, 0)
	old, err := ss.feedStrip("old")
	if err != nil {
		t.Fatal(err)
	}
	ss.setCapacity(16)
	fresh, err := ss.feedStrip("fresh")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []*entry{old, fresh} {
		if got := e.strip.Frame().Capacity; got != 16 {
			t.Errorf("%s capacity = %d, want 16", e.name, got)
		}
	}
}
