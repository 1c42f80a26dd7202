package main

import (
	"log"
	"sync"

	"github.com/keilerkonzept/plotstrip/strip"
)

type entry struct {
	name   string
	label  string
	source string
	strip  *strip.Locked
}

// stripSet keeps strips in insertion order. The feed goroutine adds to it
// while the UI reads it.
type stripSet struct {
	mu      sync.Mutex
	order   []*entry
	byName  map[string]*entry
	proto   StripConfig
	maxFeed int
	feeds   int
}

func newStripSet(proto StripConfig, maxFeed int) *stripSet {
	return &stripSet{
		byName:  make(map[string]*entry),
		proto:   proto,
		maxFeed: maxFeed,
	}
}

func (ss *stripSet) add(sc StripConfig) (*entry, error) {
	e, _, err := ss.insert(sc)
	return e, err
}

// insert reports whether sc created a new entry. An existing entry with the
// same name wins.
func (ss *stripSet) insert(sc StripConfig) (*entry, bool, error) {
	s, err := sc.NewStrip()
	if err != nil {
		return nil, false, err
	}
	e := &entry{name: sc.Name, label: sc.Label, source: sc.Source, strip: strip.NewLocked(s)}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if old, ok := ss.byName[sc.Name]; ok {
		return old, false, nil
	}
	ss.byName[sc.Name] = e
	ss.order = append(ss.order, e)
	return e, true, nil
}

func (ss *stripSet) get(name string) *entry {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.byName[name]
}

// feedStrip returns the strip for a feed series, creating it from the
// prototype config on first use. It returns nil once maxFeed strips exist.
func (ss *stripSet) feedStrip(name string) (*entry, error) {
	ss.mu.Lock()
	if e, ok := ss.byName[name]; ok {
		ss.mu.Unlock()
		return e, nil
	}
	if ss.full() {
		ss.mu.Unlock()
		return nil, nil
	}
	sc := ss.proto
	ss.mu.Unlock()

	sc.Name, sc.Label = name, ""
	e, created, err := ss.insert(sc.Resolve(sc.Capacity))
	if err != nil || !created {
		return e, err
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.full() {
		// Lost a race for the last slot.
		ss.removeLocked(e)
		return nil, nil
	}
	ss.feeds++
	return e, nil
}

func (ss *stripSet) full() bool {
	return ss.maxFeed > 0 && ss.feeds >= ss.maxFeed
}

func (ss *stripSet) removeLocked(e *entry) {
	delete(ss.byName, e.name)
	for i, o := range ss.order {
		if o == e {
			ss.order = append(ss.order[:i], ss.order[i+1:]...)
			break
		}
	}
}

// setCapacity resizes every strip and the prototype used for feed strips
// created later.
func (ss *stripSet) setCapacity(n int) {
	ss.mu.Lock()
	ss.proto.Capacity = n
	ss.mu.Unlock()
	ss.each(func(e *entry) {
		e.strip.Do(func(s *strip.Strip) {
			if err := s.SetCapacity(n); err != nil {
				log.Printf("strip %q: %v", e.name, err)
			}
		})
	})
}

func (ss *stripSet) entries() []*entry {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	out := make([]*entry, len(ss.order))
	copy(out, ss.order)
	return out
}

func (ss *stripSet) each(fn func(e *entry)) {
	for _, e := range ss.entries() {
		fn(e)
	}
}
