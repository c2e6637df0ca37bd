package debugger

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/Melamoto/dexter/internal/timer"
	"github.com/Melamoto/dexter/internal/trace"
)

// Descriptor binds a backend's stable option name to its constructor.
type Descriptor struct {
	OptionName string
	New        Constructor
}

var (
	registerMu sync.Mutex
	candidates []Descriptor

	discoverOnce sync.Once
	discovered   map[string]Descriptor
)

// Register adds a backend implementation to the candidate set. A candidate
// registered with an empty option name is a stub with no key yet and is
// skipped by discovery. Registering two different constructors under one
// name is an internal consistency fault and panics; registering the
// identical constructor twice is a no-op.
//
// Register must be called before the first Discover, in practice from an
// implementation package's init.
func Register(optionName string, ctor Constructor) {
	registerMu.Lock()
	defer registerMu.Unlock()

	if optionName != "" {
		for _, c := range candidates {
			if c.OptionName != optionName {
				continue
			}
			if reflect.ValueOf(c.New).Pointer() != reflect.ValueOf(ctor).Pointer() {
				panic(fmt.Sprintf(
					"debugger: conflicting backends registered under %q", optionName))
			}
			return
		}
	}
	candidates = append(candidates, Descriptor{OptionName: optionName, New: ctor})
}

// Discover returns the mapping of option name to descriptor for every
// usable candidate. The result is computed once per process and is
// read-only thereafter; repeated calls return the same mapping.
func Discover() map[string]Descriptor {
	discoverOnce.Do(func() {
		registerMu.Lock()
		defer registerMu.Unlock()

		discovered = make(map[string]Descriptor, len(candidates))
		for _, c := range candidates {
			if c.OptionName == "" {
				continue // stub with no key yet
			}
			discovered[c.OptionName] = c
		}
	})
	return discovered
}

// Keys returns the discovered option names, sorted.
func Keys() []string {
	m := Discover()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load constructs the backend registered under key, bound to the run
// context and an optional prior trace. Construction time is reported
// through the diagnostic timers; construction failures propagate to the
// caller.
func Load(key string, ctx *Context, prior *trace.Trace) (Backend, error) {
	desc, ok := Discover()[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	defer timer.Start("load " + key)()
	b, err := desc.New(ctx, prior)
	if err != nil {
		return nil, fmt.Errorf("construct debugger %s: %w", key, err)
	}
	return b, nil
}
