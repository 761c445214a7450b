package radix

import (
	"go.uber.org/zap"
)

// Pass records the state of the working sequence after one bucketing pass.
type Pass struct {
	Index   int       `json:"index"`
	Divisor int       `json:"divisor"`
	Buckets [Base]int `json:"buckets"` // element count per digit
	Values  []int     `json:"values"`
}

// Observer is called once per pass, after the buckets have been drained.
// The Values slice belongs to the observer.
type Observer func(Pass)

// Option configures a Sorter.
type Option func(*Sorter)

// WithObserver installs a per-pass hook.
func WithObserver(fn Observer) Option {
	return func(s *Sorter) { s.observer = fn }
}

// WithLogger sets the logger used for per-pass debug entries.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sorter) {
		if l != nil {
			s.logger = l
		}
	}
}

// Sorter runs the digit-bucket sort with optional instrumentation.
// A Sorter holds no per-call state and is safe for concurrent use.
type Sorter struct {
	observer Observer
	logger   *zap.Logger
}

var defaultSorter = NewSorter()

// NewSorter creates a Sorter.
func NewSorter(opts ...Option) *Sorter {
	s := &Sorter{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sort returns a sorted copy of values.
func (s *Sorter) Sort(values []int) ([]int, error) {
	return s.run(values, s.observer)
}

// Trace sorts values and also returns every intermediate pass.
func (s *Sorter) Trace(values []int) ([]int, []Pass, error) {
	var passes []Pass
	out, err := s.run(values, func(p Pass) {
		passes = append(passes, p)
		if s.observer != nil {
			s.observer(p)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return out, passes, nil
}

func (s *Sorter) run(values []int, observe Observer) ([]int, error) {
	if err := validate(values); err != nil {
		return nil, err
	}

	working := make([]int, len(values))
	copy(working, values)

	width := Width(working)
	return distribute(working, working, func(pass, divisor int, sizes [Base]int, items []int) {
		s.logger.Debug("radix pass",
			zap.Int("pass", pass),
			zap.Int("width", width),
			zap.Ints("buckets", sizes[:]),
		)
		if observe != nil {
			observe(Pass{Index: pass, Divisor: divisor, Buckets: sizes, Values: items})
		}
	}), nil
}
