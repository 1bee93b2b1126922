package sizing

import (
	"fmt"

	"github.com/kubev2v/capacity-planner/internal/capacity"
)

// Engine orchestrates Sizer objects and collects their recommendations
type Engine struct {
	sizers []Sizer
}

// NewEngine creates a new Engine with no sizers registered.
func NewEngine() *Engine {
	return &Engine{
		sizers: make([]Sizer, 0),
	}
}

// Register adds a Sizer to the engine. Sizers run in registration order.
// Register panics if a sizer for the same resource is already registered,
// as it would silently overwrite results in Run.
func (e *Engine) Register(s Sizer) {
	for _, existing := range e.sizers {
		if existing.Name() == s.Name() {
			panic(fmt.Sprintf("sizing: sizer %q already registered", s.Name()))
		}
	}
	e.sizers = append(e.sizers, s)
}

// Resources returns the registered resources in registration order.
func (e *Engine) Resources() []Resource {
	res := make([]Resource, 0, len(e.sizers))
	for _, s := range e.sizers {
		res = append(res, s.Name())
	}
	return res
}

// Run sizes every registered resource from the summary with the choices of
// the selection. A failing sizer does not stop the others, its error is
// reported in the Reason of its recommendation.
func (e *Engine) Run(summary *capacity.Summary, selection Selection) map[Resource]Recommendation {
	results := make(map[Resource]Recommendation, len(e.sizers))
	for _, s := range e.sizers {
		rec, err := s.Size(summary, selection.Choice(s.Name()))
		if err != nil {
			results[s.Name()] = Recommendation{
				Resource: s.Name(),
				Reason:   fmt.Sprintf("Error: %v", err),
			}
			continue
		}
		results[s.Name()] = rec
	}
	return results
}
