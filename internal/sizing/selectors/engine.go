package selectors

import "github.com/kubev2v/capacity-planner/internal/sizing"

// NewEngine returns an engine with the CPU, memory and storage selectors registered.
func NewEngine() *sizing.Engine {
	e := sizing.NewEngine()
	e.Register(NewCPU())
	e.Register(NewMemory())
	e.Register(NewStorage())
	return e
}
