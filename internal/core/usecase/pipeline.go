package usecase

import (
	"fmt"
	"sync"

	"github.com/quotelens/quotelens/internal/core/domain"
)

// PipelineState is the lifecycle of one in-flight PO/Quote analysis run.
type PipelineState string

const (
	StateIdle               PipelineState = "idle"
	StateExtracting         PipelineState = "extracting"
	StateAwaitingValidation PipelineState = "awaiting_validation"
	StateAnalyzing          PipelineState = "analyzing"
	StateComplete           PipelineState = "complete"
	StateFailed             PipelineState = "failed"
)

// transitions is the full set of legal moves. Anything absent is rejected
// with ErrInvalidState instead of silently ignored.
var transitions = map[PipelineState][]PipelineState{
	StateIdle:               {StateExtracting},
	StateExtracting:         {StateAwaitingValidation, StateFailed},
	StateAwaitingValidation: {StateAnalyzing, StateIdle, StateFailed},
	StateAnalyzing:          {StateComplete, StateFailed},
	StateComplete:           {StateIdle},
	StateFailed:             {StateIdle},
}

// Pipeline is a mutex-guarded finite-state machine. A fresh Pipeline starts
// idle.
type Pipeline struct {
	mu    sync.Mutex
	state PipelineState
}

func NewPipeline() *Pipeline {
	return &Pipeline{state: StateIdle}
}

func (p *Pipeline) State() PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) to(next PipelineState) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, allowed := range transitions[p.state] {
		if allowed == next {
			p.state = next
			return nil
		}
	}
	return domain.WrapError(
		domain.ErrInvalidState,
		"advance pipeline",
		fmt.Errorf("cannot move from %s to %s", p.state, next),
	)
}
