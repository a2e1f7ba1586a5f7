package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/quotelens/quotelens/internal/core/compare"
	"github.com/quotelens/quotelens/internal/core/domain"
	"github.com/quotelens/quotelens/internal/core/extract"
	"github.com/quotelens/quotelens/internal/core/ports"
)

// Session drives one interactive analysis run over a PO/Quote text pair:
// concurrent extraction of both sides, a suspension point for human
// validation, then comparison. Each session isolates its own records; a
// failed or cancelled run discards them and returns to idle.
type Session struct {
	pipeline   *Pipeline
	text       ports.TextSource
	extractor  *extract.Extractor
	comparator *compare.Comparator

	mu             sync.Mutex
	poRecord       *domain.ExtractedRecord
	quoteRecord    *domain.ExtractedRecord
	poValidated    bool
	quoteValidated bool
}

func NewSession(text ports.TextSource, extractor *extract.Extractor, comparator *compare.Comparator) *Session {
	return &Session{
		pipeline:   NewPipeline(),
		text:       text,
		extractor:  extractor,
		comparator: comparator,
	}
}

func (s *Session) State() PipelineState {
	return s.pipeline.State()
}

// ExtractPair decodes and extracts both documents concurrently and joins on
// both results before the session moves to awaiting_validation. A failure on
// either side fails the run and resets it to idle with nothing retained.
func (s *Session) ExtractPair(ctx context.Context, poFilename string, poData []byte, quoteFilename string, quoteData []byte) (*domain.ExtractedRecord, *domain.ExtractedRecord, error) {
	if err := s.pipeline.to(StateExtracting); err != nil {
		return nil, nil, err
	}

	var po, quote *domain.ExtractedRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		po, err = s.extractOne(gctx, poFilename, poData, domain.KindPurchaseOrder)
		return err
	})
	g.Go(func() error {
		var err error
		quote, err = s.extractOne(gctx, quoteFilename, quoteData, domain.KindQuote)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail()
		return nil, nil, err
	}

	if err := s.pipeline.to(StateAwaitingValidation); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.poRecord = po
	s.quoteRecord = quote
	s.poValidated = false
	s.quoteValidated = false
	s.mu.Unlock()

	return po, quote, nil
}

func (s *Session) extractOne(ctx context.Context, filename string, data []byte, kind domain.DocumentKind) (*domain.ExtractedRecord, error) {
	text, err := s.text.Extract(ctx, filename, data)
	if err != nil {
		return nil, domain.WrapError(domain.ErrExtractionFailed, "extract text", err)
	}
	if text == "" {
		return nil, domain.WrapError(domain.ErrExtractionFailed, "extract text", errors.New("empty extracted text"))
	}
	return s.extractor.Extract(text, kind), nil
}

// SubmitPO applies the human-reviewed PO record. Valid only while the
// session is awaiting validation.
func (s *Session) SubmitPO(record *domain.ExtractedRecord) error {
	return s.submit(record, domain.KindPurchaseOrder)
}

// SubmitQuote applies the human-reviewed Quote record.
func (s *Session) SubmitQuote(record *domain.ExtractedRecord) error {
	return s.submit(record, domain.KindQuote)
}

func (s *Session) submit(record *domain.ExtractedRecord, kind domain.DocumentKind) error {
	if record == nil {
		return domain.WrapError(domain.ErrInvalidInput, "submit validated record", errors.New("nil record"))
	}
	if state := s.pipeline.State(); state != StateAwaitingValidation {
		return domain.WrapError(
			domain.ErrInvalidState,
			"submit validated record",
			fmt.Errorf("session is %s, not %s", state, StateAwaitingValidation),
		)
	}

	record.Kind = kind
	s.extractor.Rescore(record)

	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == domain.KindPurchaseOrder {
		s.poRecord = record
		s.poValidated = true
	} else {
		s.quoteRecord = record
		s.quoteValidated = true
	}
	return nil
}

// Analyze runs the comparator once both sides are validated and completes
// the session.
func (s *Session) Analyze() (*domain.ComparisonReport, error) {
	s.mu.Lock()
	ready := s.poValidated && s.quoteValidated
	po, quote := s.poRecord, s.quoteRecord
	s.mu.Unlock()

	if !ready {
		return nil, domain.WrapError(
			domain.ErrInvalidState,
			"analyze session",
			errors.New("both records must be validated first"),
		)
	}
	if err := s.pipeline.to(StateAnalyzing); err != nil {
		return nil, err
	}

	report := s.comparator.Compare(po, quote)

	if err := s.pipeline.to(StateComplete); err != nil {
		return nil, err
	}
	return &report, nil
}

// Cancel discards both in-flight records and returns the session to idle.
// Only an awaiting-validation session can be cancelled.
func (s *Session) Cancel() error {
	if err := s.pipeline.to(StateIdle); err != nil {
		return err
	}
	s.discard()
	return nil
}

// Reset returns a complete or failed session to idle for reuse.
func (s *Session) Reset() error {
	if err := s.pipeline.to(StateIdle); err != nil {
		return err
	}
	s.discard()
	return nil
}

func (s *Session) fail() {
	// Failure discards everything; both transitions are always legal from
	// the states that can fail.
	_ = s.pipeline.to(StateFailed)
	s.discard()
}

func (s *Session) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poRecord = nil
	s.quoteRecord = nil
	s.poValidated = false
	s.quoteValidated = false
}
