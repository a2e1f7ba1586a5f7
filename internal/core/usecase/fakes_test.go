package usecase

import (
	"bytes"
	"context"
	"io"

	"github.com/quotelens/quotelens/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type docRepoFake struct {
	doc           *domain.Document
	created       *domain.Document
	createErr     error
	getErr        error
	saveErr       error
	statusErr     error
	failStatusErr error
	statusCalls   []statusCall
	savedRecordID string
	savedRecord   *domain.ExtractedRecord
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = doc
	return nil
}

func (f *docRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *docRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	return nil
}

func (f *docRepoFake) SaveRecord(_ context.Context, id string, record *domain.ExtractedRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedRecordID = id
	f.savedRecord = record
	return nil
}

// pairRepoFake serves two documents by id, for the analyze use case.
type pairRepoFake struct {
	docs   map[string]*domain.Document
	getErr error
}

func (f *pairRepoFake) Create(context.Context, *domain.Document) error { return nil }

func (f *pairRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copyDoc := *doc
	return &copyDoc, nil
}

func (f *pairRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return nil
}

func (f *pairRepoFake) SaveRecord(context.Context, string, *domain.ExtractedRecord) error {
	return nil
}

type analysisRepoFake struct {
	created   *domain.Analysis
	analysis  *domain.Analysis
	analyses  []*domain.Analysis
	createErr error
	getErr    error
	listErr   error
}

func (f *analysisRepoFake) Create(_ context.Context, analysis *domain.Analysis) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = analysis
	return nil
}

func (f *analysisRepoFake) GetByID(context.Context, string) (*domain.Analysis, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.analysis, nil
}

func (f *analysisRepoFake) List(_ context.Context, limit, offset int) ([]*domain.Analysis, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.analyses, nil
}

type storageFake struct {
	saved    map[string][]byte
	saveErr  error
	openErr  error
	contents []byte
}

func (f *storageFake) Save(_ context.Context, path string, body io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[path] = data
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewReader(f.contents)), nil
}

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

func (f *queueFake) Close() {}

type textFake struct {
	text string
	err  error
}

func (f *textFake) Extract(context.Context, string, []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
