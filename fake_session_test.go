package judokit

import (
	"context"
	"sync"

	"github.com/hugochinchilla79/judokit_sdk/models"
)

type recordedCall struct {
	method string
	path   string
	params Parameters
}

// recordingSession captures calls and answers each with resp/err synchronously.
type recordingSession struct {
	HTTPSession

	mu    sync.Mutex
	calls []recordedCall
	resp  *models.Response
	err   error
}

func newRecordingSession() *recordingSession {
	return &recordingSession{resp: &models.Response{Items: []models.Receipt{{ReceiptID: "100000001", Result: models.ResultSuccess}}}}
}

func (s *recordingSession) GET(_ context.Context, path string, done Completion) {
	s.record("GET", path, nil, done)
}

func (s *recordingSession) POST(_ context.Context, path string, params Parameters, done Completion) {
	s.record("POST", path, params, done)
}

func (s *recordingSession) PUT(_ context.Context, path string, params Parameters, done Completion) {
	s.record("PUT", path, params, done)
}

func (s *recordingSession) record(method, path string, params Parameters, done Completion) {
	s.mu.Lock()
	s.calls = append(s.calls, recordedCall{method: method, path: path, params: params})
	resp, err := s.resp, s.err
	s.mu.Unlock()
	if done == nil {
		return
	}
	if err != nil {
		done(nil, err)
		return
	}
	done(resp, nil)
}

func (s *recordingSession) last() recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return recordedCall{}
	}
	return s.calls[len(s.calls)-1]
}

func (s *recordingSession) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
