package service

import (
	"context"
	"sync"

	"gotcha-gamemaster/internal/gateway"
)

// stubGateway is a scripted gateway.Client for tests. Each call records
// the request and is answered by respond.
type stubGateway struct {
	mu       sync.Mutex
	requests []gateway.Request
	respond  func(req gateway.Request) (gateway.Response, error)
}

func (s *stubGateway) Complete(ctx context.Context, req gateway.Request) (gateway.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return s.respond(req)
}

// lastRequest returns the most recent request seen by the stub.
func (s *stubGateway) lastRequest() gateway.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func (s *stubGateway) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// fixedContent answers every request with the same content.
func fixedContent(content string) func(gateway.Request) (gateway.Response, error) {
	return func(gateway.Request) (gateway.Response, error) {
		return gateway.Response{Content: content}, nil
	}
}

// alwaysFail answers every request with the given error.
func alwaysFail(err error) func(gateway.Request) (gateway.Response, error) {
	return func(gateway.Request) (gateway.Response, error) {
		return gateway.Response{}, err
	}
}
