package irc

import (
	"context"
	"fmt"
	"sync"
)

// RequestError is the failure of a request, carrying the server reply that
// rejected it.
type RequestError struct {
	Reply Message
}

func (err *RequestError) Error() string {
	text := err.Reply.Command
	if n := len(err.Reply.Params); n > 0 {
		text += ": " + err.Reply.Params[n-1]
	}
	return fmt.Sprintf("request failed: %s", text)
}

// Result is the outcome of a Request. Exactly one of Reply, Batch and Err is
// meaningful: Batch is set for labeled responses that came as a batch.
type Result struct {
	Reply Message
	Batch []Message
	Err   error
}

// Request is a sent message waiting for its reply. It is resolved at most
// once, from within Session.HandleMessage.
type Request struct {
	Message Message

	once   sync.Once
	done   chan struct{}
	result Result
}

func newRequest(msg Message) *Request {
	return &Request{
		Message: msg,
		done:    make(chan struct{}),
	}
}

func (r *Request) resolve(res Result) (ok bool) {
	r.once.Do(func() {
		r.result = res
		close(r.done)
		ok = true
	})
	return ok
}

// Done is closed once the request is resolved.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Result returns the outcome of the request without blocking.
func (r *Request) Result() (Result, bool) {
	select {
	case <-r.done:
		return r.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the request is resolved or ctx is done. The server may
// never answer, so callers should pass a context with a deadline.
func (r *Request) Wait(ctx context.Context) (Result, error) {
	select {
	case <-r.done:
		return r.result, r.result.Err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (r *Request) isBareNick() bool {
	if r.Message.Command != "NICK" {
		return false
	}
	_, labeled := r.Message.Label()
	return !labeled
}
