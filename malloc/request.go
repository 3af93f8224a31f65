package malloc

import "fmt"
import "time"
import "unsafe"
import "sync/atomic"

// RequestKind what the requested chunks are going to be used for.
// Service treats all kinds alike.
type RequestKind int

const (
	// RequestObject chunks to hold fixed size structures.
	RequestObject RequestKind = iota + 1
	// RequestPacket chunks to hold control packets.
	RequestPacket
	// RequestBuffer chunks used as scatter-gather data buffers.
	RequestBuffer
)

func (kind RequestKind) String() string {
	switch kind {
	case RequestObject:
		return "object"
	case RequestPacket:
		return "packet"
	case RequestBuffer:
		return "buffer"
	}
	return fmt.Sprintf("kind(%d)", int(kind))
}

// RequestState life cycle of an allocation request.
type RequestState int64

const (
	// RequestUnbuilt request was never built.
	RequestUnbuilt RequestState = iota
	// RequestInitialized built and ready to be submitted.
	RequestInitialized
	// RequestPending waiting in the service queue.
	RequestPending
	// RequestCompletedImmediately granted on the caller's goroutine.
	RequestCompletedImmediately
	// RequestCompleted granted on the dispatcher goroutine.
	RequestCompleted
	// RequestAborted taken off the queue before it was granted.
	RequestAborted
	// RequestFailed refused by the service, refer to Err().
	RequestFailed
)

func (state RequestState) String() string {
	switch state {
	case RequestUnbuilt:
		return "unbuilt"
	case RequestInitialized:
		return "initialized"
	case RequestPending:
		return "pending"
	case RequestCompletedImmediately:
		return "completedimmediately"
	case RequestCompleted:
		return "completed"
	case RequestAborted:
		return "aborted"
	case RequestFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int64(state))
}

// Completion callback invoked exactly once for every submitted
// request, either on the goroutine calling Allocate or on the
// dispatcher goroutine. Callback shall not call Destroy.
type Completion func(req *Request, ctx interface{})

// Request to allocate one or more chunks, owned by the caller and
// reusable after completion by calling Build again.
type Request struct {
	state     int64 // RequestState
	numchunks int64
	kind      RequestKind
	callb     Completion
	ctx       interface{}
	err       error
	chunks    []unsafe.Pointer

	// owned by service while pending.
	svc      *Service
	prev     *Request
	next     *Request
	aborting bool
	queuedat time.Time
}

// NewRequest short hand for building a new request.
func NewRequest(
	k int64, kind RequestKind, callb Completion, ctx interface{}) *Request {

	req := &Request{}
	if err := req.Build(k, kind, callb, ctx); err != nil {
		panicerr("NewRequest: %v", err)
	}
	return req
}

// Build request for `k` chunks. Request still pending with the
// service, or holding chunks granted by a previous allocation, cannot
// be rebuilt.
func (req *Request) Build(
	k int64, kind RequestKind, callb Completion, ctx interface{}) error {

	if req.State() == RequestPending || len(req.chunks) > 0 {
		return ErrorRequestInUse
	} else if callb == nil {
		return fmterror(ErrorInvalidRequest, "nil completion")
	}
	req.numchunks, req.kind, req.callb, req.ctx = k, kind, callb, ctx
	req.err, req.chunks = nil, req.chunks[:0]
	req.svc, req.prev, req.next, req.aborting = nil, nil, nil, false
	req.setstate(RequestInitialized)
	return nil
}

// Numchunks requested.
func (req *Request) Numchunks() int64 {
	return req.numchunks
}

// Kind of request.
func (req *Request) Kind() RequestKind {
	return req.kind
}

// State of request.
func (req *Request) State() RequestState {
	return RequestState(atomic.LoadInt64(&req.state))
}

// Err nil if request was granted.
func (req *Request) Err() error {
	return req.err
}

// Context supplied while building the request.
func (req *Request) Context() interface{} {
	return req.ctx
}

// Chunks granted, in the order they were taken off the free registry.
func (req *Request) Chunks() []unsafe.Pointer {
	return req.chunks
}

// Chunk return the i-th granted chunk.
func (req *Request) Chunk(i int) unsafe.Pointer {
	return req.chunks[i]
}

// IsImmediate whether request was granted on caller's goroutine.
func (req *Request) IsImmediate() bool {
	return req.State() == RequestCompletedImmediately
}

// IsAborted whether request was aborted.
func (req *Request) IsAborted() bool {
	return req.State() == RequestAborted
}

// IsComplete whether completion callback is due or done.
func (req *Request) IsComplete() bool {
	switch req.State() {
	case RequestCompletedImmediately, RequestCompleted:
		return true
	case RequestAborted, RequestFailed:
		return true
	}
	return false
}

func (req *Request) setstate(state RequestState) {
	atomic.StoreInt64(&req.state, int64(state))
}

func (req *Request) complete() {
	req.callb(req, req.ctx)
}

func (req *Request) String() string {
	return fmt.Sprintf("{%v k:%v %v}", req.kind, req.numchunks, req.State())
}
