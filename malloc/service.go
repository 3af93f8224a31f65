package malloc

import "fmt"
import "sync"
import "time"
import "unsafe"
import "sync/atomic"

import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"
import "github.com/bnclabs/memservice/lib"

// Service manages a pool of fixed size chunks, carved out of a single
// block, and hands them out to allocation requests. Requests that
// cannot be satisfied are queued and granted, in FIFO order, by a
// dispatcher goroutine as chunks are released.
type Service struct {
	// 64-bit aligned stats
	n_invalid int64

	// following fields are protected by mu.
	mu           sync.Mutex
	initialized  bool
	arena        *arena
	free         freelist
	pending      pendingq
	aborted      []*Request
	n_allocs     int64
	n_fastpath   int64
	n_slowpath   int64
	n_releases   int64
	n_pushes     int64
	n_pops       int64
	n_dispatches int64
	n_aborts     int64
	h_numchunks  *lib.HistogramInt64
	h_pending    *lib.HistogramInt64
	wait         *lib.AverageInt64

	lmu       sync.Mutex // serialize Init and Destroy
	allocfn   AllocFunc
	releasefn ReleaseFunc
	dstate    int64
	wakech    chan struct{}
	finch     chan struct{}
	donech    chan struct{}

	// settings
	name       string
	chunksize  int64
	maxobject  int64
	maxrequest int64
	tick       time.Duration
	batch      bool
	setts      s.Settings
	logprefix  string
}

// NewService create a new memory service, settings are mixed-in on
// top of Defaultsettings(). Service shall be initialized before use.
func NewService(name string, setts s.Settings) *Service {
	svc := &Service{name: name, allocfn: osalloc, releasefn: osrelease}
	svc.logprefix = fmt.Sprintf("MALLOC [%s]", name)

	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	svc.readsettings(setts)
	svc.setts = setts
	svc.free = freelist{head: -1}
	return svc
}

// SetMemoryFunctions replace the functions used to obtain and release
// the backing block. Passing both as nil restores the defaults. Shall
// be called before Init.
func (svc *Service) SetMemoryFunctions(
	allocfn AllocFunc, releasefn ReleaseFunc) error {

	svc.lmu.Lock()
	defer svc.lmu.Unlock()

	if svc.isinitialized() {
		return ErrorAlreadyInitialized
	} else if allocfn == nil && releasefn == nil {
		svc.allocfn, svc.releasefn = osalloc, osrelease
		return nil
	} else if allocfn == nil || releasefn == nil {
		return fmterror(ErrorConfiguration, "alloc and release go in pairs")
	}
	svc.allocfn, svc.releasefn = allocfn, releasefn
	return nil
}

// Init carve `numchunks` chunks out of a new block and start the
// dispatcher. On failure service is left as it was before the call.
func (svc *Service) Init(numchunks int64) error {
	svc.lmu.Lock()
	defer svc.lmu.Unlock()

	if svc.isinitialized() {
		return ErrorAlreadyInitialized
	} else if numchunks <= 0 || numchunks > Maxchunks {
		err := fmterror(ErrorConfiguration, "numchunks %v", numchunks)
		errorf("%v Init: %v\n", svc.logprefix, err)
		return err
	} else if err := svc.validatesettings(); err != nil {
		errorf("%v Init: %v\n", svc.logprefix, err)
		return err
	}

	arena, err := newarena(numchunks, svc.chunksize, svc.allocfn, svc.releasefn)
	if err != nil {
		errorf("%v Init: %v\n", svc.logprefix, err)
		return err
	}

	svc.mu.Lock()
	svc.arena, svc.free = arena, newfreelist(arena)
	for i := numchunks - 1; i >= 0; i-- {
		svc.free.push(i)
	}
	svc.pending, svc.aborted = pendingq{}, nil
	svc.resetstats()
	svc.mu.Unlock()

	svc.startdispatcher()

	svc.mu.Lock()
	svc.initialized = true
	svc.mu.Unlock()

	heap, _ := arena.memory()
	infof("%v initialized %v chunks of %v, heap %v\n",
		svc.logprefix, numchunks, svc.chunksize, humanize.Bytes(uint64(heap)))
	return nil
}

// Destroy stop the dispatcher and release the backing block. Fails
// with ErrorResourceBusy while chunks are granted or requests are
// pending. Service can be initialized again after Destroy.
func (svc *Service) Destroy() error {
	svc.lmu.Lock()
	defer svc.lmu.Unlock()

	svc.mu.Lock()
	if !svc.initialized {
		svc.mu.Unlock()
		return ErrorNotInitialized
	}
	n, nfree := svc.arena.numchunks, svc.free.nfree
	npending, naborted := svc.pending.length, int64(len(svc.aborted))
	if nfree != n || npending > 0 || naborted > 0 {
		svc.mu.Unlock()
		fmsg := "%v Destroy: %v chunks in use, %v pending, %v aborting\n"
		warnf(fmsg, svc.logprefix, n-nfree, npending, naborted)
		return ErrorResourceBusy
	}
	svc.initialized = false
	arena := svc.arena
	svc.mu.Unlock()

	svc.stopdispatcher()

	svc.mu.Lock()
	svc.arena, svc.free = nil, freelist{head: -1}
	svc.mu.Unlock()

	if err := arena.release(); err != nil {
		errorf("%v Destroy: releasing block: %v\n", svc.logprefix, err)
		return err
	}
	infof("%v destroyed\n", svc.logprefix)
	return nil
}

// Allocate submit request, never blocks. Completion callback is
// invoked before returning if request is invalid or if it can be
// granted right away, otherwise request is queued and completed on
// the dispatcher goroutine.
func (svc *Service) Allocate(req *Request) {
	if state := req.State(); state != RequestInitialized {
		panicerr("%v Allocate: request %v not built", svc.logprefix, state)
	}

	k := req.numchunks
	if k < 1 || k > svc.maxrequest {
		err := fmterror(ErrorInvalidRequest, "%v chunks not in [1,%v]", k, svc.maxrequest)
		svc.failrequest(req, err)
		return
	}

	svc.mu.Lock()
	if !svc.initialized {
		svc.mu.Unlock()
		svc.failrequest(req, ErrorNotInitialized)
		return
	} else if n := svc.arena.numchunks; k > n {
		svc.mu.Unlock()
		err := fmterror(ErrorInvalidRequest, "%v chunks > capacity %v", k, n)
		svc.failrequest(req, err)
		return
	}

	svc.n_allocs++
	svc.h_numchunks.Add(k)
	if svc.pending.isempty() && svc.trysatisfy(req) {
		svc.n_fastpath++
		req.setstate(RequestCompletedImmediately)
		svc.mu.Unlock()
		req.complete()
		return
	}

	svc.n_slowpath++
	req.svc, req.queuedat = svc, time.Now()
	req.setstate(RequestPending)
	svc.pending.pushback(req)
	svc.h_pending.Add(svc.pending.length)
	svc.mu.Unlock()
}

// Release a chunk granted by this service. Pointers that were not
// granted by this service, or that are already released, will panic.
func (svc *Service) Release(ptr unsafe.Pointer) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if !svc.initialized {
		panicerr("%v Release: service not initialized", svc.logprefix)
	}
	svc.n_releases++
	svc.pushfree(svc.arena.chunkindex(ptr))
}

// ReleaseRequest release all chunks granted to req.
func (svc *Service) ReleaseRequest(req *Request) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if !svc.initialized {
		panicerr("%v ReleaseRequest: service not initialized", svc.logprefix)
	}
	svc.n_releases++
	for _, ptr := range req.chunks {
		svc.pushfree(svc.arena.chunkindex(ptr))
	}
	req.chunks = req.chunks[:0]
}

// Abort a pending request. Request is completed on the dispatcher
// goroutine with ErrorAborted. Return false if request is not pending
// with this service.
func (svc *Service) Abort(req *Request) bool {
	svc.mu.Lock()
	if req.svc != svc || req.aborting || req.State() != RequestPending {
		svc.mu.Unlock()
		return false
	}
	svc.pending.remove(req)
	req.aborting = true
	svc.aborted = append(svc.aborted, req)
	svc.n_aborts++
	svc.wakeup()
	svc.mu.Unlock()
	return true
}

// Bytes return chunk pointed by ptr as a byte slice of Chunksize().
func (svc *Service) Bytes(ptr unsafe.Pointer) []byte {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if !svc.initialized {
		panicerr("%v Bytes: service not initialized", svc.logprefix)
	}
	return svc.arena.bytes(svc.arena.chunkindex(ptr))
}

// Chunksize usable by application.
func (svc *Service) Chunksize() int64 {
	return svc.chunksize
}

// Numchunks managed by this service, zero if not initialized.
func (svc *Service) Numchunks() int64 {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.arena == nil {
		return 0
	}
	return svc.arena.numchunks
}

// Freechunks available for allocation.
func (svc *Service) Freechunks() int64 {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.free.nfree
}

// Pending number of requests waiting in queue.
func (svc *Service) Pending() int64 {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.pending.length
}

//---- local functions

func (svc *Service) isinitialized() bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.initialized
}

func (svc *Service) failrequest(req *Request, err error) {
	debugf("%v request %v failed: %v\n", svc.logprefix, req, err)
	atomic.AddInt64(&svc.n_invalid, 1)
	req.err = err
	req.setstate(RequestFailed)
	req.complete()
}

// trysatisfy grant all or nothing, caller shall hold mu.
func (svc *Service) trysatisfy(req *Request) bool {
	if svc.free.nfree < req.numchunks {
		return false
	}
	for i := int64(0); i < req.numchunks; i++ {
		index := svc.free.pop()
		req.chunks = append(req.chunks, svc.arena.chunkptr(index))
	}
	svc.n_pops += req.numchunks
	return true
}

// pushfree caller shall hold mu.
func (svc *Service) pushfree(index int64) {
	svc.free.push(index)
	poisonchunk(svc.arena.bytes(index))
	svc.n_pushes++
	if !svc.pending.isempty() {
		svc.wakeup()
	}
}
