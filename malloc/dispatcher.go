package malloc

import "time"
import "sync/atomic"
import "runtime/debug"

import "github.com/bnclabs/memservice/lib"

const (
	dispatchStopped int64 = iota
	dispatchRun
	dispatchStopRequested
)

func (svc *Service) startdispatcher() {
	readych := make(chan struct{})
	svc.mu.Lock()
	svc.wakech = make(chan struct{}, svc.arena.numchunks)
	svc.finch = make(chan struct{})
	svc.donech = make(chan struct{})
	svc.mu.Unlock()
	go svc.dispatcher(readych, svc.wakech, svc.finch, svc.donech)
	<-readych
}

func (svc *Service) stopdispatcher() {
	atomic.StoreInt64(&svc.dstate, dispatchStopRequested)
	close(svc.finch)
	<-svc.donech
}

// wakeup is a counting signal, one unit per call, that never blocks.
// Caller shall hold mu.
func (svc *Service) wakeup() {
	select {
	case svc.wakech <- struct{}{}:
	default:
	}
}

func (svc *Service) dispatcher(readych, wakech, finch, donech chan struct{}) {
	ticker := time.NewTicker(svc.tick)

	defer func() {
		ticker.Stop()
		atomic.StoreInt64(&svc.dstate, dispatchStopped)
		close(donech)
		infof("%v ... stopping dispatcher\n", svc.logprefix)
	}()

	atomic.StoreInt64(&svc.dstate, dispatchRun)
	infof("%v starting dispatcher, tick %v batch %v\n",
		svc.logprefix, svc.tick, svc.batch)
	close(readych)

	for {
		select {
		case <-wakech:
		case <-ticker.C:
		case <-finch:
			return
		}
		if atomic.LoadInt64(&svc.dstate) != dispatchRun {
			return
		}
		svc.dispatch()
	}
}

// dispatch complete aborted requests and grant pending requests from
// the head of the queue, until the head cannot be satisfied.
func (svc *Service) dispatch() {
	for {
		svc.mu.Lock()
		aborted := svc.aborted
		svc.aborted = nil
		for _, req := range aborted {
			req.err, req.aborting = ErrorAborted, false
			req.setstate(RequestAborted)
		}

		var granted *Request
		if head := svc.pending.front(); head != nil && svc.trysatisfy(head) {
			svc.pending.popfront()
			svc.n_dispatches++
			svc.wait.Add(time.Since(head.queuedat).Microseconds())
			head.setstate(RequestCompleted)
			granted = head
		}
		svc.mu.Unlock()

		for _, req := range aborted {
			svc.completeasync(req)
		}
		if granted == nil {
			return
		}
		svc.completeasync(granted)
		if !svc.batch {
			return
		}
	}
}

func (svc *Service) completeasync(req *Request) {
	defer func() {
		if r := recover(); r != nil {
			errorf("%v completion for %v crashed: %v\n", svc.logprefix, req, r)
			errorf("\n%s", lib.GetStacktrace(2, debug.Stack()))
		}
	}()
	req.complete()
}
