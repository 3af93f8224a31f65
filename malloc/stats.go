package malloc

import "unsafe"
import "sync/atomic"

import humanize "github.com/dustin/go-humanize"
import "github.com/bnclabs/memservice/lib"

// caller shall hold mu.
func (svc *Service) resetstats() {
	svc.n_allocs, svc.n_fastpath, svc.n_slowpath = 0, 0, 0
	svc.n_releases, svc.n_pushes, svc.n_pops = 0, 0, 0
	svc.n_dispatches, svc.n_aborts = 0, 0
	atomic.StoreInt64(&svc.n_invalid, 0)
	svc.h_numchunks = lib.NewhistorgramInt64(1, svc.maxrequest+1, 1+(svc.maxrequest/16))
	svc.h_pending = lib.NewhistorgramInt64(1, 1024, 32)
	svc.wait = &lib.AverageInt64{}
}

// Stats return a snapshot of service statistics.
func (svc *Service) Stats() map[string]interface{} {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	var n int64
	if svc.arena != nil {
		n = svc.arena.numchunks
	}
	stats := map[string]interface{}{
		"chunks":       n,
		"chunksize":    svc.chunksize,
		"n_free":       svc.free.nfree,
		"n_inuse":      n - svc.free.nfree,
		"n_allocs":     svc.n_allocs,
		"n_fastpath":   svc.n_fastpath,
		"n_slowpath":   svc.n_slowpath,
		"n_invalid":    atomic.LoadInt64(&svc.n_invalid),
		"n_releases":   svc.n_releases,
		"n_pushes":     svc.n_pushes,
		"n_pops":       svc.n_pops,
		"n_dispatches": svc.n_dispatches,
		"n_aborts":     svc.n_aborts,
		"n_pending":    svc.pending.length,
		"n_maxpending": svc.pending.maxlen,
	}
	if svc.h_numchunks != nil {
		stats["h_numchunks"] = svc.h_numchunks.Fullstats()
		stats["h_pending"] = svc.h_pending.Fullstats()
		stats["wait"] = svc.wait.Stats()
	}
	return stats
}

// Info of memory accounting for this service. `capacity` is the
// memory usable by applications, `heap` is the size of backing block,
// `alloc` is the memory granted to applications and `overhead` is
// the memory spent on chunk headers and book-keeping.
func (svc *Service) Info() (capacity, heap, alloc, overhead int64) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	overhead = int64(unsafe.Sizeof(*svc))
	if svc.arena == nil {
		return 0, 0, 0, overhead
	}
	n := svc.arena.numchunks
	heap, arenaoverhead := svc.arena.memory()
	capacity = n * svc.chunksize
	alloc = (n - svc.free.nfree) * svc.chunksize
	return capacity, heap, alloc, overhead + arenaoverhead
}

// Log vital statistics.
func (svc *Service) Log() {
	capacity, heap, alloc, overhead := svc.Info()
	stats := svc.Stats()

	fmsg := "%v memory {capacity %v heap %v alloc %v overhead %v}\n"
	infof(fmsg, svc.logprefix,
		humanize.Bytes(uint64(capacity)), humanize.Bytes(uint64(heap)),
		humanize.Bytes(uint64(alloc)), humanize.Bytes(uint64(overhead)))
	fmsg = "%v chunks {free %v inuse %v pending %v maxpending %v}\n"
	infof(fmsg, svc.logprefix,
		stats["n_free"], stats["n_inuse"], stats["n_pending"],
		stats["n_maxpending"])
	fmsg = "%v allocs {fastpath %v slowpath %v invalid %v aborts %v}\n"
	infof(fmsg, svc.logprefix,
		stats["n_fastpath"], stats["n_slowpath"], stats["n_invalid"],
		stats["n_aborts"])
	if svc.isinitialized() {
		svc.mu.Lock()
		hn, hp := svc.h_numchunks.Logstring(), svc.h_pending.Logstring()
		svc.mu.Unlock()
		infof("%v h_numchunks %v\n", svc.logprefix, hn)
		infof("%v h_pending %v\n", svc.logprefix, hp)
	}
}
