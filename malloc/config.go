package malloc

import "time"

import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Alignment chunksize shall be a multiple of Alignment.
const Alignment = int64(8)

// DefaultChunksize large enough to hold a control packet.
const DefaultChunksize = int64(2048)

// DefaultMaxobject largest structure expected to be stored in a chunk.
const DefaultMaxobject = int64(1024)

// MaxChunksPerRequest upper bound for settings parameter `maxrequest`.
const MaxChunksPerRequest = int64(1024)

// Maxchunks maximum number of chunks that a service can manage.
const Maxchunks = int64(1 << 24)

// Defaultmaxchunks cap on the default `chunks` settings, computed
// from free memory.
const Defaultmaxchunks = int64(65536)

// MEMFraction fraction of free RAM used for default `chunks`.
const MEMFraction = float64(0.01)

// Defaultsettings for memory service.
//
// "chunksize" (int64, default: 2048)
//		Size of each chunk, in bytes, usable by application.
//		Shall be a multiple of 8.
//
// "maxobject" (int64, default: 1024)
//		Largest structure that applications store in a single chunk.
//		Init fails if chunksize is less than maxobject.
//
// "maxrequest" (int64, default: 128)
//		Maximum number of chunks that can be allocated with a single
//		request, cannot exceed MaxChunksPerRequest.
//
// "chunks" (int64, default: 1% of free RAM, max 65536)
//		Number of chunks to be managed by the service. Tools use this
//		as argument to Init().
//
// "dispatch.tick" (int64, default: 200)
//		Time period, in millisecond, for the dispatcher to retry
//		pending requests even without a release.
//
// "dispatch.batch" (bool, default: true)
//		If true, dispatcher completes as many pending requests as can
//		be satisfied for every wakeup. Otherwise, one request per
//		wakeup.
func Defaultsettings() s.Settings {
	return s.Settings{
		"chunksize":      DefaultChunksize,
		"maxobject":      DefaultMaxobject,
		"maxrequest":     int64(128),
		"chunks":         Defaultchunks(DefaultChunksize),
		"dispatch.tick":  int64(200),
		"dispatch.batch": true,
	}
}

// Defaultchunks number of chunks of `chunksize` that would fit in
// MEMFraction of free RAM, between [1, Defaultmaxchunks].
func Defaultchunks(chunksize int64) int64 {
	_, _, free := getsysmem()
	n := int64(float64(free)*MEMFraction) / (chunksize + hdrsize)
	if n < 1 {
		return 1
	} else if n > Defaultmaxchunks {
		return Defaultmaxchunks
	}
	return n
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}

func (svc *Service) readsettings(setts s.Settings) {
	svc.chunksize = setts.Int64("chunksize")
	svc.maxobject = setts.Int64("maxobject")
	svc.maxrequest = setts.Int64("maxrequest")
	svc.tick = time.Duration(setts.Int64("dispatch.tick")) * time.Millisecond
	svc.batch = setts.Bool("dispatch.batch")
}

// validatesettings is applied by Init, so that configuration errors are
// reported as ErrorConfiguration instead of panics.
func (svc *Service) validatesettings() error {
	switch {
	case svc.chunksize <= 0 || !isaligned(svc.chunksize):
		return fmterror(ErrorConfiguration, "chunksize %v not a multiple of %v", svc.chunksize, Alignment)
	case svc.chunksize < svc.maxobject:
		return fmterror(ErrorConfiguration, "chunksize %v < maxobject %v", svc.chunksize, svc.maxobject)
	case svc.maxrequest < 1 || svc.maxrequest > MaxChunksPerRequest:
		return fmterror(ErrorConfiguration, "maxrequest %v not in [1,%v]", svc.maxrequest, MaxChunksPerRequest)
	case svc.tick <= 0:
		return fmterror(ErrorConfiguration, "dispatch.tick %v", svc.tick)
	}
	return nil
}
