// Package bitbucket carve scratch buffers out of a memory service.
// Zero bucket is a scatter-gather list of zero filled chunks, used
// as source for zeroing out media. Invalid bucket is filled with an
// invalidation pattern, used as a sink for data that shall be thrown
// away or to stamp invalidated blocks.
package bitbucket

import "fmt"
import "time"
import "errors"
import "unsafe"

import s "github.com/bnclabs/gosettings"
import "github.com/bnclabs/memservice/lib"
import "github.com/bnclabs/memservice/malloc"

// ErrorTimeout chunks for the bucket could not be allocated in time.
var ErrorTimeout = errors.New("bitbucket.timeout")

// Allocator methods used by bitbucket, implemented by malloc.Service.
type Allocator interface {
	Allocate(req *malloc.Request)
	Abort(req *malloc.Request) bool
	ReleaseRequest(req *malloc.Request)
	Bytes(ptr unsafe.Pointer) []byte
	Chunksize() int64
}

// Defaultsettings for bitbucket.
//
// "bitbucket.chunks" (int64, default: 4)
//		Number of chunks in zero bucket, and in invalid bucket.
//
// "bitbucket.pattern" (int64, default: 0xff)
//		Byte pattern to fill the invalid bucket.
//
// "bitbucket.timeout" (int64, default: 1000)
//		Time, in milliseconds, to wait for the chunks.
func Defaultsettings() s.Settings {
	return s.Settings{
		"bitbucket.chunks":  int64(4),
		"bitbucket.pattern": int64(0xff),
		"bitbucket.timeout": int64(1000),
	}
}

// Bitbucket holds a zero bucket and an invalid bucket.
type Bitbucket struct {
	svc        Allocator
	zeroreq    *malloc.Request
	invalidreq *malloc.Request
	zero       [][]byte
	invalid    [][]byte

	// settings
	chunks    int64
	pattern   byte
	timeout   time.Duration
	logprefix string
}

// New allocate chunks for both buckets from svc. Blocks until chunks
// are granted or until timeout.
func New(name string, svc Allocator, setts s.Settings) (*Bitbucket, error) {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	bb := &Bitbucket{
		svc:       svc,
		chunks:    setts.Int64("bitbucket.chunks"),
		timeout:   time.Duration(setts.Int64("bitbucket.timeout")) * time.Millisecond,
		logprefix: fmt.Sprintf("BITBUCKET [%s]", name),
	}
	pattern := setts.Int64("bitbucket.pattern")
	if pattern < 0 || pattern > 0xff {
		return nil, fmt.Errorf("invalid bitbucket.pattern %x", pattern)
	}
	bb.pattern = byte(pattern)

	var err error
	bb.zeroreq, bb.zero, err = bb.allocate(malloc.RequestBuffer, 0)
	if err != nil {
		errorf("%v zero bucket: %v\n", bb.logprefix, err)
		return nil, err
	}
	bb.invalidreq, bb.invalid, err = bb.allocate(malloc.RequestBuffer, bb.pattern)
	if err != nil {
		errorf("%v invalid bucket: %v\n", bb.logprefix, err)
		svc.ReleaseRequest(bb.zeroreq)
		return nil, err
	}
	infof("%v %v chunks of %v bytes, pattern %x\n",
		bb.logprefix, bb.chunks, svc.Chunksize(), bb.pattern)
	return bb, nil
}

// Zero return the scatter-gather list of zero filled chunks.
func (bb *Bitbucket) Zero() [][]byte {
	return bb.zero
}

// Invalid return the scatter-gather list of chunks filled with
// invalidation pattern.
func (bb *Bitbucket) Invalid() [][]byte {
	return bb.invalid
}

// Zerobytes total size of zero bucket.
func (bb *Bitbucket) Zerobytes() int64 {
	return int64(len(bb.zero)) * bb.svc.Chunksize()
}

// Close give back the chunks to the memory service.
func (bb *Bitbucket) Close() {
	if bb.zeroreq != nil {
		bb.svc.ReleaseRequest(bb.zeroreq)
		bb.svc.ReleaseRequest(bb.invalidreq)
		bb.zeroreq, bb.invalidreq, bb.zero, bb.invalid = nil, nil, nil, nil
	}
	infof("%v closed\n", bb.logprefix)
}

func (bb *Bitbucket) allocate(
	kind malloc.RequestKind, pattern byte) (*malloc.Request, [][]byte, error) {

	donech := make(chan *malloc.Request, 1)
	callb := func(req *malloc.Request, _ interface{}) { donech <- req }
	req := &malloc.Request{}
	if err := req.Build(bb.chunks, kind, callb, nil); err != nil {
		return nil, nil, err
	}
	bb.svc.Allocate(req)

	tm := time.NewTimer(bb.timeout)
	defer tm.Stop()
	select {
	case <-donech:
	case <-tm.C:
		// completion is imminent when abort fails.
		aborted := bb.svc.Abort(req)
		<-donech
		if aborted {
			return nil, nil, ErrorTimeout
		}
	}
	if err := req.Err(); err != nil {
		return nil, nil, err
	}

	blocks := make([][]byte, 0, len(req.Chunks()))
	for _, ptr := range req.Chunks() {
		blocks = append(blocks, lib.Fillbytes(bb.svc.Bytes(ptr), pattern))
	}
	return req, blocks, nil
}
