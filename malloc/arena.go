package malloc

import "unsafe"

// AllocFunc obtains a contiguous block of `size` bytes backing the
// chunk arena. Returned block shall be 8-byte aligned.
type AllocFunc func(size int64) ([]byte, error)

// ReleaseFunc gives back a block obtained from AllocFunc.
type ReleaseFunc func(block []byte) error

const chunkmagic = uint32(0xc4c4a110)

const (
	chunkFree  = uint32(0x1)
	chunkInuse = uint32(0x2)
)

// every chunk in the arena is prefixed with a header.
type chunkheader struct {
	magic uint32
	state uint32
	next  int32 // index of next free chunk, -1 terminates the list.
	index int32
}

const hdrsize = int64(unsafe.Sizeof(chunkheader{}))

// arena is a single block sliced up into numchunks slots of
// hdrsize+chunksize bytes each.
type arena struct {
	block     []byte
	numchunks int64
	chunksize int64
	slotsize  int64
	releasefn ReleaseFunc
}

func newarena(
	numchunks, chunksize int64,
	allocfn AllocFunc, releasefn ReleaseFunc) (*arena, error) {

	slotsize := hdrsize + chunksize
	size := numchunks * slotsize
	block, err := allocfn(size)
	if err != nil {
		return nil, fmterror(ErrorOutofMemory, "%v", err)
	} else if int64(len(block)) < size {
		if block != nil {
			releasefn(block)
		}
		return nil, fmterror(ErrorOutofMemory, "short block %v < %v", len(block), size)
	} else if ptr := uintptr(unsafe.Pointer(&block[0])); !isaligned(int64(ptr)) {
		releasefn(block)
		return nil, fmterror(ErrorOutofMemory, "block %x not aligned", ptr)
	}

	arena := &arena{
		block:     block,
		numchunks: numchunks,
		chunksize: chunksize,
		slotsize:  slotsize,
		releasefn: releasefn,
	}
	clear(block[:size])
	for i := int64(0); i < numchunks; i++ {
		hdr := arena.header(i)
		hdr.magic, hdr.state = chunkmagic, chunkInuse
		hdr.next, hdr.index = -1, int32(i)
	}
	return arena, nil
}

func (arena *arena) header(index int64) *chunkheader {
	return (*chunkheader)(unsafe.Pointer(&arena.block[index*arena.slotsize]))
}

func (arena *arena) chunkptr(index int64) unsafe.Pointer {
	return unsafe.Pointer(&arena.block[index*arena.slotsize+hdrsize])
}

// chunkindex map a pointer handed out by this arena back to its slot,
// pointers that were not handed out by this arena will panic.
func (arena *arena) chunkindex(ptr unsafe.Pointer) int64 {
	if ptr == nil {
		panicerr("release of nil pointer")
	}
	base, p := uintptr(unsafe.Pointer(&arena.block[0])), uintptr(ptr)
	limit := base + uintptr(arena.numchunks*arena.slotsize)
	if p < base+uintptr(hdrsize) || p >= limit {
		panicerr("pointer %x not in arena [%x,%x)", p, base, limit)
	}
	off := int64(p-base) - hdrsize
	if (off % arena.slotsize) != 0 {
		panicerr("pointer %x not at chunk boundary", p)
	}
	index := off / arena.slotsize
	hdr := arena.header(index)
	if hdr.magic != chunkmagic || hdr.index != int32(index) {
		panicerr("chunk %v header corrupted {%x,%v}", index, hdr.magic, hdr.index)
	}
	return index
}

func (arena *arena) bytes(index int64) []byte {
	off := index*arena.slotsize + hdrsize
	return arena.block[off : off+arena.chunksize : off+arena.chunksize]
}

func (arena *arena) memory() (heap, overhead int64) {
	heap = int64(len(arena.block))
	overhead = arena.numchunks*hdrsize + int64(unsafe.Sizeof(*arena))
	return heap, overhead
}

func (arena *arena) release() error {
	block := arena.block
	arena.block, arena.numchunks = nil, 0
	return arena.releasefn(block)
}
