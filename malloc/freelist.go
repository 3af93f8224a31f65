package malloc

// freelist is a LIFO stack of free chunks threaded through the chunk
// headers. Caller shall serialize access.
type freelist struct {
	arena *arena
	head  int32
	nfree int64
}

func newfreelist(arena *arena) freelist {
	return freelist{arena: arena, head: -1}
}

func (fl *freelist) push(index int64) {
	hdr := fl.arena.header(index)
	if hdr.state == chunkFree {
		panicerr("chunk %v released twice", index)
	}
	hdr.state, hdr.next = chunkFree, fl.head
	fl.head = int32(index)
	fl.nfree++
}

func (fl *freelist) pop() int64 {
	if fl.head < 0 {
		panicerr("freelist exhausted with nfree:%v", fl.nfree)
	}
	index := int64(fl.head)
	hdr := fl.arena.header(index)
	fl.head, hdr.next, hdr.state = hdr.next, -1, chunkInuse
	fl.nfree--
	return index
}
