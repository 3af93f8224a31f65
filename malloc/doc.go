// Package malloc supplies a fixed-chunk memory service for control
// structures, with a limited scope:
//
//  * Memory is obtained from OS as a single contiguous block, sliced
//    into N chunks of same size. Each chunk is prefixed by a small
//    header used for book-keeping.
//  * Chunks are never given back to OS individually. The block is
//    released only when the service is destroyed, and only when every
//    chunk is back with the service.
//  * Applications allocate `k` chunks at a time, all-or-nothing, using
//    a Request. When enough chunks are free the request is completed
//    on the caller's goroutine before Allocate returns. Otherwise the
//    request is queued, and completed later on the dispatcher
//    goroutine, in FIFO order, as chunks are released.
//  * Allocate never blocks. Destroy blocks until the dispatcher exits.
//  * Memory-chunks handed out by this package are always 64-bit aligned.
//
// Types and functions exported by this package are thread safe, except
// for Request, which shall be owned by a single caller at a time.
package malloc
