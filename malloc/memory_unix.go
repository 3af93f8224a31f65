//go:build unix

package malloc

import "fmt"
import "math"

import "golang.org/x/sys/unix"

// anonymous private mapping, memory is not accounted by go's GC and
// is zero filled by the kernel.
func osalloc(size int64) ([]byte, error) {
	if size <= 0 || size > math.MaxInt {
		return nil, fmt.Errorf("cannot map %v bytes", size)
	}
	prot, flags := unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE
	return unix.Mmap(-1, 0, int(size), prot, flags)
}

func osrelease(block []byte) error {
	return unix.Munmap(block)
}
