//go:build debug

package malloc

import "github.com/bnclabs/memservice/lib"

// poison released chunks so that use-after-release shows up as 0xff
// bytes instead of stale data.
func poisonchunk(block []byte) {
	lib.Fillbytes(block, 0xff)
}
