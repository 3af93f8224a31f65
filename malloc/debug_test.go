//go:build debug

package malloc

import "testing"

func TestPoisonchunk(t *testing.T) {
	svc := newtestservice(t, 2, testsettings())
	coll := newcollector(1)
	req := NewRequest(1, RequestObject, coll.callb, nil)
	svc.Allocate(req)
	<-coll.donech

	ptr := req.Chunk(0)
	block := svc.Bytes(ptr)
	for i := range block {
		block[i] = byte(i)
	}
	svc.ReleaseRequest(req)

	for i, b := range svc.Bytes(ptr) {
		if b != 0xff {
			t.Fatalf("byte %v expected %x, got %x", i, 0xff, b)
		}
	}
	if err := svc.Destroy(); err != nil {
		t.Error(err)
	}
}
