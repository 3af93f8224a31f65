package malloc

import "sync"
import "testing"

import s "github.com/bnclabs/gosettings"

func heapalloc(size int64) ([]byte, error) {
	return make([]byte, size), nil
}

func heaprelease(block []byte) error {
	return nil
}

func testsettings() s.Settings {
	return s.Settings{
		"chunksize":     int64(64),
		"maxobject":     int64(64),
		"maxrequest":    int64(16),
		"dispatch.tick": int64(10),
	}
}

func newtestservice(t *testing.T, numchunks int64, setts s.Settings) *Service {
	svc := NewService(t.Name(), setts)
	if err := svc.SetMemoryFunctions(heapalloc, heaprelease); err != nil {
		t.Fatal(err)
	} else if err := svc.Init(numchunks); err != nil {
		t.Fatal(err)
	}
	return svc
}

// collector gathers completed requests in completion order.
type collector struct {
	mu     sync.Mutex
	reqs   []*Request
	donech chan *Request
}

func newcollector(n int) *collector {
	return &collector{donech: make(chan *Request, n)}
}

func (c *collector) callb(req *Request, ctx interface{}) {
	c.mu.Lock()
	c.reqs = append(c.reqs, req)
	c.mu.Unlock()
	c.donech <- req
}
