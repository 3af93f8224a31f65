package bitbucket

import "testing"
import "sync/atomic"

import s "github.com/bnclabs/gosettings"
import "github.com/bnclabs/memservice/malloc"
import "github.com/stretchr/testify/require"

func newservice(t *testing.T, numchunks int64) *malloc.Service {
	setts := s.Settings{
		"chunksize": int64(128), "maxobject": int64(64),
		"dispatch.tick": int64(10),
	}
	svc := malloc.NewService(t.Name(), setts)
	heapalloc := func(size int64) ([]byte, error) { return make([]byte, size), nil }
	heaprelease := func(block []byte) error { return nil }
	require.NoError(t, svc.SetMemoryFunctions(heapalloc, heaprelease))
	require.NoError(t, svc.Init(numchunks))
	return svc
}

func TestBitbucket(t *testing.T) {
	svc := newservice(t, 16)
	bb, err := New("test", svc, s.Settings{"bitbucket.pattern": int64(0xa5)})
	require.NoError(t, err)

	require.Len(t, bb.Zero(), 4)
	require.Len(t, bb.Invalid(), 4)
	require.Equal(t, int64(4*128), bb.Zerobytes())
	require.Equal(t, int64(8), svc.Freechunks())
	for _, block := range bb.Zero() {
		require.Len(t, block, 128)
		for _, b := range block {
			require.Equal(t, byte(0), b)
		}
	}
	for _, block := range bb.Invalid() {
		require.Len(t, block, 128)
		for _, b := range block {
			require.Equal(t, byte(0xa5), b)
		}
	}

	require.ErrorIs(t, svc.Destroy(), malloc.ErrorResourceBusy)
	bb.Close()
	bb.Close()
	require.Equal(t, int64(16), svc.Freechunks())
	require.NoError(t, svc.Destroy())
}

func TestBitbucketWait(t *testing.T) {
	svc := newservice(t, 4)
	donech := make(chan *malloc.Request, 1)
	holder := malloc.NewRequest(
		3, malloc.RequestObject,
		func(req *malloc.Request, _ interface{}) { donech <- req }, nil,
	)
	svc.Allocate(holder)
	<-donech

	// chunks are released while New is waiting.
	go svc.ReleaseRequest(holder)
	setts := s.Settings{"bitbucket.chunks": int64(2), "bitbucket.timeout": int64(5000)}
	bb, err := New("wait", svc, setts)
	require.NoError(t, err)
	require.Len(t, bb.Zero(), 2)
	bb.Close()
	require.NoError(t, svc.Destroy())
}

func TestBitbucketTimeout(t *testing.T) {
	svc := newservice(t, 4)
	donech := make(chan *malloc.Request, 1)
	holder := malloc.NewRequest(
		3, malloc.RequestObject,
		func(req *malloc.Request, _ interface{}) { donech <- req }, nil,
	)
	svc.Allocate(holder)
	<-donech

	// zero bucket is granted, invalid bucket times out.
	setts := s.Settings{"bitbucket.chunks": int64(1), "bitbucket.timeout": int64(50)}
	_, err := New("timeout", svc, setts)
	require.ErrorIs(t, err, ErrorTimeout)
	require.Equal(t, int64(1), svc.Freechunks())
	require.Equal(t, int64(0), svc.Pending())

	setts = s.Settings{"bitbucket.pattern": int64(0x100)}
	_, err = New("pattern", svc, setts)
	require.Error(t, err)

	svc.ReleaseRequest(holder)
	require.NoError(t, svc.Destroy())
}

func TestBitbucketInvalid(t *testing.T) {
	svc := newservice(t, 4)
	setts := s.Settings{"bitbucket.chunks": int64(0)}
	_, err := New("invalid", svc, setts)
	require.ErrorIs(t, err, malloc.ErrorInvalidRequest)
	require.NoError(t, svc.Destroy())
}

var _ Allocator = (*malloc.Service)(nil)

func TestLogComponents(t *testing.T) {
	defer atomic.StoreInt64(&logok, 0)

	LogComponents("malloc")
	require.Equal(t, int64(0), atomic.LoadInt64(&logok))
	LogComponents("bitbucket")
	require.Equal(t, int64(1), atomic.LoadInt64(&logok))

	// gated logging goes through the same paths as New and Close.
	svc := newservice(t, 4)
	bb, err := New("logging", svc, s.Settings{"bitbucket.chunks": int64(1)})
	require.NoError(t, err)
	bb.Close()
	require.NoError(t, svc.Destroy())
}
