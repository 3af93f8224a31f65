package main

import "fmt"
import "strconv"
import "sync"
import "sync/atomic"
import "time"
import "math/rand"

import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"
import "github.com/bnclabs/memservice/bitbucket"
import "github.com/bnclabs/memservice/lib"
import "github.com/bnclabs/memservice/malloc"
import "github.com/spf13/cobra"

var loadopts struct {
	chunks    int64
	chunksize int64
	routines  int
	n         int
	ksizes    string
	hold      time.Duration
	batch     bool
	bitbucket bool
	seed      int64
	prodfile  string
}

func init() {
	cmd := newLoadCmd()
	flags := cmd.Flags()
	flags.Int64Var(&loadopts.chunks, "chunks", 0,
		"number of chunks, default computed from free memory")
	flags.Int64Var(&loadopts.chunksize, "chunksize", malloc.DefaultChunksize,
		"size of each chunk")
	flags.IntVar(&loadopts.routines, "routines", 8,
		"number of concurrent routines")
	flags.IntVar(&loadopts.n, "n", 10000,
		"number of requests per routine")
	flags.StringVar(&loadopts.ksizes, "ksizes", "1,2,4,8",
		"comma separated list of chunks per request, picked at random")
	flags.DurationVar(&loadopts.hold, "hold", 0,
		"time to hold granted chunks before release")
	flags.BoolVar(&loadopts.batch, "batch", true,
		"dispatcher grants as many requests as it can per wakeup")
	flags.BoolVar(&loadopts.bitbucket, "bitbucket", false,
		"carve bit buckets before starting the load")
	flags.Int64Var(&loadopts.seed, "seed", time.Now().UnixNano(),
		"seed for random request sizes")
	flags.StringVar(&loadopts.prodfile, "prodfile", "",
		"monster production file generating the request mix, overrides --ksizes")
	rootCmd.AddCommand(cmd)
}

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Allocate and release chunks from concurrent routines",
		Long: `The load command initializes a memory service and spawns routines
that allocate a random number of chunks, hold them, and release them.
Statistics are printed once all routines are done.

Example:
  chunkpool load --chunks 1024 --routines 16 --ksizes 1,4,16
  chunkpool load --batch=false --hold 1ms --log info
  chunkpool load --prodfile tools/chunkpool/load.prod`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd)
		},
	}
}

func runLoad(cmd *cobra.Command) error {
	ksizes, err := parseksizes(loadopts.ksizes)
	if err != nil {
		return err
	}
	setts := s.Settings{
		"chunksize":      loadopts.chunksize,
		"maxobject":      loadopts.chunksize,
		"dispatch.batch": loadopts.batch,
	}
	setts = make(s.Settings).Mixin(malloc.Defaultsettings(), setts)
	if loadopts.chunks <= 0 {
		loadopts.chunks = setts.Int64("chunks")
	}
	svc := malloc.NewService("chunkpool", setts)
	if err := svc.Init(loadopts.chunks); err != nil {
		return err
	}

	var bb *bitbucket.Bitbucket
	if loadopts.bitbucket {
		if bb, err = bitbucket.New("chunkpool", svc, nil); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	_, heap, _, _ := svc.Info()
	fmt.Fprintf(out, "chunks %v of %v, heap %v\n",
		loadopts.chunks, humanize.Bytes(uint64(loadopts.chunksize)),
		humanize.Bytes(uint64(heap)))

	start := time.Now()
	var wg sync.WaitGroup
	var total int64
	errch := make(chan error, loadopts.routines)
	for i := 0; i < loadopts.routines; i++ {
		seed := loadopts.seed + int64(i)
		opch := make(chan loadop, 1024)
		if loadopts.prodfile != "" {
			go func() {
				errch <- monsterops(loadopts.prodfile, uint64(seed), loadopts.n, opch)
			}()
		} else {
			go randomops(ksizes, seed, loadopts.n, opch)
		}
		wg.Add(1)
		go loadroutine(svc, opch, &total, &wg)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if loadopts.prodfile != "" {
		for i := 0; i < loadopts.routines; i++ {
			if err = <-errch; err != nil {
				break
			}
		}
	}
	if total > 0 {
		fmt.Fprintf(out, "%v requests in %v, %v per request\n",
			total, elapsed, elapsed/time.Duration(total))
	}
	if bb != nil {
		bb.Close()
	}
	fmt.Fprintln(out, lib.Prettystats(svc.Stats(), true))
	svc.Log()
	if derr := svc.Destroy(); err == nil {
		err = derr
	}
	return err
}

func randomops(ksizes []int64, seed int64, n int, opch chan<- loadop) {
	defer close(opch)

	rnd := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		k := ksizes[rnd.Intn(len(ksizes))]
		opch <- loadop{cmd: "alloc", k: k, hold: loadopts.hold}
	}
}

func loadroutine(
	svc *malloc.Service, opch <-chan loadop, total *int64,
	wg *sync.WaitGroup) {

	defer wg.Done()

	donech := make(chan *malloc.Request, 1)
	callb := func(req *malloc.Request, _ interface{}) { donech <- req }
	req := &malloc.Request{}
	for op := range opch {
		if err := req.Build(op.k, malloc.RequestObject, callb, nil); err != nil {
			panic(err)
		}
		atomic.AddInt64(total, 1)
		svc.Allocate(req)
		if op.cmd == "abort" && svc.Abort(req) {
			<-donech
			continue
		}
		<-donech
		if req.Err() != nil {
			continue
		}
		if op.hold > 0 {
			time.Sleep(op.hold)
		}
		svc.ReleaseRequest(req)
	}
}

func parseksizes(csv string) ([]int64, error) {
	ksizes := make([]int64, 0)
	for _, item := range lib.Parsecsv(csv) {
		k, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ksizes %q: %v", csv, err)
		}
		ksizes = append(ksizes, k)
	}
	if len(ksizes) == 0 {
		return nil, fmt.Errorf("empty ksizes")
	}
	return ksizes, nil
}
