package lib

import "testing"
import "reflect"
import "strings"
import "runtime/debug"

func TestParsecsv(t *testing.T) {
	res := Parsecsv("a, b, r , x\n, \ty \n")
	ref := []string{"a", "b", "r", "x", "y"}
	if !reflect.DeepEqual(res, ref) {
		t.Errorf("expected %v, got %v", ref, res)
	}
	if res = Parsecsv(""); res != nil {
		t.Errorf("expected nil, got %v", res)
	}
}

func TestGetStacktrace(t *testing.T) {
	s := GetStacktrace(1, debug.Stack())
	if !strings.Contains(s, "TestGetStacktrace") {
		t.Errorf("expected caller in stacktrace, got %v", s)
	}
	// skip beyond the stack shall not panic.
	GetStacktrace(1000, debug.Stack())
}

func TestPrettystats(t *testing.T) {
	stats := map[string]interface{}{"n_allocs": int64(10)}
	if s := Prettystats(stats, false); s != `{"n_allocs":10}` {
		t.Errorf("unexpected %v", s)
	}
	if s := Prettystats(stats, true); s != "{\n  \"n_allocs\": 10\n}" {
		t.Errorf("unexpected %v", s)
	}
}

func TestFillbytes(t *testing.T) {
	for _, ln := range []int{0, 1, 2, 7, 1024, 1025} {
		block := Fillbytes(make([]byte, ln), 0xff)
		for i, c := range block {
			if c != 0xff {
				t.Fatalf("len %v offset %v expected 0xff, got %x", ln, i, c)
			}
		}
	}
}

func BenchmarkFillbytes(b *testing.B) {
	block := make([]byte, 2048)
	for i := 0; i < b.N; i++ {
		Fillbytes(block, 0xff)
	}
}
