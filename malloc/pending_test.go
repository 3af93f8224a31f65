package malloc

import "testing"

func TestPendingFIFO(t *testing.T) {
	var q pendingq
	reqs := []*Request{{numchunks: 1}, {numchunks: 2}, {numchunks: 3}}
	if !q.isempty() {
		t.Errorf("expected empty queue")
	}
	for _, req := range reqs {
		q.pushback(req)
	}
	if q.length != 3 {
		t.Errorf("expected %v, got %v", 3, q.length)
	} else if q.front() != reqs[0] {
		t.Errorf("expected %v, got %v", reqs[0], q.front())
	}
	for i, req := range reqs {
		if x := q.popfront(); x != req {
			t.Errorf("%v expected %v, got %v", i, req, x)
		}
	}
	if !q.isempty() || q.length != 0 || q.tail != nil {
		t.Errorf("expected empty queue")
	} else if q.popfront() != nil {
		t.Errorf("expected nil")
	} else if q.maxlen != 3 {
		t.Errorf("expected %v, got %v", 3, q.maxlen)
	}
}

func TestPendingRemove(t *testing.T) {
	var q pendingq
	reqs := []*Request{{numchunks: 1}, {numchunks: 2}, {numchunks: 3}, {numchunks: 4}}
	for _, req := range reqs {
		q.pushback(req)
	}
	q.remove(reqs[1]) // middle
	q.remove(reqs[3]) // tail
	q.remove(reqs[0]) // head
	if q.length != 1 {
		t.Errorf("expected %v, got %v", 1, q.length)
	} else if q.head != reqs[2] || q.tail != reqs[2] {
		t.Errorf("unexpected queue {%v,%v}", q.head, q.tail)
	}
	q.pushback(reqs[0])
	if x := q.popfront(); x != reqs[2] {
		t.Errorf("expected %v, got %v", reqs[2], x)
	} else if x = q.popfront(); x != reqs[0] {
		t.Errorf("expected %v, got %v", reqs[0], x)
	}
}
