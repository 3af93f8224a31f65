package malloc

// pendingq is a FIFO of requests linked through Request.prev and
// Request.next. Caller shall serialize access.
type pendingq struct {
	head   *Request
	tail   *Request
	length int64
	maxlen int64
}

func (q *pendingq) isempty() bool {
	return q.head == nil
}

func (q *pendingq) front() *Request {
	return q.head
}

func (q *pendingq) pushback(req *Request) {
	req.prev, req.next = q.tail, nil
	if q.tail != nil {
		q.tail.next = req
	} else {
		q.head = req
	}
	q.tail = req
	q.length++
	if q.length > q.maxlen {
		q.maxlen = q.length
	}
}

func (q *pendingq) popfront() *Request {
	req := q.head
	if req != nil {
		q.remove(req)
	}
	return req
}

// remove req from anywhere in the queue.
func (q *pendingq) remove(req *Request) {
	if req.prev != nil {
		req.prev.next = req.next
	} else {
		q.head = req.next
	}
	if req.next != nil {
		req.next.prev = req.prev
	} else {
		q.tail = req.prev
	}
	req.prev, req.next = nil, nil
	q.length--
}
