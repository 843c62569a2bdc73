package input

// DefaultQueueSize is the event capacity used by the platform window.
const DefaultQueueSize = 64

// Queue is a fixed-capacity ring of events filled by window callbacks and
// drained once per frame. When full, the oldest event is overwritten.
type Queue struct {
	events  []Event
	head    int // next write
	tail    int // next read
	n       int
	dropped int
}

func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultQueueSize
	}
	return &Queue{events: make([]Event, capacity)}
}

// Push appends e, discarding the oldest event when the ring is full.
func (q *Queue) Push(e Event) {
	if q.n == len(q.events) {
		q.tail = (q.tail + 1) % len(q.events)
		q.n--
		q.dropped++
	}
	q.events[q.head] = e
	q.head = (q.head + 1) % len(q.events)
	q.n++
}

// Next pops the oldest event. It returns false when the queue is empty.
func (q *Queue) Next() (Event, bool) {
	if q.n == 0 {
		return Event{}, false
	}
	e := q.events[q.tail]
	q.tail = (q.tail + 1) % len(q.events)
	q.n--
	return e, true
}

// Reset empties the queue. Called before polling the window for a new frame.
func (q *Queue) Reset() {
	q.head, q.tail, q.n = 0, 0, 0
}

func (q *Queue) Len() int { return q.n }
func (q *Queue) Cap() int { return len(q.events) }

// Dropped counts events lost to overflow since the queue was created.
func (q *Queue) Dropped() int { return q.dropped }
