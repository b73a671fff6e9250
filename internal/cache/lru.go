package cache

// entry is one resident value. Entries form a doubly-linked list ordered
// by last use: the head is the most recently used, the tail the least.
type entry[K comparable, V any] struct {
	key   K
	value V
	size  int64

	prev, next *entry[K, V]
}

// recency is the intrusive list of resident entries.
// It is not safe for concurrent use; Bounded guards it.
type recency[K comparable, V any] struct {
	head, tail *entry[K, V]
}

func (l *recency[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
}

func (l *recency[K, V]) moveToFront(e *entry[K, V]) {
	if e == l.head {
		return
	}
	l.unlink(e)
	l.pushFront(e)
}

// oldest returns the least recently used entry, or nil.
func (l *recency[K, V]) oldest() *entry[K, V] {
	return l.tail
}

func (l *recency[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

func (l *recency[K, V]) clear() {
	l.head, l.tail = nil, nil
}
