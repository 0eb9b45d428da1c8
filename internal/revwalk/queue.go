package revwalk

import (
	"github.com/emirpasic/gods/trees/binaryheap"
)

// revQueue is a generator that can also be pushed onto and inspected for
// flag membership; it mirrors org.spearce.jgit.revwalk.AbstractRevQueue,
// which itself extends Generator rather than standing apart from the
// pipeline.
type revQueue interface {
	generator
	add(c *RevCommit)
	clear()
	anybodyHasFlag(flag uint32) bool
}

// drainQueue moves every commit out of src, in src's pop order, into dst.
func drainQueue(dst revQueue, src revQueue) {
	for {
		c, _ := src.Next()
		if c == nil {
			return
		}
		dst.add(c)
	}
}

// drainGenerator moves every commit out of g, in g's emit order, into
// dst. Used to buffer a generator's full output before a stage (rewrite
// compression, LIFO reversal) that needs to see everything at once.
func drainGenerator(dst revQueue, g generator) error {
	for {
		c, err := g.Next()
		if err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		dst.add(c)
	}
}

type queueNode struct {
	commit *RevCommit
	next   *queueNode
}

// fifoRevQueue is a singly linked FIFO: push at the tail, pop from the
// head. Mirrors FIFORevQueue.java's BlockRevQueue-backed behavior without
// needing its block-allocation scheme — a plain linked list pop/push is
// already O(1) in Go without a custom allocator.
type fifoRevQueue struct {
	head, tail *queueNode
}

func newFIFORevQueue() *fifoRevQueue { return &fifoRevQueue{} }

func (q *fifoRevQueue) add(c *RevCommit) {
	n := &queueNode{commit: c}
	if q.tail == nil {
		q.head, q.tail = n, n
		return
	}
	q.tail.next = n
	q.tail = n
}

func (q *fifoRevQueue) Next() (*RevCommit, error) {
	if q.head == nil {
		return nil, nil
	}
	c := q.head.commit
	q.head = q.head.next
	if q.head == nil {
		q.tail = nil
	}
	return c, nil
}

func (q *fifoRevQueue) clear() { q.head, q.tail = nil, nil }

func (q *fifoRevQueue) anybodyHasFlag(flag uint32) bool {
	for n := q.head; n != nil; n = n.next {
		if n.commit.has(flag) {
			return true
		}
	}
	return false
}

func (q *fifoRevQueue) OutputType() int { return 0 }

// lifoRevQueue is a stack: push and pop both happen at the same end, so
// commits come back out in the reverse of the order they went in.
// Mirrors LIFORevQueue.java.
type lifoRevQueue struct {
	items []*RevCommit
}

func newLIFORevQueue() *lifoRevQueue { return &lifoRevQueue{} }

func (q *lifoRevQueue) add(c *RevCommit) { q.items = append(q.items, c) }

func (q *lifoRevQueue) Next() (*RevCommit, error) {
	n := len(q.items)
	if n == 0 {
		return nil, nil
	}
	c := q.items[n-1]
	q.items = q.items[:n-1]
	return c, nil
}

func (q *lifoRevQueue) clear() { q.items = nil }

func (q *lifoRevQueue) anybodyHasFlag(flag uint32) bool {
	for _, c := range q.items {
		if c.has(flag) {
			return true
		}
	}
	return false
}

func (q *lifoRevQueue) OutputType() int { return 0 }

// dateRevQueue emits commits in descending commitTime order regardless of
// push order, backed by emirpasic/gods' binary heap. Mirrors
// DateRevQueue.java, which keeps its pending set as a max-heap on commit
// time for the same reason: COMMIT_TIME_DESC output has to hold open
// every branch of history currently in flight and always emit whichever
// branch's head is newest.
type dateRevQueue struct {
	heap *binaryheap.Heap
}

func newDateRevQueue() *dateRevQueue {
	return &dateRevQueue{heap: binaryheap.NewWith(byCommitTimeDesc)}
}

func byCommitTimeDesc(a, b interface{}) int {
	ca, cb := a.(*RevCommit), b.(*RevCommit)
	switch {
	case ca.commitTime > cb.commitTime:
		return -1
	case ca.commitTime < cb.commitTime:
		return 1
	default:
		return 0
	}
}

func (q *dateRevQueue) add(c *RevCommit) { q.heap.Push(c) }

func (q *dateRevQueue) Next() (*RevCommit, error) {
	v, ok := q.heap.Pop()
	if !ok {
		return nil, nil
	}
	return v.(*RevCommit), nil
}

func (q *dateRevQueue) clear() { q.heap.Clear() }

func (q *dateRevQueue) anybodyHasFlag(flag uint32) bool {
	for _, v := range q.heap.Values() {
		if v.(*RevCommit).has(flag) {
			return true
		}
	}
	return false
}

func (q *dateRevQueue) OutputType() int { return 0 }

// emptyRevQueue is the sentinel AbstractRevQueue.EMPTY_QUEUE is ported as:
// permanently empty. Nothing in this package installs it; the merge-base
// special case in assemblePipeline returns mergeBaseGenerator and leaves
// RevWalk.queue as it is.
type emptyRevQueue struct{}

var emptyQueue = emptyRevQueue{}

func (emptyRevQueue) add(*RevCommit)              {}
func (emptyRevQueue) Next() (*RevCommit, error)   { return nil, nil }
func (emptyRevQueue) clear()                      {}
func (emptyRevQueue) anybodyHasFlag(uint32) bool  { return false }
func (emptyRevQueue) OutputType() int             { return 0 }
