package session

import "sync"

// DefaultHistory is the number of inbound frames kept when none is configured.
const DefaultHistory = 50

// History is a bounded, concurrency safe record of the latest inbound frames.
type History struct {
	mu     sync.Mutex
	frames []string
	next   int
	full   bool
}

// NewHistory keeps up to size frames. A size below one keeps nothing.
func NewHistory(size int) *History {
	if size < 0 {
		size = 0
	}
	return &History{frames: make([]string, size)}
}

// Add records frame, evicting the oldest one when full.
func (h *History) Add(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.frames) == 0 {
		return
	}
	h.frames[h.next] = string(frame)
	h.next = (h.next + 1) % len(h.frames)
	if h.next == 0 {
		h.full = true
	}
}

// Len returns the number of frames held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lenLocked()
}

// Recent returns up to n of the latest frames, oldest first. n <= 0 means all.
func (h *History) Recent(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := h.lenLocked()
	if n <= 0 || n > count {
		n = count
	}

	out := make([]string, n)
	start := h.next - n
	if start < 0 {
		start += len(h.frames)
	}
	for i := 0; i < n; i++ {
		out[i] = h.frames[(start+i)%len(h.frames)]
	}
	return out
}

func (h *History) lenLocked() int {
	if h.full {
		return len(h.frames)
	}
	return h.next
}
