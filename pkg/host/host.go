// Package host implements the single-slot framebuffer handshake a
// reference host uses to pull completed frames off the core without
// tearing: one mutex guards the slot, and two condition variables signal
// "a frame is available" and "the consumer has taken it", per spec.md
// §5's external-interface design.
package host

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash"
)

// FrameBuffer is 160x144 ARGB8888 pixels, matching ppu.ScreenWidth x
// ppu.ScreenHeight. It's declared independently here so this package has
// no dependency on internal/ppu.
type FrameBuffer = [144][160]uint32

// Handshake hands one produced frame at a time from a core-driving
// goroutine to a consumer (the render loop), deduplicating identical
// consecutive frames via their xxhash so a quiescent game doesn't force
// the consumer to re-blit unchanged pixels.
type Handshake struct {
	mu        sync.Mutex
	available *sync.Cond
	consumed  *sync.Cond

	buf     FrameBuffer
	hasFrame bool
	lastHash uint64
	haveHash bool

	scratch [144 * 160 * 4]byte // reused across Publish calls to avoid a per-frame allocation

	closed bool
}

// New returns a ready Handshake.
func New() *Handshake {
	h := &Handshake{}
	h.available = sync.NewCond(&h.mu)
	h.consumed = sync.NewCond(&h.mu)
	return h
}

// Publish offers a newly rendered frame. If its content hashes identically
// to the previous published frame, it is dropped rather than queued —
// the consumer already has the current pixels. Publish blocks until any
// previously published, not-yet-dropped frame has been consumed, so the
// core never races ahead by more than one frame.
func (h *Handshake) Publish(frame *FrameBuffer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.fillScratch(frame)
	sum := xxhash.Sum64(h.scratch[:])

	for h.hasFrame && !h.closed {
		h.consumed.Wait()
	}
	if h.closed {
		return
	}
	if h.haveHash && sum == h.lastHash {
		return
	}

	h.buf = *frame
	h.hasFrame = true
	h.lastHash = sum
	h.haveHash = true
	h.available.Signal()
}

// Take blocks until a frame is available, then returns a copy of it and
// signals the producer that the slot is free again. Returns false if the
// handshake was closed while waiting.
func (h *Handshake) Take() (FrameBuffer, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for !h.hasFrame && !h.closed {
		h.available.Wait()
	}
	if h.closed && !h.hasFrame {
		return FrameBuffer{}, false
	}

	frame := h.buf
	h.hasFrame = false
	h.consumed.Signal()
	return frame, true
}

// TryTake returns the pending frame without blocking, reporting false if
// none is available yet. Intended for a render callback that must not
// stall waiting on the core goroutine.
func (h *Handshake) TryTake() (FrameBuffer, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.hasFrame {
		return FrameBuffer{}, false
	}
	frame := h.buf
	h.hasFrame = false
	h.consumed.Signal()
	return frame, true
}

// Close unblocks any waiting Publish/Take calls permanently.
func (h *Handshake) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.available.Broadcast()
	h.consumed.Broadcast()
}

// fillScratch serializes frame's pixels into h.scratch for hashing.
func (h *Handshake) fillScratch(frame *FrameBuffer) {
	i := 0
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			binary.LittleEndian.PutUint32(h.scratch[i:], frame[y][x])
			i += 4
		}
	}
}
