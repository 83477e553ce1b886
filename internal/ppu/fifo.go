package ppu

// Pixel is one pixel descriptor as it flows through a FIFO: a 2-bit color
// id plus enough provenance to resolve it through the right palette during
// the merge step.
type Pixel struct {
	ColorID  uint8
	Palette  uint8 // DMG objects: 0=OBP0, 1=OBP1 (background always uses BGP). CGB: palette RAM index 0-7.
	Priority bool  // object BG-over-OBJ flag / CGB BG-to-OAM priority
}

// fifoCapacity bounds the pixel queues: 160 covers a full scanline of
// background/object pixels. The sprite queue has its own bound,
// objectQueueCapacity.
const fifoCapacity = 160

// PixelFIFO is a fixed-capacity circular queue of Pixel, matching
// spec.md's data-model requirement that the background and object pixel
// queues never need to grow past one scanline's worth of pixels.
type PixelFIFO struct {
	buf        [fifoCapacity]Pixel
	head, size int
}

// Push appends a pixel. Pushing past capacity is an invariant violation —
// it means a rendering bug, not a game doing something unusual — so it
// panics rather than silently dropping data (spec.md §7).
func (q *PixelFIFO) Push(p Pixel) {
	if q.size >= fifoCapacity {
		panic("ppu: pixel fifo overflow")
	}
	tail := (q.head + q.size) % fifoCapacity
	q.buf[tail] = p
	q.size++
}

// Pop removes and returns the oldest pixel.
func (q *PixelFIFO) Pop() Pixel {
	if q.size == 0 {
		panic("ppu: pixel fifo underflow")
	}
	p := q.buf[q.head]
	q.head = (q.head + 1) % fifoCapacity
	q.size--
	return p
}

// Len reports the number of pixels currently queued.
func (q *PixelFIFO) Len() int { return q.size }

// Clear empties the queue for the next scanline.
func (q *PixelFIFO) Clear() { q.head, q.size = 0, 0 }

// objectQueueCapacity is the maximum number of sprites OAM scan may select
// for a single scanline.
const objectQueueCapacity = 10

// Sprite is one object-attribute entry selected during OAM scan.
type Sprite struct {
	Y, X, Tile, Attr uint8
	OAMIndex         uint8
}

// SpriteQueue is the fixed-capacity (10-entry) append-only queue OAM scan
// fills, per spec.md §4.4.
type SpriteQueue struct {
	buf  [objectQueueCapacity]Sprite
	size int
}

// Reset empties the queue for a new scanline's OAM scan.
func (q *SpriteQueue) Reset() { q.size = 0 }

// TryAdd appends s if there is room, reporting whether it was added (OAM
// scan stops once 10 objects are selected; a full queue is not an error).
func (q *SpriteQueue) TryAdd(s Sprite) bool {
	if q.size >= objectQueueCapacity {
		return false
	}
	q.buf[q.size] = s
	q.size++
	return true
}

// Len reports how many sprites are queued.
func (q *SpriteQueue) Len() int { return q.size }

// At returns the sprite at index i (0 <= i < Len()).
func (q *SpriteQueue) At(i int) Sprite { return q.buf[i] }
