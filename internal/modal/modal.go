// Package modal implements the state machine behind the full-screen photo
// viewer: open/close, wrap-around navigation, keyboard and swipe input,
// browser history, and progressive image loading.
package modal

import (
	"errors"
	"fmt"
	"time"
)

var ErrIndexOutOfRange = errors.New("photo index out of range")

// SwipeThreshold is the minimum horizontal travel in pixels that counts as
// a swipe.
const SwipeThreshold = 50

// LoadTimeout bounds how long the full-resolution image may take before the
// load is treated as failed.
const LoadTimeout = 15 * time.Second

// LoadState is the progress of the full-resolution image for the open photo.
type LoadState int

const (
	LoadNone LoadState = iota
	// LoadPlaceholder shows the thumbnail while the original downloads.
	LoadPlaceholder
	LoadFull
	// LoadFailed keeps the placeholder and shows an error badge.
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadPlaceholder:
		return "placeholder"
	case LoadFull:
		return "full"
	case LoadFailed:
		return "failed"
	}
	return "none"
}

// Effect tells the caller which side effects a transition requires.
type Effect struct {
	// PushHistory means a history entry for the open modal must be added.
	PushHistory bool
	// PopHistory means the caller must navigate back one history entry.
	PopHistory bool
	// Load is set when a new full-resolution load must begin.
	Load *Token
}

// Token identifies one full-resolution load request.
type Token struct {
	Index int
	Seq   uint64
}

// Controller is the modal state for a gallery of n photos. The zero value is
// unusable; call New. A Controller is not safe for concurrent use.
type Controller struct {
	n       int
	open    bool
	index   int
	seq     uint64
	current Token
	load    LoadState
}

func New(n int) *Controller {
	return &Controller{n: n}
}

func (c *Controller) Len() int {
	return c.n
}

func (c *Controller) IsOpen() bool {
	return c.open
}

// Index returns the open photo index, or -1 when closed.
func (c *Controller) Index() int {
	if !c.open {
		return -1
	}
	return c.index
}

func (c *Controller) LoadState() LoadState {
	return c.load
}

// Open shows photo i, replacing whatever was open. Only the transition from
// closed pushes a history entry.
func (c *Controller) Open(i int) (Effect, error) {
	if i < 0 || i >= c.n {
		return Effect{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, c.n)
	}
	wasOpen := c.open
	c.open = true
	c.index = i
	tok := c.beginLoad()
	return Effect{PushHistory: !wasOpen, Load: &tok}, nil
}

func (c *Controller) Next() Effect {
	if !c.open || c.n == 0 {
		return Effect{}
	}
	e, _ := c.Open(NextIndex(c.index, c.n))
	return e
}

func (c *Controller) Prev() Effect {
	if !c.open || c.n == 0 {
		return Effect{}
	}
	e, _ := c.Open(PrevIndex(c.index, c.n))
	return e
}

// Close hides the modal from a UI action. The history entry pushed on open
// must be popped by the caller.
func (c *Controller) Close() Effect {
	if !c.open {
		return Effect{}
	}
	c.reset()
	return Effect{PopHistory: true}
}

// PopState handles the browser going back. The entry is already gone, so no
// further history navigation is requested.
func (c *Controller) PopState() Effect {
	if c.open {
		c.reset()
	}
	return Effect{}
}

func (c *Controller) reset() {
	c.open = false
	c.load = LoadNone
	// Invalidate any in-flight load.
	c.seq++
	c.current = Token{Index: -1, Seq: c.seq}
}

// HandleKey maps keyboard input while the modal is open. Unknown keys and
// input while closed are ignored.
func (c *Controller) HandleKey(key string) Effect {
	if !c.open {
		return Effect{}
	}
	switch key {
	case "ArrowLeft":
		return c.Prev()
	case "ArrowRight":
		return c.Next()
	case "Escape":
		return c.Close()
	}
	return Effect{}
}

// Swipe handles a horizontal touch gesture of dx pixels (end minus start).
// A leftward swipe advances; a rightward one goes back.
func (c *Controller) Swipe(dx float64) Effect {
	if !c.open {
		return Effect{}
	}
	switch {
	case dx < -SwipeThreshold:
		return c.Next()
	case dx > SwipeThreshold:
		return c.Prev()
	}
	return Effect{}
}

func (c *Controller) beginLoad() Token {
	c.seq++
	c.current = Token{Index: c.index, Seq: c.seq}
	c.load = LoadPlaceholder
	return c.current
}

// Current returns the token of the load the modal is waiting for.
func (c *Controller) Current() Token {
	return c.current
}

// CompleteLoad swaps in the full-resolution image if tok is still current.
// It reports whether the completion was applied.
func (c *Controller) CompleteLoad(tok Token) bool {
	if !c.isCurrent(tok) || c.load != LoadPlaceholder {
		return false
	}
	c.load = LoadFull
	return true
}

// FailLoad marks the current load as failed (error or LoadTimeout expiry).
// The placeholder stays visible.
func (c *Controller) FailLoad(tok Token) bool {
	if !c.isCurrent(tok) || c.load != LoadPlaceholder {
		return false
	}
	c.load = LoadFailed
	return true
}

func (c *Controller) isCurrent(tok Token) bool {
	return c.open && tok == c.current
}

// NextIndex returns i+1 wrapping to 0 after the last of n photos.
func NextIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i + 1) % n
}

// PrevIndex returns i-1 wrapping to the last of n photos before 0.
func PrevIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i - 1 + n) % n
}
