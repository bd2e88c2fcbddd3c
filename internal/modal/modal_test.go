package modal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexWrap(t *testing.T) {
	assert.Equal(t, 0, NextIndex(4, 5))
	assert.Equal(t, 3, NextIndex(2, 5))
	assert.Equal(t, 4, PrevIndex(0, 5))
	assert.Equal(t, 1, PrevIndex(2, 5))
	assert.Equal(t, 0, NextIndex(0, 1))
	assert.Equal(t, 0, PrevIndex(0, 1))
	assert.Equal(t, 0, NextIndex(0, 0))
}

func TestNewIsClosed(t *testing.T) {
	c := New(3)
	assert.False(t, c.IsOpen())
	assert.Equal(t, -1, c.Index())
	assert.Equal(t, LoadNone, c.LoadState())
}

func TestOpenOutOfRange(t *testing.T) {
	c := New(3)

	_, err := c.Open(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = c.Open(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.False(t, c.IsOpen())
}

func TestOpenPushesHistoryOnce(t *testing.T) {
	c := New(3)

	e, err := c.Open(1)
	require.NoError(t, err)
	assert.True(t, e.PushHistory)
	require.NotNil(t, e.Load)
	assert.Equal(t, 1, e.Load.Index)
	assert.Equal(t, LoadPlaceholder, c.LoadState())

	e, err = c.Open(2)
	require.NoError(t, err)
	assert.False(t, e.PushHistory, "opening while open replaces, does not stack")
	assert.Equal(t, 2, c.Index())
}

func TestNavigationWrapsBothWays(t *testing.T) {
	c := New(3)
	_, err := c.Open(2)
	require.NoError(t, err)

	c.Next()
	assert.Equal(t, 0, c.Index())
	c.Prev()
	assert.Equal(t, 2, c.Index())
	c.Prev()
	assert.Equal(t, 1, c.Index())
}

func TestNavigationWhileClosedIgnored(t *testing.T) {
	c := New(3)
	assert.Equal(t, Effect{}, c.Next())
	assert.Equal(t, Effect{}, c.Prev())
	assert.False(t, c.IsOpen())
}

func TestCloseRequestsHistoryPop(t *testing.T) {
	c := New(3)
	_, _ = c.Open(0)

	e := c.Close()
	assert.True(t, e.PopHistory)
	assert.False(t, c.IsOpen())
	assert.Equal(t, LoadNone, c.LoadState())

	assert.Equal(t, Effect{}, c.Close(), "closing twice is a no-op")
}

func TestPopStateClosesWithoutHistoryPop(t *testing.T) {
	c := New(3)
	_, _ = c.Open(0)

	e := c.PopState()
	assert.False(t, e.PopHistory)
	assert.False(t, c.IsOpen())
}

func TestHandleKey(t *testing.T) {
	c := New(4)
	_, _ = c.Open(0)

	c.HandleKey("ArrowRight")
	assert.Equal(t, 1, c.Index())
	c.HandleKey("ArrowLeft")
	c.HandleKey("ArrowLeft")
	assert.Equal(t, 3, c.Index())
	assert.Equal(t, Effect{}, c.HandleKey("a"))
	assert.Equal(t, 3, c.Index())

	e := c.HandleKey("Escape")
	assert.True(t, e.PopHistory)
	assert.False(t, c.IsOpen())

	assert.Equal(t, Effect{}, c.HandleKey("ArrowRight"))
	assert.False(t, c.IsOpen())
}

func TestSwipe(t *testing.T) {
	c := New(3)
	_, _ = c.Open(1)

	c.Swipe(-49)
	assert.Equal(t, 1, c.Index(), "below threshold")
	c.Swipe(50)
	assert.Equal(t, 1, c.Index(), "threshold is exclusive")

	c.Swipe(-80)
	assert.Equal(t, 2, c.Index())
	c.Swipe(120)
	assert.Equal(t, 1, c.Index())
}

func TestCompleteLoad(t *testing.T) {
	c := New(3)
	e, _ := c.Open(0)

	assert.True(t, c.CompleteLoad(*e.Load))
	assert.Equal(t, LoadFull, c.LoadState())
	assert.False(t, c.CompleteLoad(*e.Load), "already applied")
}

func TestStaleLoadIgnored(t *testing.T) {
	c := New(3)
	first, _ := c.Open(0)
	second := c.Next()
	require.NotNil(t, second.Load)

	assert.False(t, c.CompleteLoad(*first.Load))
	assert.Equal(t, LoadPlaceholder, c.LoadState())
	assert.False(t, c.FailLoad(*first.Load))

	assert.True(t, c.CompleteLoad(*second.Load))
	assert.Equal(t, 1, c.Index())
}

func TestReopenSameIndexInvalidatesOldToken(t *testing.T) {
	c := New(3)
	first, _ := c.Open(1)
	c.Close()
	second, _ := c.Open(1)

	assert.False(t, c.CompleteLoad(*first.Load))
	assert.True(t, c.CompleteLoad(*second.Load))
}

func TestLoadAfterCloseIgnored(t *testing.T) {
	c := New(3)
	e, _ := c.Open(0)
	c.PopState()

	assert.False(t, c.CompleteLoad(*e.Load))
	assert.Equal(t, LoadNone, c.LoadState())
}

func TestFailLoadKeepsPlaceholderState(t *testing.T) {
	c := New(3)
	e, _ := c.Open(2)

	assert.True(t, c.FailLoad(*e.Load))
	assert.Equal(t, LoadFailed, c.LoadState())
	assert.True(t, c.IsOpen())
	assert.False(t, c.CompleteLoad(*e.Load), "late completion after timeout is ignored")
}

func TestLoadStateString(t *testing.T) {
	assert.Equal(t, "placeholder", LoadPlaceholder.String())
	assert.Equal(t, "full", LoadFull.String())
	assert.Equal(t, "failed", LoadFailed.String())
	assert.Equal(t, "none", LoadNone.String())
}
