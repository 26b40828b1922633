package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitOrder(id int64, side Side, size, price int64) *Order {
	return &Order{
		ID:    id,
		Side:  side,
		Kind:  Limit,
		Price: price,
		Size:  size,
		Owner: "tester",
	}
}

func TestAskQueueBestPriceOrdering(t *testing.T) {
	q := newAskQueue()

	q.insertOrder(limitOrder(1, Ask, 10, 105_000))
	q.insertOrder(limitOrder(2, Ask, 10, 101_000))
	q.insertOrder(limitOrder(3, Ask, 10, 103_000))

	price, ok := q.bestPrice()
	require.True(t, ok)
	assert.Equal(t, int64(101_000), price)
	assert.Equal(t, int64(3), q.orderCount())
	assert.Equal(t, int64(3), q.depthCount())
}

func TestBidQueueBestPriceOrdering(t *testing.T) {
	q := newBidQueue()

	q.insertOrder(limitOrder(1, Bid, 10, 95_000))
	q.insertOrder(limitOrder(2, Bid, 10, 99_000))
	q.insertOrder(limitOrder(3, Bid, 10, 97_000))

	price, ok := q.bestPrice()
	require.True(t, ok)
	assert.Equal(t, int64(99_000), price)
}

func TestQueueFIFOWithinLevel(t *testing.T) {
	q := newAskQueue()

	q.insertOrder(limitOrder(1, Ask, 5, 100_000))
	q.insertOrder(limitOrder(2, Ask, 5, 100_000))
	q.insertOrder(limitOrder(3, Ask, 5, 100_000))

	assert.Equal(t, int64(1), q.depthCount())
	assert.Equal(t, int64(1), q.peekHeadOrder().ID)

	// removing the middle order must not break the chain
	q.removeOrder(100_000, 2)
	assert.Equal(t, int64(1), q.peekHeadOrder().ID)
	assert.Equal(t, int64(2), q.orderCount())

	require.NoError(t, q.peekHeadOrder().Fill(5))
	q.settleHead(5)
	assert.Equal(t, int64(3), q.peekHeadOrder().ID)
}

func TestQueueRemovesEmptyLevel(t *testing.T) {
	q := newBidQueue()

	q.insertOrder(limitOrder(1, Bid, 5, 100_000))
	q.insertOrder(limitOrder(2, Bid, 5, 99_000))

	q.removeOrder(100_000, 1)

	assert.Equal(t, int64(1), q.depthCount())
	price, ok := q.bestPrice()
	require.True(t, ok)
	assert.Equal(t, int64(99_000), price)

	q.removeOrder(99_000, 2)
	_, ok = q.bestPrice()
	assert.False(t, ok)
	assert.Nil(t, q.peekHeadOrder())
	assert.Equal(t, int64(0), q.orderCount())
}

func TestQueueRemoveUnknownOrderIsNoop(t *testing.T) {
	q := newAskQueue()
	q.insertOrder(limitOrder(1, Ask, 5, 100_000))

	q.removeOrder(100_000, 42)
	q.removeOrder(200_000, 1)

	assert.Equal(t, int64(1), q.orderCount())
	assert.Equal(t, int64(1), q.depthCount())
}

func TestQueueAvailableSize(t *testing.T) {
	q := newAskQueue()

	q.insertOrder(limitOrder(1, Ask, 5, 100_000))
	q.insertOrder(limitOrder(2, Ask, 7, 101_000))
	q.insertOrder(limitOrder(3, Ask, 9, 102_000))

	assert.GreaterOrEqual(t, q.availableSize(4), int64(4))
	assert.GreaterOrEqual(t, q.availableSize(12), int64(12))
	assert.Equal(t, int64(21), q.availableSize(100))
	assert.Equal(t, int64(0), newBidQueue().availableSize(1))
}

func TestQueueAvailableSizeCountsRemainingOnly(t *testing.T) {
	q := newAskQueue()

	partly := limitOrder(1, Ask, 10, 100_000)
	require.NoError(t, partly.Fill(4))
	q.insertOrder(partly)

	assert.Equal(t, int64(6), q.availableSize(100))
}
