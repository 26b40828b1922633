package engine

import (
	"github.com/huandu/skiplist"
)

type priceLevel struct {
	totalSize int64 // sum of remaining sizes at this level
	head      *Order
	tail      *Order
	count     int64
}

type bookQueue struct {
	side        Side
	totalOrders int64
	depths      int64
	depthList   *skiplist.SkipList
	priceList   map[int64]*skiplist.Element
	orders      map[int64]*Order
}

// newAskQueue creates a new queue for sell orders.
// The price levels are sorted in ascending order (lowest price first).
func newAskQueue() *bookQueue {
	return &bookQueue{
		side: Ask,
		depthList: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			p1, _ := lhs.(int64)
			p2, _ := rhs.(int64)

			if p1 > p2 {
				return 1
			} else if p1 < p2 {
				return -1
			}

			return 0
		})),
		priceList: make(map[int64]*skiplist.Element),
		orders:    make(map[int64]*Order),
	}
}

// newBidQueue creates a new queue for buy orders.
// The price levels are sorted in descending order (highest price first).
func newBidQueue() *bookQueue {
	return &bookQueue{
		side: Bid,
		depthList: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			p1, _ := lhs.(int64)
			p2, _ := rhs.(int64)

			if p1 < p2 {
				return 1
			} else if p1 > p2 {
				return -1
			}

			return 0
		})),
		priceList: make(map[int64]*skiplist.Element),
		orders:    make(map[int64]*Order),
	}
}

// order finds an order by its ID.
func (q *bookQueue) order(id int64) *Order {
	return q.orders[id]
}

// insertOrder appends an order to the tail of the level matching its
// price, creating the level if absent.
func (q *bookQueue) insertOrder(order *Order) {
	el, ok := q.priceList[order.Price]
	if ok {
		level, _ := el.Value.(*priceLevel)

		order.prev = level.tail
		order.next = nil
		if level.tail != nil {
			level.tail.next = order
		}
		level.tail = order
		if level.head == nil {
			level.head = order
		}

		level.totalSize += order.Remaining()
		level.count++
		q.orders[order.ID] = order
		q.totalOrders++
	} else {
		level := &priceLevel{
			head:      order,
			tail:      order,
			totalSize: order.Remaining(),
			count:     1,
		}
		order.next = nil
		order.prev = nil

		q.orders[order.ID] = order

		el := q.depthList.Set(order.Price, level)
		q.priceList[order.Price] = el

		q.totalOrders++
		q.depths++
	}
}

// removeOrder removes an order from the queue by price and ID.
// The price level is removed as soon as it holds no orders.
func (q *bookQueue) removeOrder(price int64, id int64) {
	skipElement, ok := q.priceList[price]
	if !ok {
		return
	}
	level, _ := skipElement.Value.(*priceLevel)

	order, ok := q.orders[id]
	if !ok {
		return
	}

	if order.prev != nil {
		order.prev.next = order.next
	} else {
		level.head = order.next
	}

	if order.next != nil {
		order.next.prev = order.prev
	} else {
		level.tail = order.prev
	}

	order.next = nil
	order.prev = nil

	level.totalSize -= order.Remaining()
	level.count--
	delete(q.orders, id)
	q.totalOrders--

	if level.count == 0 {
		q.depthList.RemoveElement(skipElement)
		delete(q.priceList, price)
		q.depths--
	}
}

// peekHeadOrder returns the oldest order at the best price level without
// removing it.
func (q *bookQueue) peekHeadOrder() *Order {
	el := q.depthList.Front()
	if el == nil {
		return nil
	}

	level, _ := el.Value.(*priceLevel)
	return level.head
}

// settleHead reduces the recorded liquidity at the best level after its
// head order was filled by qty units, and pops the order (and the level,
// if emptied) once nothing remains.
func (q *bookQueue) settleHead(qty int64) {
	el := q.depthList.Front()
	if el == nil {
		return
	}

	level, _ := el.Value.(*priceLevel)
	level.totalSize -= qty

	ord := level.head
	if ord != nil && ord.Remaining() == 0 {
		q.removeOrder(ord.Price, ord.ID)
	}
}

// availableSize sums remaining size level by level (best price first)
// until at least want units are covered or the book is exhausted.
func (q *bookQueue) availableSize(want int64) int64 {
	var total int64

	el := q.depthList.Front()
	for el != nil && total < want {
		level, _ := el.Value.(*priceLevel)
		total += level.totalSize
		el = el.Next()
	}

	return total
}

// bestPrice returns the head price level, or false if the side is empty.
func (q *bookQueue) bestPrice() (int64, bool) {
	el := q.depthList.Front()
	if el == nil {
		return 0, false
	}

	price, _ := el.Key().(int64)
	return price, true
}

// orderCount returns the total number of orders in the queue.
func (q *bookQueue) orderCount() int64 {
	return q.totalOrders
}

// depthCount returns the number of price levels in the queue.
func (q *bookQueue) depthCount() int64 {
	return q.depths
}
