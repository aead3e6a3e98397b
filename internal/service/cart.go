package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/uplyft/shopchat-client/internal/logger"
	"github.com/uplyft/shopchat-client/internal/model"
)

const (
	addToCartFallback = "Failed to add item to cart"
	removeFallback    = "Failed to remove item from cart"
	updateFallback    = "Failed to update cart item"
	clearCartFallback = "Failed to clear cart"
)

// Cart keeps a local projection of the remote cart under optimistic
// mutation: every change lands locally first and is never rolled back;
// the network result only signals success or failure to the caller.
// Overlapping calls are not serialized, and the busy flag is a status
// indicator for the view, not a lock.
type Cart struct {
	gateway model.Gateway
	logger  *logger.Logger

	mu    sync.Mutex
	lines []model.CartLine
	busy  bool
}

func NewCart(gateway model.Gateway, logger *logger.Logger) *Cart {
	return &Cart{
		gateway: gateway,
		logger:  logger,
	}
}

type addCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// AddToCart inserts the product locally (or bumps its quantity by one
// when a line already exists) and reports the add to the backend.
func (c *Cart) AddToCart(ctx context.Context, product model.Product) error {
	c.mu.Lock()
	found := false
	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		c.lines = append(c.lines, model.CartLine{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  1,
		})
	}
	c.busy = true
	c.mu.Unlock()
	defer c.clearBusy()

	err := c.gateway.PostJSON(ctx, "/cart/add", addCartRequest{ProductID: product.ID, Quantity: 1}, nil)
	if err != nil {
		c.logger.Info("Cart store: add rejected by backend",
			"product_id", product.ID,
			"error", err.Error())
		return wrapOp(err, addToCartFallback)
	}

	c.logger.Debug("Cart store: added item",
		"product_id", product.ID)

	return nil
}

// RemoveFromCart drops the line locally and issues the delete.
func (c *Cart) RemoveFromCart(ctx context.Context, productID int64) error {
	c.mu.Lock()
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
	c.busy = true
	c.mu.Unlock()
	defer c.clearBusy()

	err := c.gateway.Delete(ctx, fmt.Sprintf("/cart/remove/%d", productID), nil)
	if err != nil {
		c.logger.Info("Cart store: remove rejected by backend",
			"product_id", productID,
			"error", err.Error())
		return wrapOp(err, removeFallback)
	}

	return nil
}

// UpdateQuantity sets the line's quantity. Quantities below 1 are a
// strict no-op: no local change, no network call.
func (c *Cart) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return nil
	}

	c.mu.Lock()
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			break
		}
	}
	c.busy = true
	c.mu.Unlock()
	defer c.clearBusy()

	query := url.Values{}
	query.Set("quantity", strconv.Itoa(quantity))

	err := c.gateway.Put(ctx, fmt.Sprintf("/cart/update/%d", productID), query, nil)
	if err != nil {
		c.logger.Info("Cart store: update rejected by backend",
			"product_id", productID,
			"quantity", quantity,
			"error", err.Error())
		return wrapOp(err, updateFallback)
	}

	return nil
}

// ClearCart empties the local line set and issues the clear. The local
// set ends up empty whatever the backend says.
func (c *Cart) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	c.lines = nil
	c.busy = true
	c.mu.Unlock()
	defer c.clearBusy()

	err := c.gateway.Delete(ctx, "/cart/clear", nil)
	if err != nil {
		c.logger.Info("Cart store: clear rejected by backend",
			"error", err.Error())
		return wrapOp(err, clearCartFallback)
	}

	return nil
}

// Items returns a snapshot of the current lines.
func (c *Cart) Items() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]model.CartLine, len(c.lines))
	copy(items, c.lines)
	return items
}

// Total is the derived cart value, recomputed on every call.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// Busy reports whether the most recent mutating call is still in
// flight. With overlapping calls the last one to settle wins.
func (c *Cart) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Cart) clearBusy() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}
