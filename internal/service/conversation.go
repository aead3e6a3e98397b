package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/uplyft/shopchat-client/internal/gateway"
	"github.com/uplyft/shopchat-client/internal/logger"
	"github.com/uplyft/shopchat-client/internal/model"
)

const connectFallback = "I'm having trouble connecting. Please try again."

// Conversation drives one request/response exchange per user utterance
// and exposes the transcript, the composing flag, and the current
// recommendation set. The transcript is append-only; recommendations
// are replaced wholesale by assistant replies that carry products.
type Conversation struct {
	gateway model.Gateway
	logger  *logger.Logger

	mu        sync.Mutex
	messages  []model.Message
	products  []model.Product
	composing bool
	nextID    int64
	sessionID *int64
}

func NewConversation(gateway model.Gateway, logger *logger.Logger) *Conversation {
	return &Conversation{
		gateway: gateway,
		logger:  logger,
	}
}

type chatQuery struct {
	Message   string `json:"message"`
	SessionID *int64 `json:"session_id,omitempty"`
}

type chatReply struct {
	Message   string          `json:"message"`
	Products  []model.Product `json:"products"`
	SessionID *int64          `json:"session_id"`
}

// SendMessage appends the user's utterance to the transcript, queries
// the assistant, and appends its reply. A whitespace-only text is a
// no-op. The user message is visible before the network call starts,
// and the composing flag is cleared last on every path.
func (c *Conversation) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.mu.Lock()
	c.append(model.Message{
		Content:   text,
		IsUser:    true,
		Timestamp: time.Now(),
	})
	c.composing = true
	query := chatQuery{Message: text, SessionID: c.sessionID}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.composing = false
		c.mu.Unlock()
	}()

	var reply chatReply
	err := c.gateway.PostJSON(ctx, "/chat/query", query, &reply)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Info("Conversation store: exchange failed",
			"error", err.Error())
		c.append(model.Message{
			Content:   gateway.Detail(err, connectFallback),
			IsUser:    false,
			Error:     true,
			Timestamp: time.Now(),
		})
		return wrapOp(err, connectFallback)
	}

	c.append(model.Message{
		Content:   reply.Message,
		IsUser:    false,
		Timestamp: time.Now(),
	})

	// An empty or absent product list leaves the previous
	// recommendations on display.
	if len(reply.Products) > 0 {
		c.products = reply.Products
	}
	if reply.SessionID != nil {
		c.sessionID = reply.SessionID
	}

	c.logger.Debug("Conversation store: exchange completed",
		"recommendations", len(reply.Products))

	return nil
}

// ClearChat empties the transcript and the recommendation set
// together, and forgets the backend conversation thread. Local only.
func (c *Conversation) ClearChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.products = nil
	c.sessionID = nil
}

// Messages returns a snapshot of the transcript.
func (c *Conversation) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	messages := make([]model.Message, len(c.messages))
	copy(messages, c.messages)
	return messages
}

// Products returns a snapshot of the current recommendation set.
func (c *Conversation) Products() []model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	products := make([]model.Product, len(c.products))
	copy(products, c.products)
	return products
}

// Composing reports whether an exchange is in flight. Overlapping
// exchanges each set and clear it independently; it is a view hint,
// not a lock.
func (c *Conversation) Composing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.composing
}

// append assigns the next monotonic id. Caller holds c.mu. Ids stay
// unique even when a user message and an error reply land in the same
// tick.
func (c *Conversation) append(msg model.Message) {
	c.nextID++
	msg.ID = c.nextID
	c.messages = append(c.messages, msg)
}
