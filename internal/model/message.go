package model

import "time"

// Message is one entry in the conversation transcript. The transcript
// is append-only; a message is never mutated or reordered once added.
type Message struct {
	ID        int64
	Content   string
	IsUser    bool
	Error     bool
	Timestamp time.Time
}
