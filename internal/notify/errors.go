package notify

import "errors"

var (
	// ErrQueueFull is returned when the send queue has no free slot
	ErrQueueFull = errors.New("notification queue is full")

	// ErrDispatcherClosed is returned after Close has been called
	ErrDispatcherClosed = errors.New("notification dispatcher is closed")
)
