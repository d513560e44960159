package repositories

import "context"

// SlotReader reads a durable slot.
type SlotReader interface {
	// Read returns the blob stored under key, or an error wrapping
	// apperrors.ErrNotFound when the slot has never been written.
	Read(ctx context.Context, key string) ([]byte, error)
}

// SlotWriter overwrites a durable slot. Last writer wins.
type SlotWriter interface {
	Write(ctx context.Context, key string, blob []byte) error
}

// SlotRepositoryFacade combines reading and writing of durable slots.
type SlotRepositoryFacade interface {
	SlotReader
	SlotWriter
}
