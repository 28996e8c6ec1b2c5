package storage

import (
	"context"
	"errors"
	"fmt"
)

// BlobDeleter removes a previously uploaded blob by key.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

// Compensator records uploads performed before a risky step so they can be
// rolled back if that step fails. Each upload is recorded before the next
// action runs, so a partial failure never strands an untracked blob.
type Compensator struct {
	store BlobDeleter
	keys  []string
}

// NewCompensator constructs a compensation list over the given store.
func NewCompensator(store BlobDeleter) *Compensator {
	return &Compensator{store: store}
}

// Record adds an uploaded object to the rollback list.
func (c *Compensator) Record(obj Object) {
	if obj.Key == "" {
		return
	}
	c.keys = append(c.keys, obj.Key)
}

// Rollback deletes every recorded blob. Deletion failures do not stop the
// remaining deletes; they are joined and returned so the caller can surface
// them in the error detail instead of discarding them.
func (c *Compensator) Rollback(ctx context.Context) error {
	var errs []error
	for _, key := range c.keys {
		if err := c.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("compensate %s: %w", key, err))
		}
	}
	c.keys = nil
	return errors.Join(errs...)
}
