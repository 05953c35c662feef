// Package storage persists the CRM collections as independent JSON slots in a
// key/value backend. Reads never fail: a missing slot yields the caller's
// default and an unreadable one is logged and replaced by the default.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fieldcrm/internal/logger"
)

const (
	KeyCurrentUser       = "currentUser"
	KeyUsers             = "users"
	KeyCustomerData      = "customerData"
	KeyAttendanceRecords = "attendanceRecords"
)

// ErrNotFound is returned by a Backend when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend stores raw slot values.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Slots serializes typed values into a Backend.
type Slots struct {
	backend Backend
	log     *logger.Logger
}

func New(backend Backend, log *logger.Logger) *Slots {
	if log == nil {
		log = logger.Nop()
	}
	return &Slots{backend: backend, log: log}
}

// Read decodes the slot at key into a T, falling back to def.
func Read[T any](ctx context.Context, s *Slots, key string, def T) T {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn(s.log.WithField(ctx, "slot", key), "storage.read_failed", err)
		}
		return def
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		s.log.Warn(s.log.WithField(ctx, "slot", key), "storage.decode_failed", err)
		return def
	}
	return value
}

// Write encodes value as JSON and stores it under key.
func (s *Slots) Write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding slot %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

func (s *Slots) Close() error {
	return s.backend.Close()
}
