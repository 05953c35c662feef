package crm

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces surrogate ids such as "user-<suffix>".
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator suffixes ids with a random UUID.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequenceGenerator suffixes ids with a process-wide counter. Ids are only
// unique for the lifetime of one generator.
type SequenceGenerator struct {
	n atomic.Int64
}

func (g *SequenceGenerator) NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, g.n.Add(1))
}
