package artifact

import (
	"sync/atomic"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Holder publishes the serving model. Readers always see a whole snapshot;
// Swap replaces vectorizer, matrix and corpus together.
type Holder struct {
	p atomic.Pointer[Model]
}

// NewHolder creates a holder. m may be nil.
func NewHolder(m *Model) *Holder {
	h := &Holder{}
	if m != nil {
		h.p.Store(m)
	}
	return h
}

// Current returns the serving model or domain.ErrModelNotLoaded.
func (h *Holder) Current() (*Model, error) {
	m := h.p.Load()
	if m == nil {
		return nil, domain.ErrModelNotLoaded
	}
	return m, nil
}

// Swap publishes m and returns the previous snapshot (nil if none).
func (h *Holder) Swap(m *Model) *Model {
	return h.p.Swap(m)
}
