package repository

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 直近 capacity 件だけ持つ
type ClientErrorMemoryRepository struct {
	mu       sync.Mutex
	capacity int
	seq      int64
	items    []model.ClientErrorReport
	now      func() time.Time
}

func NewClientErrorMemoryRepository(capacity int) *ClientErrorMemoryRepository {
	if capacity <= 0 {
		capacity = 1000
	}
	return &ClientErrorMemoryRepository{capacity: capacity, now: time.Now}
}

var _ repo.ClientErrorRepository = (*ClientErrorMemoryRepository)(nil)

func (r *ClientErrorMemoryRepository) Create(_ context.Context, report *model.ClientErrorReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	report.ID = r.seq
	if report.CreatedAt.IsZero() {
		report.CreatedAt = r.now()
	}
	r.items = append(r.items, *report)
	if len(r.items) > r.capacity {
		r.items = r.items[len(r.items)-r.capacity:]
	}
	return nil
}

func (r *ClientErrorMemoryRepository) List(_ context.Context, filter repo.ClientErrorFilter) ([]model.ClientErrorReport, error) {
	filter = filter.Normalize()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.ClientErrorReport{}
	skipped := 0
	for i := len(r.items) - 1; i >= 0 && len(out) < filter.Limit; i-- {
		it := r.items[i]
		if filter.Device != nil && it.Device != *filter.Device {
			continue
		}
		if filter.Component != nil && it.Component != *filter.Component {
			continue
		}
		if filter.CreatedFrom != nil && it.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
