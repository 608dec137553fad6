package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
)

type staffRepository struct {
	db *DB
}

func NewStaffRepository(db *DB) user.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (user.StaffProfile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.staff[id]
	if !ok {
		return user.StaffProfile{}, user.ErrStaffNotFound
	}
	return p, nil
}

func (r *staffRepository) ListActiveByStore(ctx context.Context, storeID string) ([]user.StaffProfile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []user.StaffProfile
	for _, p := range r.db.staff {
		if p.StoreID == storeID && p.IsEmployed() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
