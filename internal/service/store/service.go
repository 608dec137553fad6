package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

type StoreServiceImpl struct {
	storeRepo store.StoreRepository
	policy    store.Policy
}

func NewStoreService(storeRepo store.StoreRepository, policy store.Policy) store.StoreService {
	return &StoreServiceImpl{
		storeRepo: storeRepo,
		policy:    policy,
	}
}

func (s *StoreServiceImpl) ListStores(ctx context.Context) ([]store.StoreResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !user.HasPermission(principal.Role(), user.PermissionStoreView) {
		return nil, user.ErrForbidden
	}

	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	responses := make([]store.StoreResponse, 0, len(stores))
	for _, st := range stores {
		if principal.CanManageStore(st.ID) {
			responses = append(responses, s.toResponse(st))
		}
	}
	return responses, nil
}

func (s *StoreServiceImpl) GetStore(ctx context.Context, id string) (store.StoreResponse, error) {
	if !validator.IsValidUUID(id) {
		return store.StoreResponse{}, validator.ValidationErrors{{Field: "store_id", Message: "store_id must be a valid UUID"}}
	}
	if _, err := user.RequireStoreManager(ctx, id); err != nil {
		return store.StoreResponse{}, err
	}

	st, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return store.StoreResponse{}, err
	}
	return s.toResponse(st), nil
}

func (s *StoreServiceImpl) SetAttendanceFrozen(ctx context.Context, req store.FreezeRequest) (store.StoreResponse, error) {
	if err := req.Validate(); err != nil {
		return store.StoreResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return store.StoreResponse{}, err
	}
	if !user.HasPermission(principal.Role(), user.PermissionStoreFreeze) {
		return store.StoreResponse{}, user.ErrForbidden
	}

	st, err := s.storeRepo.GetByID(ctx, req.StoreID)
	if err != nil {
		return store.StoreResponse{}, err
	}

	st.AttendanceFrozen = *req.Frozen
	if err := s.storeRepo.Update(ctx, st); err != nil {
		return store.StoreResponse{}, fmt.Errorf("failed to update store: %w", err)
	}

	slog.Info("Store attendance freeze changed", "store_id", st.ID, "frozen", st.AttendanceFrozen, "changed_by", principal.PrincipalID())
	return s.reload(ctx, st.ID)
}

func (s *StoreServiceImpl) ReplaceHolidays(ctx context.Context, req store.UpdateHolidaysRequest) (store.StoreResponse, error) {
	if err := req.Validate(); err != nil {
		return store.StoreResponse{}, err
	}

	st, err := s.managedStore(ctx, req.StoreID)
	if err != nil {
		return store.StoreResponse{}, err
	}

	holidays := make([]store.Holiday, 0, len(req.Holidays))
	for _, h := range req.Holidays {
		holidays = append(holidays, store.Holiday{Date: h.Date, Description: h.Description})
	}
	sortHolidays(holidays)
	st.Holidays = holidays

	if err := s.storeRepo.Update(ctx, st); err != nil {
		return store.StoreResponse{}, fmt.Errorf("failed to update holidays: %w", err)
	}
	return s.reload(ctx, st.ID)
}

func (s *StoreServiceImpl) ImportHolidays(ctx context.Context, storeID string, calendar io.Reader) (store.ImportHolidaysResponse, error) {
	if !validator.IsValidUUID(storeID) {
		return store.ImportHolidaysResponse{}, validator.ValidationErrors{{Field: "store_id", Message: "store_id must be a valid UUID"}}
	}

	st, err := s.managedStore(ctx, storeID)
	if err != nil {
		return store.ImportHolidaysResponse{}, err
	}

	parsed, skipped, err := ParseHolidayCalendar(calendar)
	if err != nil {
		return store.ImportHolidaysResponse{}, err
	}

	existing := st.HolidaySet()
	imported := 0
	for _, h := range parsed {
		if _, dup := existing[h.Date]; dup {
			skipped++
			continue
		}
		st.Holidays = append(st.Holidays, h)
		imported++
	}

	if imported > 0 {
		sortHolidays(st.Holidays)
		if err := s.storeRepo.Update(ctx, st); err != nil {
			return store.ImportHolidaysResponse{}, fmt.Errorf("failed to update holidays: %w", err)
		}
	}

	resp, err := s.reload(ctx, st.ID)
	if err != nil {
		return store.ImportHolidaysResponse{}, err
	}

	slog.Info("Holidays imported", "store_id", st.ID, "imported", imported, "skipped", skipped)
	return store.ImportHolidaysResponse{Imported: imported, Skipped: skipped, Store: resp}, nil
}

func (s *StoreServiceImpl) managedStore(ctx context.Context, storeID string) (store.Store, error) {
	principal, err := user.RequireStoreManager(ctx, storeID)
	if err != nil {
		return store.Store{}, err
	}
	if !user.HasPermission(principal.Role(), user.PermissionStoreHolidays) {
		return store.Store{}, user.ErrForbidden
	}
	return s.storeRepo.GetByID(ctx, storeID)
}

func (s *StoreServiceImpl) reload(ctx context.Context, id string) (store.StoreResponse, error) {
	st, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return store.StoreResponse{}, err
	}
	return s.toResponse(st), nil
}

func (s *StoreServiceImpl) toResponse(st store.Store) store.StoreResponse {
	p := st.EffectivePolicy(s.policy)

	holidays := make([]store.HolidayDTO, 0, len(st.Holidays))
	for _, h := range st.Holidays {
		holidays = append(holidays, store.HolidayDTO{Date: h.Date, Description: h.Description})
	}

	return store.StoreResponse{
		ID:               st.ID,
		Name:             st.Name,
		Latitude:         st.Latitude,
		Longitude:        st.Longitude,
		RadiusMeters:     st.GeofenceRadius(p),
		AttendanceFrozen: st.AttendanceFrozen,
		Holidays:         holidays,
		Policy: store.PolicyResponse{
			LateFineAmount:         p.LateFineAmount.StringFixed(2),
			PerfectAttendanceBonus: p.PerfectAttendanceBonus.StringFixed(2),
			GracePeriodMinutes:     p.GracePeriodMinutes,
			MaxLeavesPerMonth:      p.MaxLeavesPerMonth,
			DefaultRadiusMeters:    p.DefaultRadiusMeters,
			ShiftStart:             p.ShiftStart,
			ShiftEnd:               p.ShiftEnd,
			Timezone:               p.Timezone,
		},
		UpdatedAt: st.UpdatedAt.Format(time.RFC3339),
	}
}

func sortHolidays(holidays []store.Holiday) {
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date < holidays[j].Date })
}
