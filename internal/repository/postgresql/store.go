package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
)

type storeRepository struct {
	db *database.DB
}

func NewStoreRepository(db *database.DB) store.StoreRepository {
	return &storeRepository{db: db}
}

const storeColumns = `
	id, name, latitude, longitude, radius_meters, shift_start, shift_end, timezone,
	attendance_frozen, late_fine_amount, perfect_attendance_bonus, grace_period_minutes,
	max_leaves_per_month, created_at, updated_at`

func scanStore(row pgx.Row) (store.Store, error) {
	var (
		s          store.Store
		fine       decimal.NullDecimal
		bonus      decimal.NullDecimal
		shiftStart *string
		shiftEnd   *string
		timezone   *string
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.RadiusMeters, &shiftStart, &shiftEnd, &timezone,
		&s.AttendanceFrozen, &fine, &bonus, &s.Overrides.GracePeriodMinutes,
		&s.Overrides.MaxLeavesPerMonth, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return store.Store{}, err
	}

	if shiftStart != nil {
		s.ShiftStart = *shiftStart
	}
	if shiftEnd != nil {
		s.ShiftEnd = *shiftEnd
	}
	if timezone != nil {
		s.Timezone = *timezone
	}
	if fine.Valid {
		s.Overrides.LateFineAmount = &fine.Decimal
	}
	if bonus.Valid {
		s.Overrides.PerfectAttendanceBonus = &bonus.Decimal
	}
	return s, nil
}

// GetByID implements store.StoreRepository.
func (r *storeRepository) GetByID(ctx context.Context, id string) (store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`

	s, err := scanStore(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return store.Store{}, store.ErrStoreNotFound
		}
		return store.Store{}, fmt.Errorf("failed to get store: %w", err)
	}

	holidays, err := r.holidays(ctx, []string{id})
	if err != nil {
		return store.Store{}, err
	}
	s.Holidays = holidays[id]
	return s, nil
}

// List implements store.StoreRepository.
func (r *storeRepository) List(ctx context.Context) ([]store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + storeColumns + ` FROM stores ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var stores []store.Store
	var ids []string
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stores: %w", err)
	}

	holidays, err := r.holidays(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range stores {
		stores[i].Holidays = holidays[stores[i].ID]
	}
	return stores, nil
}

func (r *storeRepository) holidays(ctx context.Context, storeIDs []string) (map[string][]store.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT store_id, holiday_date::text, description
		FROM store_holidays
		WHERE store_id = ANY($1)
		ORDER BY holiday_date
	`

	rows, err := q.Query(ctx, query, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]store.Holiday, len(storeIDs))
	for rows.Next() {
		var storeID string
		var h store.Holiday
		if err := rows.Scan(&storeID, &h.Date, &h.Description); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		out[storeID] = append(out[storeID], h)
	}
	return out, rows.Err()
}

// Update implements store.StoreRepository.
func (r *storeRepository) Update(ctx context.Context, s store.Store) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		var fine, bonus decimal.NullDecimal
		if s.Overrides.LateFineAmount != nil {
			fine = decimal.NewNullDecimal(*s.Overrides.LateFineAmount)
		}
		if s.Overrides.PerfectAttendanceBonus != nil {
			bonus = decimal.NewNullDecimal(*s.Overrides.PerfectAttendanceBonus)
		}

		query := `
			UPDATE stores SET
				name = $2, latitude = $3, longitude = $4, radius_meters = $5,
				shift_start = NULLIF($6, ''), shift_end = NULLIF($7, ''), timezone = NULLIF($8, ''),
				attendance_frozen = $9, late_fine_amount = $10, perfect_attendance_bonus = $11,
				grace_period_minutes = $12, max_leaves_per_month = $13, updated_at = NOW()
			WHERE id = $1
		`
		tag, err := q.Exec(txCtx, query,
			s.ID, s.Name, s.Latitude, s.Longitude, s.RadiusMeters,
			s.ShiftStart, s.ShiftEnd, s.Timezone,
			s.AttendanceFrozen, fine, bonus,
			s.Overrides.GracePeriodMinutes, s.Overrides.MaxLeavesPerMonth,
		)
		if err != nil {
			return fmt.Errorf("failed to update store: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrStoreNotFound
		}

		if _, err := q.Exec(txCtx, `DELETE FROM store_holidays WHERE store_id = $1`, s.ID); err != nil {
			return fmt.Errorf("failed to clear holidays: %w", err)
		}

		if len(s.Holidays) == 0 {
			return nil
		}

		dates := make([]string, 0, len(s.Holidays))
		descriptions := make([]string, 0, len(s.Holidays))
		for _, h := range s.Holidays {
			dates = append(dates, h.Date)
			descriptions = append(descriptions, h.Description)
		}

		insert := `
			INSERT INTO store_holidays (store_id, holiday_date, description)
			SELECT $1, d::date, t
			FROM unnest($2::text[], $3::text[]) AS h(d, t)
			ON CONFLICT (store_id, holiday_date) DO NOTHING
		`
		if _, err := q.Exec(txCtx, insert, s.ID, dates, descriptions); err != nil {
			return fmt.Errorf("failed to insert holidays: %w", err)
		}
		return nil
	})
}
