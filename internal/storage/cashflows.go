package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gigurra/cashflow-forecast/internal"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// InsertCashflows stores records for userID in a single transaction, giving
// each a new id. The stored records are returned.
func (s *Store) InsertCashflows(ctx context.Context, userID string, records []internal.CashflowRecord) ([]internal.CashflowRecord, error) {
	return s.writeCashflows(ctx, userID, records, false)
}

// ReplaceCashflows deletes every record of userID and stores records in their
// place, in a single transaction.
func (s *Store) ReplaceCashflows(ctx context.Context, userID string, records []internal.CashflowRecord) ([]internal.CashflowRecord, error) {
	return s.writeCashflows(ctx, userID, records, true)
}

func (s *Store) writeCashflows(ctx context.Context, userID string, records []internal.CashflowRecord, replace bool) ([]internal.CashflowRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cashflow_forecast WHERE user_id = ?`, userID); err != nil {
			return nil, fmt.Errorf("failed to clear cashflows: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cashflow_forecast (id, user_id, direction, category, title, amount, currency, recurrence, scheduled_date, end_date, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	stored := make([]internal.CashflowRecord, 0, len(records))
	for _, r := range records {
		r.ID = uuid.New().String()
		r.UserID = userID
		if _, err := stmt.ExecContext(ctx, r.ID, r.UserID, r.Direction, r.Category, r.Title,
			string(r.Amount), r.Currency, r.Recurrence, r.ScheduledDate, r.EndDate, r.Source); err != nil {
			return nil, fmt.Errorf("failed to insert cashflow %q: %w", r.Title, err)
		}
		stored = append(stored, r)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cashflows: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user":     userID,
		"count":    len(stored),
		"replaced": replace,
	}).Debug("Stored cashflows")
	return stored, nil
}

// ListCashflows returns the user's records ordered by scheduled date.
func (s *Store) ListCashflows(ctx context.Context, userID string) ([]internal.CashflowRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, direction, category, title, amount, currency, recurrence, scheduled_date, end_date, source
		FROM cashflow_forecast
		WHERE user_id = ?
		ORDER BY scheduled_date, created_at, rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cashflows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []internal.CashflowRecord
	for rows.Next() {
		var r internal.CashflowRecord
		var amount string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Direction, &r.Category, &r.Title,
			&amount, &r.Currency, &r.Recurrence, &r.ScheduledDate, &r.EndDate, &r.Source); err != nil {
			return nil, fmt.Errorf("failed to scan cashflow: %w", err)
		}
		r.Amount = internal.Amount(amount)
		records = append(records, r)
	}
	return records, rows.Err()
}

// FetchUserData loads the profile and cashflows for userID. A missing profile
// is not an error; the returned Profile is nil.
func (s *Store) FetchUserData(ctx context.Context, userID string) (internal.UserData, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return internal.UserData{}, err
	}
	records, err := s.ListCashflows(ctx, userID)
	if err != nil {
		return internal.UserData{}, err
	}
	return internal.UserData{Profile: profile, Cashflows: records}, nil
}

// UpdateCashflow replaces the stored fields of the record with the given id.
// The record's owner and id are kept.
func (s *Store) UpdateCashflow(ctx context.Context, id string, r internal.CashflowRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cashflow_forecast SET
			direction = ?, category = ?, title = ?, amount = ?, currency = ?,
			recurrence = ?, scheduled_date = ?, end_date = ?, source = ?
		WHERE id = ?`,
		r.Direction, r.Category, r.Title, string(r.Amount), r.Currency,
		r.Recurrence, r.ScheduledDate, r.EndDate, r.Source, id)
	if err != nil {
		return fmt.Errorf("failed to update cashflow: %w", err)
	}
	return expectOneRow(res, id)
}

// DeleteCashflow removes the record with the given id.
func (s *Store) DeleteCashflow(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cashflow_forecast WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cashflow: %w", err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("cashflow %s: %w", id, ErrNotFound)
	}
	return nil
}
