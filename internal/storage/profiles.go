package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gigurra/cashflow-forecast/internal"
)

// SaveProfile inserts the profile or replaces the stored one with the same user id.
func (s *Store) SaveProfile(ctx context.Context, p internal.Profile) error {
	if p.UserID == "" {
		return fmt.Errorf("profile has no user id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_finances (user_id, university, current_balance, savings, weekly_spend_band, weekly_spend, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			university = excluded.university,
			current_balance = excluded.current_balance,
			savings = excluded.savings,
			weekly_spend_band = excluded.weekly_spend_band,
			weekly_spend = excluded.weekly_spend,
			currency = excluded.currency,
			updated_at = CURRENT_TIMESTAMP`,
		p.UserID, p.University, string(p.CurrentBalance), string(p.Savings),
		p.WeeklySpendBand, string(p.WeeklySpend), p.Currency)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile returns the stored profile, or nil if the user has none.
func (s *Store) GetProfile(ctx context.Context, userID string) (*internal.Profile, error) {
	var p internal.Profile
	var balance, savings, weekly string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, university, current_balance, savings, weekly_spend_band, weekly_spend, currency
		FROM user_finances WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.University, &balance, &savings, &p.WeeklySpendBand, &weekly, &p.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.CurrentBalance = internal.Amount(balance)
	p.Savings = internal.Amount(savings)
	p.WeeklySpend = internal.Amount(weekly)
	return &p, nil
}
