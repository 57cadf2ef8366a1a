package repositories

import (
	"context"
	"fmt"

	"facture-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	DB *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// GetOrCreate returns the user's company profile, creating it with default
// placeholder values on first access.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID int) (*models.CompanyProfile, error) {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO company_profiles(user_id, name, address)
         VALUES($1, $2, $3)
         ON CONFLICT (user_id) DO NOTHING`,
		userID, models.DefaultProfileName, models.DefaultProfileAddress)
	if err != nil {
		return nil, err
	}

	row := r.DB.QueryRow(ctx,
		`SELECT user_id, name, address, logo_url, invoice_counter, created_at, updated_at
         FROM company_profiles WHERE user_id=$1`, userID)

	var p models.CompanyProfile
	err = row.Scan(&p.UserID, &p.Name, &p.Address, &p.LogoURL, &p.InvoiceCounter,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

// Update edits the display fields. The invoice counter is only ever touched
// by AllocateInvoiceNumber.
func (r *ProfileRepository) Update(ctx context.Context, userID int, req *models.UpdateProfileRequest) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE company_profiles SET name=$1, address=$2, logo_url=$3, updated_at=CURRENT_TIMESTAMP
         WHERE user_id=$4`,
		req.Name, req.Address, req.LogoURL, userID)
	return err
}

func (r *ProfileRepository) UpdateLogo(ctx context.Context, userID int, logoURL string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE company_profiles SET logo_url=$1, updated_at=CURRENT_TIMESTAMP WHERE user_id=$2`,
		logoURL, userID)
	return err
}

// AllocateInvoiceNumber atomically increments the user's invoice counter
// and returns the new value. The row is locked with SELECT ... FOR UPDATE
// so two concurrent allocations can never observe the same counter. A
// missing profile is created inside the same transaction, so the first
// allocation for a fresh account returns 1.
func (r *ProfileRepository) AllocateInvoiceNumber(ctx context.Context, userID int) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO company_profiles(user_id, name, address)
         VALUES($1, $2, $3)
         ON CONFLICT (user_id) DO NOTHING`,
		userID, models.DefaultProfileName, models.DefaultProfileAddress)
	if err != nil {
		return 0, err
	}

	var counter int
	err = tx.QueryRow(ctx,
		`SELECT invoice_counter FROM company_profiles WHERE user_id=$1 FOR UPDATE`,
		userID,
	).Scan(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to read invoice counter: %w", err)
	}

	counter++

	_, err = tx.Exec(ctx,
		`UPDATE company_profiles SET invoice_counter=$1, updated_at=CURRENT_TIMESTAMP
         WHERE user_id=$2`,
		counter, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to write invoice counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return counter, nil
}
