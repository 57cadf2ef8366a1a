package repositories

import (
	"context"

	"facture-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO clients(user_id, name, email, phone, address)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, deleted, created_at`,
		c.UserID, c.Name, c.Email, c.Phone, c.Address,
	).Scan(&c.ID, &c.Deleted, &c.CreatedAt)
}

func (r *ClientRepository) Get(ctx context.Context, userID, id int) (*models.Client, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, user_id, name, email, COALESCE(phone, '') as phone,
                COALESCE(address, '') as address, deleted, created_at
         FROM clients WHERE id=$1 AND user_id=$2`, id, userID)

	var client models.Client
	err := row.Scan(&client.ID, &client.UserID, &client.Name, &client.Email,
		&client.Phone, &client.Address, &client.Deleted, &client.CreatedAt)
	return &client, err
}

// ListActive returns the user's clients with deleted = false
func (r *ClientRepository) ListActive(ctx context.Context, userID int) ([]*models.Client, error) {
	return r.list(ctx, userID, false)
}

// ListTrashed returns the user's clients with deleted = true
func (r *ClientRepository) ListTrashed(ctx context.Context, userID int) ([]*models.Client, error) {
	return r.list(ctx, userID, true)
}

func (r *ClientRepository) list(ctx context.Context, userID int, deleted bool) ([]*models.Client, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, user_id, name, email, COALESCE(phone, '') as phone,
                COALESCE(address, '') as address, deleted, created_at
         FROM clients WHERE user_id=$1 AND deleted=$2 ORDER BY created_at DESC`,
		userID, deleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var client models.Client
		err := rows.Scan(&client.ID, &client.UserID, &client.Name, &client.Email,
			&client.Phone, &client.Address, &client.Deleted, &client.CreatedAt)
		if err != nil {
			return nil, err
		}
		clients = append(clients, &client)
	}
	return clients, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE clients SET name=$1, email=$2, phone=$3, address=$4
         WHERE id=$5 AND user_id=$6`,
		c.Name, c.Email, c.Phone, c.Address, c.ID, c.UserID)
	return err
}

// SoftDelete flags the client as deleted. Idempotent: flagging an already
// deleted client is a no-op.
func (r *ClientRepository) SoftDelete(ctx context.Context, userID, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE clients SET deleted=true WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// Restore clears the deleted flag. Idempotent.
func (r *ClientRepository) Restore(ctx context.Context, userID, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE clients SET deleted=false WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// PermanentlyDelete removes the client row regardless of its deleted flag
func (r *ClientRepository) PermanentlyDelete(ctx context.Context, userID, id int) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM clients WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// PurgeTrash removes every trashed client in one transaction. The set of
// ids is snapshotted first; clients trashed after the snapshot survive
// until the next purge. All-or-nothing: on failure nothing is removed.
func (r *ClientRepository) PurgeTrash(ctx context.Context, userID int) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT id FROM clients WHERE user_id=$1 AND deleted=true FOR UPDATE`, userID)
	if err != nil {
		return 0, err
	}

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, tx.Commit(ctx)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM clients WHERE user_id=$1 AND id=ANY($2)`, userID, ids)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}
