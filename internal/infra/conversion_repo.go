package infra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/speakfile/speakfile/internal/ports"
)

type conversionRepo struct {
	db *sql.DB
}

func NewConversionRepo(db *sql.DB) ports.ConversionRepo {
	return &conversionRepo{db: db}
}

func (r *conversionRepo) Create(ctx context.Context, c ports.Conversion) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO conversions
			(id, user_id, text_content, input_type, original_file_name, original_file_url,
			 audio_url, status, text_length, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id
	`,
		uuid.NewString(),
		c.UserID,
		c.Text,
		c.InputType,
		c.OriginalFileName,
		c.OriginalFileURL,
		c.AudioURL,
		c.Status,
		c.TextLength,
		c.CompletedAt,
	).Scan(&id)
	return id, err
}

func (r *conversionRepo) ListByUser(ctx context.Context, userID string) ([]ports.Conversion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, text_content, input_type, original_file_name, original_file_url,
		       audio_url, status, text_length, created_at, completed_at
		FROM conversions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversions []ports.Conversion
	for rows.Next() {
		var c ports.Conversion
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Text,
			&c.InputType,
			&c.OriginalFileName,
			&c.OriginalFileURL,
			&c.AudioURL,
			&c.Status,
			&c.TextLength,
			&c.CreatedAt,
			&c.CompletedAt,
		); err != nil {
			return nil, err
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return conversions, nil
}

func (r *conversionRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM conversions
		WHERE user_id = $1 AND id = $2
	`, userID, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ports.ErrRecordNotFound, id)
	}
	return nil
}
