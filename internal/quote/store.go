package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-telecom/backend-quote/internal/rating"
)

// ErrNotFound is returned when a saved quote does not exist.
var ErrNotFound = errors.New("quote not found")

// Record is a persisted quote: the exact input configuration and the totals
// that were presented, kept together for audit.
type Record struct {
	ID        string                  `json:"id"`
	CreatedAt time.Time               `json:"createdAt"`
	Config    rating.QuoteConfig      `json:"config"`
	Totals    rating.CalculatedTotals `json:"totals"`
}

// Store persists quotes.
type Store interface {
	Insert(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
}

// PGStore stores quotes in Postgres with config and totals as JSON documents.
type PGStore struct {
	Pool *pgxpool.Pool
}

// Insert writes a quote record.
func (s PGStore) Insert(ctx context.Context, rec Record) error {
	id, err := toUUID(rec.ID)
	if err != nil {
		return fmt.Errorf("quote id: %w", err)
	}
	config, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	totals, err := json.Marshal(rec.Totals)
	if err != nil {
		return fmt.Errorf("encode totals: %w", err)
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO quotes (id, created_at, config, totals)
		VALUES ($1, $2, $3, $4)`,
		id, rec.CreatedAt, config, totals)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// Get loads a quote by id.
func (s PGStore) Get(ctx context.Context, id string) (Record, error) {
	pgID, err := toUUID(id)
	if err != nil {
		return Record{}, ErrNotFound
	}
	var (
		rec    Record
		rowID  pgtype.UUID
		config []byte
		totals []byte
	)
	err = s.Pool.QueryRow(ctx, `
		SELECT id, created_at, config, totals
		FROM quotes
		WHERE id = $1`, pgID).Scan(&rowID, &rec.CreatedAt, &config, &totals)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("get quote: %w", err)
	}
	rec.ID = uuidString(rowID)
	if err := json.Unmarshal(config, &rec.Config); err != nil {
		return Record{}, fmt.Errorf("decode config: %w", err)
	}
	if err := json.Unmarshal(totals, &rec.Totals); err != nil {
		return Record{}, fmt.Errorf("decode totals: %w", err)
	}
	return rec, nil
}

func toUUID(value string) (pgtype.UUID, error) {
	var id pgtype.UUID
	if err := id.Scan(value); err != nil {
		return pgtype.UUID{}, err
	}
	return id, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	u, err := uuid.FromBytes(id.Bytes[:])
	if err != nil {
		return ""
	}
	return u.String()
}
