package storage

import (
	"context"
	"database/sql"
	"fmt"

	"meal-planner/internal/pkg/common"

	"github.com/google/uuid"
)

// ConsumerStore persists consumers and their preference terms.
type ConsumerStore struct {
	db *DB
}

// NewConsumerStore creates a consumer store.
func NewConsumerStore(db *DB) *ConsumerStore {
	return &ConsumerStore{db: db}
}

// ExistsByID reports whether a consumer row exists.
func (s *ConsumerStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var one int
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT 1 FROM consumers WHERE id = ?`, id.String()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check consumer existence: %w", err)
	}
	return true, nil
}

// FindByEmail loads a consumer by email, or nil when unknown.
func (s *ConsumerStore) FindByEmail(ctx context.Context, email string) (*common.Consumer, error) {
	return s.findOne(ctx, `SELECT id, email, name, diet_type FROM consumers WHERE email = ?`, email)
}

// FindByID loads a consumer by id, or nil when unknown.
func (s *ConsumerStore) FindByID(ctx context.Context, id uuid.UUID) (*common.Consumer, error) {
	return s.findOne(ctx, `SELECT id, email, name, diet_type FROM consumers WHERE id = ?`, id.String())
}

func (s *ConsumerStore) findOne(ctx context.Context, query string, arg interface{}) (*common.Consumer, error) {
	var c common.Consumer
	var idStr string

	err := s.db.sql.QueryRowContext(ctx, query, arg).Scan(&idStr, &c.Email, &c.Name, &c.DietType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query consumer: %w", err)
	}

	if c.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse consumer id: %w", err)
	}

	if c.Allergies, err = s.loadTerms(ctx, "consumer_allergies", idStr); err != nil {
		return nil, err
	}
	if c.Dislikes, err = s.loadTerms(ctx, "consumer_dislikes", idStr); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *ConsumerStore) loadTerms(ctx context.Context, table, consumerID string) ([]string, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		fmt.Sprintf(`SELECT term FROM %s WHERE consumer_id = ? ORDER BY term`, table), consumerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	terms := []string{}
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// Save upserts a consumer and replaces its preference terms. A consumer with
// a zero id gets a fresh one assigned.
func (s *ConsumerStore) Save(ctx context.Context, c *common.Consumer) (*common.Consumer, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	tx, err := s.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO consumers (id, email, name, diet_type) VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET email = excluded.email, name = excluded.name, diet_type = excluded.diet_type
    `, c.ID.String(), c.Email, c.Name, c.DietType)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert consumer: %w", err)
	}

	for table, terms := range map[string][]string{
		"consumer_allergies": c.Allergies,
		"consumer_dislikes":  c.Dislikes,
	} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE consumer_id = ?`, table), c.ID.String()); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
		for _, term := range common.SortedTerms(terms) {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`INSERT INTO %s (consumer_id, term) VALUES (?, ?)`, table),
				c.ID.String(), term); err != nil {
				return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit consumer: %w", err)
	}
	return c, nil
}
