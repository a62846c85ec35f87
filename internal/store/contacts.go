package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/outreach/internal/model"
)

const listContacts = `SELECT sno::text, email, company FROM contacts`

type ContactStore struct {
	pool *pgxpool.Pool
}

func NewContactStore(pool *pgxpool.Pool) *ContactStore {
	return &ContactStore{pool: pool}
}

// All reads every contact row. sno is cast to text because legacy imports
// store it as varchar; it must still parse as an integer.
func (s *ContactStore) All(ctx context.Context) ([]model.Contact, error) {
	rows, err := s.pool.Query(ctx, listContacts)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	return collectContacts(rows)
}

// collectContacts converts (sno, email, company) rows into contacts.
func collectContacts(rows pgx.Rows) ([]model.Contact, error) {
	contacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Contact, error) {
		var (
			sno     string
			email   string
			company *string
		)
		if err := row.Scan(&sno, &email, &company); err != nil {
			return model.Contact{}, err
		}
		n, err := parseOrdinal(sno)
		if err != nil {
			return model.Contact{}, err
		}
		c := model.Contact{Ordinal: n, Email: email}
		if company != nil {
			c.Organization = *company
		}
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}
	return contacts, nil
}
