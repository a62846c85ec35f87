// Package directory holds the contact directory: the read-only list of
// recipients a batch is selected from.
package directory

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/outreach/internal/model"
	"github.com/outreach/internal/store"
)

// LoadError reports a directory source that is missing or malformed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("directory: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Directory is an immutable set of contacts. It is safe for concurrent use.
type Directory struct {
	contacts []model.Contact
}

// New returns a Directory holding a copy of contacts.
func New(contacts []model.Contact) *Directory {
	c := make([]model.Contact, len(contacts))
	copy(c, contacts)
	return &Directory{contacts: c}
}

// All returns the contacts in load order. The returned slice is a copy.
func (d *Directory) All() []model.Contact {
	c := make([]model.Contact, len(d.contacts))
	copy(c, d.contacts)
	return c
}

// Len returns the number of loaded contacts.
func (d *Directory) Len() int {
	return len(d.contacts)
}

// Load reads a directory from source. A source is either a local file path,
// an s3://bucket/key URL or a postgres:// connection string. The file format
// is taken from the path extension.
func Load(ctx context.Context, source string) (*Directory, error) {
	contacts, err := load(ctx, source)
	if err != nil {
		return nil, &LoadError{Source: redactSource(source), Err: err}
	}
	return New(contacts), nil
}

func load(ctx context.Context, source string) ([]model.Contact, error) {
	switch {
	case source == "":
		return nil, fmt.Errorf("no source configured")
	case strings.HasPrefix(source, "s3://"):
		return loadS3(ctx, source)
	case strings.HasPrefix(source, "postgres://"), strings.HasPrefix(source, "postgresql://"):
		return loadPostgres(ctx, source)
	}

	format, err := FormatFromPath(source)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f, format)
}

func loadPostgres(ctx context.Context, dsn string) ([]model.Contact, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	return store.NewContactStore(pool).All(ctx)
}

// redactSource strips credentials from connection strings before they end
// up in error messages.
func redactSource(source string) string {
	scheme, rest, ok := strings.Cut(source, "://")
	if !ok {
		return source
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return source
}
