package geocode

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fieldservice-booking/internal/domain"
)

// SQLite backed cache mapping address strings to resolved locations.
// Address keys are expected to be normalized by the caller.
type SqliteCoordinateCache struct {
	DB *sql.DB
}

func NewSqliteCoordinateCache(db *sql.DB) *SqliteCoordinateCache {
	return &SqliteCoordinateCache{DB: db}
}

// Get fetches the cached location for an address. The second return
// is false on a miss.
func (s *SqliteCoordinateCache) Get(ctx context.Context, address string) (domain.Location, bool, error) {
	if s.DB == nil {
		return domain.Location{}, false, errors.New("coordinate cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return domain.Location{}, false, errors.New("get coordinate cache: address must not be empty")
	}

	q := `
	SELECT lat, lng, postal_code
	FROM geocode_cache
	WHERE address = ?;
	`

	var lat, lng float64
	var postalCode string
	err := s.DB.QueryRowContext(ctx, q, address).Scan(&lat, &lng, &postalCode)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, false, nil
	}
	if err != nil {
		return domain.Location{}, false, fmt.Errorf("get coordinate cache: query geocode_cache table: %w", err)
	}

	return domain.Location{
		Lat:        lat,
		Lng:        lng,
		Address:    address,
		PostalCode: postalCode,
	}, true, nil
}

// Put stores an address -> location mapping.
func (s *SqliteCoordinateCache) Put(ctx context.Context, address string, loc domain.Location) error {
	if s.DB == nil {
		return errors.New("coordinate cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return errors.New("insert coordinate cache: address must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (
		address,
		lat,
		lng,
		postal_code
	)
	VALUES (?, ?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, address, loc.Lat, loc.Lng, loc.PostalCode); err != nil {
		return fmt.Errorf("insert coordinate cache address=%q: %w", address, err)
	}

	return nil
}
