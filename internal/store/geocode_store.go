package store

import (
	"context"
	"database/sql"
	"fmt"
)

// GeocodeStore persists resolved addresses between extraction runs so that
// re-running the batch does not hit the geocoding service again.
type GeocodeStore struct {
	db *sql.DB
}

func NewGeocodeStore(db *sql.DB) *GeocodeStore {
	return &GeocodeStore{db: db}
}

// Get returns the cached address for key. found is false on a miss.
func (s *GeocodeStore) Get(ctx context.Context, key string) (address string, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT address FROM geocode_cache WHERE cache_key = ?
	`, key).Scan(&address)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cached address: %w", err)
	}
	return address, true, nil
}

func (s *GeocodeStore) Put(ctx context.Context, key string, lat, lon float64, address string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (cache_key, latitude, longitude, address) VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET address = excluded.address, resolved_at = CURRENT_TIMESTAMP
	`, key, lat, lon, address)
	if err != nil {
		return fmt.Errorf("failed to cache address: %w", err)
	}
	return nil
}
