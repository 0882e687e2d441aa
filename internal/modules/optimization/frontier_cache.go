package optimization

import (
	"database/sql"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// FrontierCache persists computed frontiers keyed by a fingerprint of the
// asset set and constraints. Entries are invalidated by age: a universe
// refresh produces new statistics only after the TTL has elapsed anyway, and
// stale frontiers are recomputed on demand.
type FrontierCache struct {
	db  *sql.DB
	ttl time.Duration
	log zerolog.Logger
}

// NewFrontierCache creates a frontier cache with the given entry lifetime.
func NewFrontierCache(db *sql.DB, ttl time.Duration, log zerolog.Logger) *FrontierCache {
	return &FrontierCache{
		db:  db,
		ttl: ttl,
		log: log.With().Str("component", "frontier_cache").Logger(),
	}
}

// Key fingerprints a frontier request: the ordered asset set, the constraint
// values and the point count.
func (c *FrontierCache) Key(symbols []string, constraints Constraints, points int) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)

	h := fnv.New64a()
	for _, s := range sorted {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	fmt.Fprintf(h, "%g|%g|%g|%d|%t|%s|%d|%d|%d",
		constraints.MinWeight, constraints.MaxWeight, constraints.MaxSingleAsset,
		constraints.MinDiversification, constraints.ShariaOnly, constraints.MarketPreference,
		constraints.MinRiskLevel, constraints.MaxRiskLevel, points)

	return fmt.Sprintf("frontier:%x", h.Sum64())
}

// Get returns the cached frontier for a key, or (nil, false) on a miss or an
// expired entry.
func (c *FrontierCache) Get(key string) ([]FrontierPoint, bool, error) {
	var payload []byte
	var createdAt int64

	err := c.db.QueryRow(
		`SELECT payload, created_at FROM frontier_cache WHERE cache_key = ?`, key,
	).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read frontier cache: %w", err)
	}

	if time.Since(time.Unix(createdAt, 0)) > c.ttl {
		return nil, false, nil
	}

	var points []FrontierPoint
	if err := msgpack.Unmarshal(payload, &points); err != nil {
		// A corrupt entry is treated as a miss and overwritten on Put.
		c.log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return nil, false, nil
	}

	return points, true, nil
}

// Put stores a computed frontier, replacing any previous entry for the key.
func (c *FrontierCache) Put(key string, points []FrontierPoint) error {
	payload, err := msgpack.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to encode frontier: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO frontier_cache (cache_key, payload, created_at)
		VALUES (?, ?, ?)
	`, key, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write frontier cache: %w", err)
	}

	return nil
}

// Purge removes entries older than the TTL.
func (c *FrontierCache) Purge() error {
	cutoff := time.Now().Add(-c.ttl).Unix()
	res, err := c.db.Exec(`DELETE FROM frontier_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge frontier cache: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		c.log.Debug().Int64("entries", n).Msg("Purged expired frontier cache entries")
	}
	return nil
}
