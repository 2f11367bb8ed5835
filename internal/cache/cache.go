// Package cache persists parse results and catalog candidate lists in a
// local SQLite database so repeated runs over the same library avoid
// re-parsing filenames and re-querying the external catalog.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Nomadcxx/jellymatch/internal/matcher"
	"github.com/Nomadcxx/jellymatch/internal/parser"
)

// DefaultCandidateTTL is how long cached catalog candidate lists stay fresh.
const DefaultCandidateTTL = 7 * 24 * time.Hour

// Store wraps the SQLite cache database.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string, ttl time.Duration) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating cache database: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultCandidateTTL
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS parsed (
		filename_hash TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS candidates (
		search_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_candidates_created ON candidates(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// FilenameKey returns the cache key for a raw filename.
func FilenameKey(filename string) string {
	sum := sha256.Sum256([]byte(filename))
	return hex.EncodeToString(sum[:])
}

// SearchKey returns the cache key for a catalog search. Titles are
// normalized before hashing so trivially different spellings share an entry.
func SearchKey(title string, year int) string {
	return matcher.NormalizeTitle(title) + "|" + strconv.Itoa(year)
}

// GetParsed returns the cached parse for a filename, or nil when absent.
func (s *Store) GetParsed(filename string) (*parser.ParsedMedia, error) {
	var payload string
	err := s.db.QueryRow(
		"SELECT payload FROM parsed WHERE filename_hash = ?",
		FilenameKey(filename),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var parsed parser.ParsedMedia
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("decoding cached parse: %w", err)
	}
	return &parsed, nil
}

// PutParsed stores a parse result keyed by its raw filename.
func (s *Store) PutParsed(filename string, parsed *parser.ParsedMedia) error {
	payload, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("encoding parse: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO parsed (filename_hash, filename, payload, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(filename_hash) DO UPDATE SET payload=excluded.payload, created_at=excluded.created_at`,
		FilenameKey(filename), filename, string(payload), time.Now().UTC(),
	)
	return err
}

// GetCandidates returns the cached candidate list for a search, or nil when
// absent or expired. Expired rows are deleted on read.
func (s *Store) GetCandidates(title string, year int) ([]matcher.CandidateRecord, bool, error) {
	key := SearchKey(title, year)

	var payload string
	var createdAt time.Time
	err := s.db.QueryRow(
		"SELECT payload, created_at FROM candidates WHERE search_key = ?", key,
	).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if time.Since(createdAt) > s.ttl {
		if _, err := s.db.Exec("DELETE FROM candidates WHERE search_key = ?", key); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	var records []matcher.CandidateRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, false, fmt.Errorf("decoding cached candidates: %w", err)
	}
	return records, true, nil
}

// PutCandidates stores a candidate list for a search. Empty lists are cached
// too so a fruitless search is not repeated within the TTL.
func (s *Store) PutCandidates(title string, year int, records []matcher.CandidateRecord) error {
	if records == nil {
		records = []matcher.CandidateRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding candidates: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO candidates (search_key, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(search_key) DO UPDATE SET payload=excluded.payload, created_at=excluded.created_at`,
		SearchKey(title, year), string(payload), time.Now().UTC(),
	)
	return err
}

// Prune deletes expired candidate rows. Parse rows never expire.
func (s *Store) Prune() (int64, error) {
	res, err := s.db.Exec(
		"DELETE FROM candidates WHERE created_at < ?",
		time.Now().UTC().Add(-s.ttl),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats reports cache row counts.
type Stats struct {
	Parsed     int
	Candidates int
}

// GetStats returns statistics about the cache.
func (s *Store) GetStats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow("SELECT COUNT(*) FROM parsed").Scan(&st.Parsed); err != nil {
		return st, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM candidates").Scan(&st.Candidates); err != nil {
		return st, err
	}
	return st, nil
}
