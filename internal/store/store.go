// Package store records privacy-conscious visitor metrics in SQLite: visits
// keyed by a salted IP hash and clicks on outbound profile links.
package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Visit is one tracked page request.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Section   string    `json:"section,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// LinkStat counts clicks on one outbound link.
type LinkStat struct {
	Name        string    `json:"name"`
	Clicks      int64     `json:"clicks"`
	LastClicked time.Time `json:"last_clicked"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisits    int64            `json:"total_visits"`
	UniqueVisitors int64            `json:"unique_visitors"`
	VisitsToday    int64            `json:"visits_today"`
	VisitsThisWeek int64            `json:"visits_this_week"`
	TotalClicks    int64            `json:"total_clicks"`
	SectionViews   map[string]int64 `json:"section_views"`
	TopLinks       []LinkStat       `json:"top_links"`
	RecentVisits   []Visit          `json:"recent_visits"`
}

// Store wraps the metrics database.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	salt, err := randomHex(32)
	if err != nil {
		db.Close()
		return nil, err
	}
	s := &Store{db: db, salt: salt, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hashed_ip TEXT NOT NULL,
			user_agent TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL DEFAULT '',
			section TEXT NOT NULL DEFAULT '',
			ts INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS visits_ts ON visits (ts)`,
		`CREATE TABLE IF NOT EXISTS link_clicks (
			name TEXT PRIMARY KEY,
			clicks INTEGER NOT NULL DEFAULT 0,
			last_clicked INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// HashIP returns a salted, truncated SHA-256 of ip. The salt lives only in
// memory, so hashes are stable for the life of the process and unlinkable
// across restarts.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RecordVisit stores v. A zero Timestamp means now.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visits (hashed_ip, user_agent, path, section, ts) VALUES (?, ?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, v.Section, v.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordClick increments the click counter of an outbound link.
func (s *Store) RecordClick(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO link_clicks (name, clicks, last_clicked) VALUES (?, 1, ?)
		ON CONFLICT(name) DO UPDATE SET clicks = clicks + 1, last_clicked = excluded.last_clicked`,
		name, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	return nil
}

// Cleanup deletes visits older than retention and reports how many went.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visits WHERE ts < ?`, s.now().Add(-retention).Unix())
	if err != nil {
		return 0, fmt.Errorf("cleanup visits: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats summarises visits and clicks.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisits, `SELECT COUNT(*) FROM visits`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visits`, nil},
		{&stats.VisitsToday, `SELECT COUNT(*) FROM visits WHERE ts >= ?`, []any{startOfDay.Unix()}},
		{&stats.VisitsThisWeek, `SELECT COUNT(*) FROM visits WHERE ts >= ?`, []any{weekAgo.Unix()}},
		{&stats.TotalClicks, `SELECT COALESCE(SUM(clicks), 0) FROM link_clicks`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.SectionViews, err = s.sectionViews(ctx); err != nil {
		return nil, err
	}

	if stats.TopLinks, err = s.topLinks(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisits, err = s.RecentVisits(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) topLinks(ctx context.Context, limit int) ([]LinkStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, clicks, last_clicked FROM link_clicks ORDER BY clicks DESC, last_clicked DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top links: %w", err)
	}
	defer rows.Close()

	var out []LinkStat
	for rows.Next() {
		var l LinkStat
		var last int64
		if err := rows.Scan(&l.Name, &l.Clicks, &last); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		l.LastClicked = time.Unix(last, 0)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) sectionViews(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section, COUNT(*) FROM visits WHERE section != '' GROUP BY section`)
	if err != nil {
		return nil, fmt.Errorf("section views: %w", err)
	}
	defer rows.Close()
	return scanSectionViews(rows)
}

// scanSectionViews reads section/count rows. An error that ends iteration
// early is returned rather than yielding partial counts.
func scanSectionViews(rows *sql.Rows) (map[string]int64, error) {
	out := make(map[string]int64)
	for rows.Next() {
		var section string
		var n int64
		if err := rows.Scan(&section, &n); err != nil {
			return nil, fmt.Errorf("scan section views: %w", err)
		}
		out[section] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("section views: %w", err)
	}
	return out, nil
}

// RecentVisits returns the latest visits, newest first.
func (s *Store) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hashed_ip, user_agent, path, section, ts FROM visits ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Section, &ts); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0)
		out = append(out, v)
	}
	return out, rows.Err()
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

