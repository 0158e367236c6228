package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// SQLiteStore keeps collected items keyed by id, so a re-collected item
// replaces its earlier copy instead of being duplicated.
type SQLiteStore struct {
	db *sql.DB
}

var _ ItemStore = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at dbPath and applies the schema
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS content_items (
    id TEXT PRIMARY KEY,
    platform TEXT NOT NULL,
    kind TEXT NOT NULL,
    title TEXT NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    community TEXT NOT NULL DEFAULT '',
    score INTEGER NOT NULL DEFAULT 0,
    comment_count INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    sentiment_score REAL NOT NULL DEFAULT 0,
    confidence REAL NOT NULL DEFAULT 0,
    profanity_count INTEGER NOT NULL DEFAULT 0,
    readability_score REAL NOT NULL DEFAULT 0,
    engagement_velocity REAL NOT NULL DEFAULT 0,
    virality_score REAL NOT NULL DEFAULT 0,
    emotional_tone TEXT NOT NULL DEFAULT '',
    word_count INTEGER NOT NULL DEFAULT 0,
    urgency_score REAL NOT NULL DEFAULT 0,
    credibility_score REAL NOT NULL DEFAULT 0,
    processed_at INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_items_platform_created ON content_items(platform, created_at);

CREATE TABLE IF NOT EXISTS trending_topics (
    run_id TEXT NOT NULL,
    keyword TEXT NOT NULL,
    reddit_mentions INTEGER NOT NULL,
    news_mentions INTEGER NOT NULL,
    sentiment_avg REAL NOT NULL,
    momentum_score REAL NOT NULL,
    momentum TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (run_id, keyword)
);

CREATE INDEX IF NOT EXISTS idx_topics_created ON trending_topics(created_at);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// UpsertItems writes all items in one transaction
func (s *SQLiteStore) UpsertItems(ctx context.Context, items []models.ContentItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO content_items (
    id, platform, kind, title, body, author, url, community, score, comment_count, created_at,
    sentiment_score, confidence, profanity_count, readability_score, engagement_velocity,
    virality_score, emotional_tone, word_count, urgency_score, credibility_score, processed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title=excluded.title,
    body=excluded.body,
    score=excluded.score,
    comment_count=excluded.comment_count,
    sentiment_score=excluded.sentiment_score,
    confidence=excluded.confidence,
    profanity_count=excluded.profanity_count,
    readability_score=excluded.readability_score,
    engagement_velocity=excluded.engagement_velocity,
    virality_score=excluded.virality_score,
    emotional_tone=excluded.emotional_tone,
    word_count=excluded.word_count,
    urgency_score=excluded.urgency_score,
    credibility_score=excluded.credibility_score,
    processed_at=excluded.processed_at
`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		d := item.Derived
		_, err := stmt.ExecContext(ctx,
			item.ID, string(item.Platform), string(item.Kind), item.Title, item.Body, item.Author,
			item.URL, item.Community, item.Score, item.CommentCount, toMillis(item.CreatedAt),
			d.SentimentScore, d.Confidence, d.ProfanityCount, d.ReadabilityScore, d.EngagementVelocity,
			d.ViralityScore, d.EmotionalTone, d.WordCount, d.UrgencyScore, d.CredibilityScore,
			toMillis(d.ProcessedAt),
		)
		if err != nil {
			return fmt.Errorf("upsert item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

const itemColumns = `id, platform, kind, title, body, author, url, community, score, comment_count, created_at,
    sentiment_score, confidence, profanity_count, readability_score, engagement_velocity,
    virality_score, emotional_tone, word_count, urgency_score, credibility_score, processed_at`

// ListItems returns items created at or after since, newest first.
// An empty platform lists both platforms.
func (s *SQLiteStore) ListItems(ctx context.Context, platform models.Platform, since time.Time) ([]models.ContentItem, error) {
	query := "SELECT " + itemColumns + " FROM content_items WHERE created_at >= ?"
	args := []interface{}{toMillis(since)}
	if platform != "" {
		query += " AND platform = ?"
		args = append(args, string(platform))
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchItems returns items created at or after since whose title or body
// contains query, ignoring ASCII case. Newest first.
func (s *SQLiteStore) SearchItems(ctx context.Context, query string, since time.Time) ([]models.ContentItem, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"

	rows, err := s.db.QueryContext(ctx, "SELECT "+itemColumns+` FROM content_items
WHERE created_at >= ?
  AND (title COLLATE NOCASE LIKE ? ESCAPE '\' OR body COLLATE NOCASE LIKE ? ESCAPE '\')
ORDER BY created_at DESC, id ASC`, toMillis(since), pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]models.ContentItem, error) {
	var items []models.ContentItem
	for rows.Next() {
		var (
			item               models.ContentItem
			platformCol, kind  string
			created, processed int64
		)
		d := &item.Derived
		if err := rows.Scan(
			&item.ID, &platformCol, &kind, &item.Title, &item.Body, &item.Author, &item.URL,
			&item.Community, &item.Score, &item.CommentCount, &created,
			&d.SentimentScore, &d.Confidence, &d.ProfanityCount, &d.ReadabilityScore, &d.EngagementVelocity,
			&d.ViralityScore, &d.EmotionalTone, &d.WordCount, &d.UrgencyScore, &d.CredibilityScore, &processed,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Platform = models.Platform(platformCol)
		item.Kind = models.ContentKind(kind)
		item.CreatedAt = fromMillis(created)
		d.ProcessedAt = fromMillis(processed)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// SaveTopics records the topic snapshot of one run
func (s *SQLiteStore) SaveTopics(ctx context.Context, runID string, topics []models.TrendingTopic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save topics: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range topics {
		_, err := tx.ExecContext(ctx, `
INSERT OR REPLACE INTO trending_topics (
    run_id, keyword, reddit_mentions, news_mentions, sentiment_avg, momentum_score, momentum, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, t.Keyword, t.RedditMentions, t.NewsMentions, t.SentimentAvg,
			t.MomentumScore, t.Momentum, toMillis(t.CreatedAt))
		if err != nil {
			return fmt.Errorf("save topic %s: %w", t.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit topics: %w", err)
	}
	return nil
}

// PruneBefore deletes items and topic snapshots created before cutoff
func (s *SQLiteStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ms := toMillis(cutoff)

	res, err := s.db.ExecContext(ctx, `DELETE FROM content_items WHERE created_at < ?`, ms)
	if err != nil {
		return 0, fmt.Errorf("prune items: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune items: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM trending_topics WHERE created_at < ?`, ms); err != nil {
		return removed, fmt.Errorf("prune topics: %w", err)
	}
	return removed, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
