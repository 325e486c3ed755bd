package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"vibe-gallery/internal/logging"
	"vibe-gallery/internal/metrics"
)

// Default timeout for single read queries.
const defaultTimeout = 5 * time.Second

// Store manages the gallery and media catalog in SQLite.
//
// Writes are staged: AddGallery, RemoveGalleries, AddMedia and RemoveMedia
// only record intent, and Commit flushes everything staged so far in a single
// transaction. Reads go straight to the database. User-initiated deletes
// (DeleteGalleryByID, DeleteMediaByID) are applied immediately.
type Store struct {
	db     *sql.DB
	dbPath string

	stageMu          sync.Mutex
	addedGalleries   []*Gallery
	removedGalleries []*Gallery
	addedMedia       []*Media
	removedMedia     []*Media
}

// New opens (creating if needed) the catalog database at dbPath. The parent
// directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Store, error) {
	logging.Info("Catalog database path: %s", dbPath)

	// WAL mode and busy_timeout prevent "database is locked" errors when the
	// scanner, the sweeper and request handlers overlap. Foreign keys must be
	// enabled per-connection for gallery -> media cascade deletes.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Catalog database initialized at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	start := time.Now()
	schema := `
	CREATE TABLE IF NOT EXISTS galleries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		path TEXT NOT NULL UNIQUE COLLATE NOCASE,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS media (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE COLLATE NOCASE,
		content_type TEXT NOT NULL,
		file_size INTEGER NOT NULL DEFAULT 0,
		type TEXT NOT NULL,
		tags TEXT,
		created_at INTEGER NOT NULL,
		gallery_id INTEGER REFERENCES galleries(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_media_gallery ON media(gallery_id);
	CREATE INDEX IF NOT EXISTS idx_media_type ON media(type);
	CREATE INDEX IF NOT EXISTS idx_galleries_created ON galleries(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	recordQuery("initialize_schema", start, err)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// AddGallery stages a gallery for insertion. The ID field is filled in on
// Commit.
func (s *Store) AddGallery(g *Gallery) {
	s.stageMu.Lock()
	defer s.stageMu.Unlock()
	s.addedGalleries = append(s.addedGalleries, g)
}

// RemoveGalleries stages galleries for deletion. Owned media rows are removed
// by the cascade on Commit.
func (s *Store) RemoveGalleries(galleries []*Gallery) {
	s.stageMu.Lock()
	defer s.stageMu.Unlock()
	s.removedGalleries = append(s.removedGalleries, galleries...)
}

// AddMedia stages a media row for insertion. The ID field is filled in on
// Commit.
func (s *Store) AddMedia(m *Media) {
	s.stageMu.Lock()
	defer s.stageMu.Unlock()
	s.addedMedia = append(s.addedMedia, m)
}

// RemoveMedia stages media rows for deletion.
func (s *Store) RemoveMedia(media []*Media) {
	s.stageMu.Lock()
	defer s.stageMu.Unlock()
	s.removedMedia = append(s.removedMedia, media...)
}

// Commit flushes all staged additions and removals in a single transaction
// and clears the staging buffers. A Commit with nothing staged is a no-op.
func (s *Store) Commit(ctx context.Context) error {
	s.stageMu.Lock()
	addedGalleries := s.addedGalleries
	removedGalleries := s.removedGalleries
	addedMedia := s.addedMedia
	removedMedia := s.removedMedia
	s.addedGalleries = nil
	s.removedGalleries = nil
	s.addedMedia = nil
	s.removedMedia = nil
	s.stageMu.Unlock()

	if len(addedGalleries) == 0 && len(removedGalleries) == 0 &&
		len(addedMedia) == 0 && len(removedMedia) == 0 {
		return nil
	}

	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin commit transaction: %w", err)
	}

	err = s.applyStaged(ctx, tx, addedGalleries, removedGalleries, addedMedia, removedMedia)
	if err != nil {
		metrics.DBTransactionDuration.WithLabelValues("rollback").Observe(time.Since(start).Seconds())
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}

	metrics.DBTransactionDuration.WithLabelValues("commit").Observe(time.Since(start).Seconds())
	recordQuery("commit", start, nil)
	return tx.Commit()
}

func (s *Store) applyStaged(
	ctx context.Context,
	tx *sql.Tx,
	addedGalleries, removedGalleries []*Gallery,
	addedMedia, removedMedia []*Media,
) error {
	for _, g := range addedGalleries {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO galleries (name, description, path, created_at) VALUES (?, ?, ?, ?)`,
			g.Name, g.Description, g.Path, g.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert gallery %q: %w", g.Path, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read gallery id for %q: %w", g.Path, err)
		}
		g.ID = id
	}

	for _, g := range removedGalleries {
		if _, err := tx.ExecContext(ctx, `DELETE FROM galleries WHERE id = ?`, g.ID); err != nil {
			return fmt.Errorf("failed to delete gallery %q: %w", g.Path, err)
		}
	}

	for _, m := range addedMedia {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO media (path, content_type, file_size, type, tags, created_at, gallery_id)
			 VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?)`,
			m.Path, m.ContentType, m.FileSize, string(m.Type), m.Tags, m.CreatedAt.Unix(), m.GalleryID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert media %q: %w", m.Path, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read media id for %q: %w", m.Path, err)
		}
		m.ID = id
	}

	for _, m := range removedMedia {
		if _, err := tx.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, m.ID); err != nil {
			return fmt.Errorf("failed to delete media %q: %w", m.Path, err)
		}
	}

	return nil
}

// recordQuery records catalog query metrics.
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
