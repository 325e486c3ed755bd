package catalog

import (
	"context"
	"database/sql"
	"time"

	"vibe-gallery/internal/mediatypes"
)

// ListGalleries returns all galleries ordered by creation time (newest
// first), with their media rows attached.
func (s *Store) ListGalleries(ctx context.Context) ([]*Gallery, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_galleries", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, path, created_at FROM galleries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var galleries []*Gallery
	byID := make(map[int64]*Gallery)
	for rows.Next() {
		var g Gallery
		var createdAt int64
		if err = rows.Scan(&g.ID, &g.Name, &g.Description, &g.Path, &createdAt); err != nil {
			return nil, err
		}
		g.CreatedAt = time.Unix(createdAt, 0).UTC()
		galleries = append(galleries, &g)
		byID[g.ID] = &g
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	mediaRows, err := s.db.QueryContext(ctx,
		`SELECT id, path, content_type, file_size, type, COALESCE(tags, ''), created_at, COALESCE(gallery_id, 0)
		 FROM media ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer mediaRows.Close()

	for mediaRows.Next() {
		m, scanErr := scanMedia(mediaRows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		if g, ok := byID[m.GalleryID]; ok {
			g.Media = append(g.Media, m)
		}
	}
	err = mediaRows.Err()
	if err != nil {
		return nil, err
	}

	return galleries, nil
}

// ListMediaByGallery returns all media rows owned by a gallery.
func (s *Store) ListMediaByGallery(ctx context.Context, galleryID int64) ([]*Media, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_media_by_gallery", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, content_type, file_size, type, COALESCE(tags, ''), created_at, COALESCE(gallery_id, 0)
		 FROM media WHERE gallery_id = ? ORDER BY id`, galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []*Media
	for rows.Next() {
		m, scanErr := scanMedia(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		media = append(media, &m)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return media, nil
}

// GetGallery returns a single gallery without media, or sql.ErrNoRows.
func (s *Store) GetGallery(ctx context.Context, id int64) (*Gallery, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_gallery", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var g Gallery
	var createdAt int64
	err = s.db.QueryRowContext(ctx,
		`SELECT id, name, description, path, created_at FROM galleries WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.Path, &createdAt)
	if err != nil {
		return nil, err
	}
	g.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &g, nil
}

// GetMedia returns a single media row together with its gallery path, or
// sql.ErrNoRows.
func (s *Store) GetMedia(ctx context.Context, id int64) (*MediaWithGallery, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_media", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mg MediaWithGallery
	var mediaType string
	var createdAt int64
	err = s.db.QueryRowContext(ctx,
		`SELECT m.id, m.path, m.content_type, m.file_size, m.type, COALESCE(m.tags, ''),
		        m.created_at, COALESCE(m.gallery_id, 0), COALESCE(g.path, '')
		 FROM media m LEFT JOIN galleries g ON g.id = m.gallery_id
		 WHERE m.id = ?`, id).
		Scan(&mg.ID, &mg.Path, &mg.ContentType, &mg.FileSize, &mediaType,
			&mg.Tags, &createdAt, &mg.GalleryID, &mg.GalleryPath)
	if err != nil {
		return nil, err
	}
	mg.Type = mediatypes.MediaType(mediaType)
	mg.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &mg, nil
}

// ListMediaPage returns one page of a gallery's media (newest first) plus the
// total row count for the gallery.
func (s *Store) ListMediaPage(ctx context.Context, galleryID int64, page, pageSize int) ([]*Media, int, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_media_page", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM media WHERE gallery_id = ?`, galleryID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, content_type, file_size, type, COALESCE(tags, ''), created_at, COALESCE(gallery_id, 0)
		 FROM media WHERE gallery_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, galleryID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var media []*Media
	for rows.Next() {
		m, scanErr := scanMedia(rows)
		if scanErr != nil {
			err = scanErr
			return nil, 0, err
		}
		media = append(media, &m)
	}
	err = rows.Err()
	if err != nil {
		return nil, 0, err
	}
	return media, total, nil
}

// AllMediaWithGalleryPath returns every media row joined with its gallery's
// path, in a stable order. This is the thumbnail sweep's work list.
func (s *Store) AllMediaWithGalleryPath(ctx context.Context) ([]MediaWithGallery, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("all_media", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.path, m.content_type, m.file_size, m.type, COALESCE(m.tags, ''),
		        m.created_at, COALESCE(m.gallery_id, 0), COALESCE(g.path, '')
		 FROM media m LEFT JOIN galleries g ON g.id = m.gallery_id
		 ORDER BY m.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MediaWithGallery
	for rows.Next() {
		var mg MediaWithGallery
		var mediaType string
		var createdAt int64
		if err = rows.Scan(&mg.ID, &mg.Path, &mg.ContentType, &mg.FileSize, &mediaType,
			&mg.Tags, &createdAt, &mg.GalleryID, &mg.GalleryPath); err != nil {
			return nil, err
		}
		mg.Type = mediatypes.MediaType(mediaType)
		mg.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, mg)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteGalleryByID removes a gallery row immediately; owned media rows are
// removed by the cascade. Used by the API delete path, not the reconciler.
func (s *Store) DeleteGalleryByID(ctx context.Context, id int64) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_gallery", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `DELETE FROM galleries WHERE id = ?`, id)
	return err
}

// DeleteMediaByID removes a media row immediately. Used by the API delete
// path, not the reconciler.
func (s *Store) DeleteMediaByID(ctx context.Context, id int64) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_media", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	return err
}

// scanMedia reads one media row from a result set whose column order matches
// the shared SELECT list.
func scanMedia(rows *sql.Rows) (Media, error) {
	var m Media
	var mediaType string
	var createdAt int64
	if err := rows.Scan(&m.ID, &m.Path, &m.ContentType, &m.FileSize, &mediaType,
		&m.Tags, &createdAt, &m.GalleryID); err != nil {
		return Media{}, err
	}
	m.Type = mediatypes.MediaType(mediaType)
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	return m, nil
}
