// filepath: internal/repository/keyword_repo.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ranktrack/internal/models"
)

// upsertChunkSize caps the number of rows per multi-VALUES statement so we
// stay well below SQLite's bound-variable limit.
const upsertChunkSize = 200

// KeywordUpsert is one keyword-metadata row for batch upsertion.
type KeywordUpsert struct {
	Keyword string
	Volume  int
}

// UpsertKeywords inserts or updates keyword metadata for a site, keyed by the
// (site_id, keyword) uniqueness constraint. Existing rows get their volume
// overwritten (last write wins; no volume history is kept). Returns a map of
// keyword text to resolved keyword ID covering every input row.
func (s *Repository) UpsertKeywords(siteID int64, ups []KeywordUpsert) (map[string]int64, error) {
	ids := make(map[string]int64, len(ups))
	if len(ups) == 0 {
		return ids, nil
	}
	now := time.Now().UTC()

	for start := 0; start < len(ups); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(ups) {
			end = len(ups)
		}
		chunk := ups[start:end]

		var sb strings.Builder
		args := make([]interface{}, 0, len(chunk)*4)
		sb.WriteString("INSERT INTO keywords (site_id, keyword, volume, updated_at) VALUES ")
		for i := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?)")
			args = append(args, siteID, chunk[i].Keyword, chunk[i].Volume, now)
		}
		sb.WriteString(` ON CONFLICT(site_id, keyword) DO UPDATE SET
			volume = excluded.volume,
			updated_at = excluded.updated_at
			RETURNING id, keyword`)

		rows, err := s.DB.Query(sb.String(), args...)
		if err != nil {
			return nil, fmt.Errorf("keyword upsert failed: %w", err)
		}
		for rows.Next() {
			var id int64
			var kw string
			if err := rows.Scan(&id, &kw); err != nil {
				rows.Close()
				return nil, err
			}
			ids[kw] = id
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return ids, nil
}

// GetKeyword retrieves a single keyword by ID.
func (s *Repository) GetKeyword(id int64) (*models.Keyword, error) {
	row := s.DB.QueryRow(
		"SELECT id, site_id, keyword, volume, updated_at FROM keywords WHERE id = ?", id)
	var kw models.Keyword
	if err := row.Scan(&kw.ID, &kw.SiteID, &kw.Keyword, &kw.Volume, &kw.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &kw, nil
}

// GetKeywordsBySite retrieves all keywords belonging to a site.
func (s *Repository) GetKeywordsBySite(siteID int64) ([]models.Keyword, error) {
	rows, err := s.DB.Query(
		"SELECT id, site_id, keyword, volume, updated_at FROM keywords WHERE site_id = ? ORDER BY keyword",
		siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keywords := make([]models.Keyword, 0)
	for rows.Next() {
		var kw models.Keyword
		if err := rows.Scan(&kw.ID, &kw.SiteID, &kw.Keyword, &kw.Volume, &kw.UpdatedAt); err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// DeleteKeyword removes a keyword; its rankings and group memberships
// cascade via foreign keys.
func (s *Repository) DeleteKeyword(id int64) error {
	res, err := s.DB.Exec("DELETE FROM keywords WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteKeywordsBySite removes every keyword under a site and returns the
// number of deleted rows. Rankings cascade.
func (s *Repository) DeleteKeywordsBySite(siteID int64) (int64, error) {
	res, err := s.DB.Exec("DELETE FROM keywords WHERE site_id = ?", siteID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
