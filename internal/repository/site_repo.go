// filepath: internal/repository/site_repo.go
package repository

import (
	"database/sql"
	"errors"
	"time"

	"ranktrack/internal/models"

	"github.com/Masterminds/squirrel"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// CreateSite inserts a new site and returns it with its generated ID.
func (s *Repository) CreateSite(name, url, favicon string) (*models.Site, error) {
	now := time.Now().UTC()
	res, err := s.DB.Exec(
		"INSERT INTO sites (name, url, favicon, created_at) VALUES (?, ?, ?, ?)",
		name, url, favicon, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Site{ID: id, Name: name, URL: url, Favicon: favicon, CreatedAt: now}, nil
}

// GetSite retrieves a single site by ID.
func (s *Repository) GetSite(id int64) (*models.Site, error) {
	row := s.DB.QueryRow("SELECT id, name, url, favicon, created_at FROM sites WHERE id = ?", id)
	var site models.Site
	if err := row.Scan(&site.ID, &site.Name, &site.URL, &site.Favicon, &site.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

// GetSites retrieves all sites ordered by name.
func (s *Repository) GetSites() ([]models.Site, error) {
	return s.querySites(s.Builder.Select("id", "name", "url", "favicon", "created_at").
		From("sites").OrderBy("name"))
}

// GetSitesByIDs retrieves the sites matching the given IDs, ordered by name.
func (s *Repository) GetSitesByIDs(ids []int64) ([]models.Site, error) {
	if len(ids) == 0 {
		return []models.Site{}, nil
	}
	return s.querySites(s.Builder.Select("id", "name", "url", "favicon", "created_at").
		From("sites").Where(squirrel.Eq{"id": ids}).OrderBy("name"))
}

func (s *Repository) querySites(q squirrel.SelectBuilder) ([]models.Site, error) {
	sqlQuery, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := make([]models.Site, 0)
	for rows.Next() {
		var site models.Site
		if err := rows.Scan(&site.ID, &site.Name, &site.URL, &site.Favicon, &site.CreatedAt); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// UpdateSite overwrites a site's name, url and favicon.
func (s *Repository) UpdateSite(site *models.Site) error {
	res, err := s.DB.Exec(
		"UPDATE sites SET name = ?, url = ?, favicon = ? WHERE id = ?",
		site.Name, site.URL, site.Favicon, site.ID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSite removes a site. Keywords, rankings, groups and grants cascade
// via foreign keys.
func (s *Repository) DeleteSite(id int64) error {
	res, err := s.DB.Exec("DELETE FROM sites WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	// Cached users carry SiteIDs; the user_sites cascade just changed them.
	s.Cache.Flush()
	return nil
}
