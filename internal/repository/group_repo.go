// filepath: internal/repository/group_repo.go
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"ranktrack/internal/models"

	"github.com/Masterminds/squirrel"
)

// CreateGroup inserts a new keyword group for a site.
func (s *Repository) CreateGroup(siteID int64, name string) (*models.KeywordGroup, error) {
	res, err := s.DB.Exec("INSERT INTO keyword_groups (site_id, name) VALUES (?, ?)", siteID, name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.KeywordGroup{ID: id, SiteID: siteID, Name: name}, nil
}

// GetGroup retrieves a single group by ID, without its membership list.
func (s *Repository) GetGroup(id int64) (*models.KeywordGroup, error) {
	row := s.DB.QueryRow("SELECT id, site_id, name FROM keyword_groups WHERE id = ?", id)
	var g models.KeywordGroup
	if err := row.Scan(&g.ID, &g.SiteID, &g.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// GetGroupsBySite retrieves all groups of a site including their member
// keyword IDs.
func (s *Repository) GetGroupsBySite(siteID int64) ([]models.KeywordGroup, error) {
	rows, err := s.DB.Query(`
		SELECT g.id, g.site_id, g.name, m.keyword_id
		FROM keyword_groups g
		LEFT JOIN keyword_group_members m ON m.group_id = g.id
		WHERE g.site_id = ?
		ORDER BY g.name, g.id`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.KeywordGroup, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var id, gSiteID int64
		var name string
		var keywordID *int64
		if err := rows.Scan(&id, &gSiteID, &name, &keywordID); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			groups = append(groups, models.KeywordGroup{ID: id, SiteID: gSiteID, Name: name})
			i = len(groups) - 1
			index[id] = i
		}
		if keywordID != nil {
			groups[i].KeywordIDs = append(groups[i].KeywordIDs, *keywordID)
		}
	}
	return groups, rows.Err()
}

// DeleteGroup removes a group; its membership rows cascade.
func (s *Repository) DeleteGroup(id int64) error {
	res, err := s.DB.Exec("DELETE FROM keyword_groups WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGroupsBySite removes every group under a site and returns the count.
func (s *Repository) DeleteGroupsBySite(siteID int64) (int64, error) {
	res, err := s.DB.Exec("DELETE FROM keyword_groups WHERE site_id = ?", siteID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AddKeywordsToGroup inserts membership pairs, ignoring pairs that already
// exist (the (group_id, keyword_id) pair is unique).
func (s *Repository) AddKeywordsToGroup(groupID int64, keywordIDs []int64) error {
	if len(keywordIDs) == 0 {
		return nil
	}
	var sb strings.Builder
	args := make([]interface{}, 0, len(keywordIDs)*2)
	sb.WriteString("INSERT INTO keyword_group_members (group_id, keyword_id) VALUES ")
	for i, kid := range keywordIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?)")
		args = append(args, groupID, kid)
	}
	sb.WriteString(" ON CONFLICT(group_id, keyword_id) DO NOTHING")
	_, err := s.DB.Exec(sb.String(), args...)
	return err
}

// RemoveKeywordsFromGroup deletes membership pairs.
func (s *Repository) RemoveKeywordsFromGroup(groupID int64, keywordIDs []int64) error {
	if len(keywordIDs) == 0 {
		return nil
	}
	query, args, err := s.Builder.Delete("keyword_group_members").
		Where(squirrel.Eq{"group_id": groupID}).
		Where(squirrel.Eq{"keyword_id": keywordIDs}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(query, args...)
	return err
}
