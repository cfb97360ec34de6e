// filepath: internal/repository/ranking_repo.go
package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

// RankingUpsert is one per-month ranking row for batch upsertion.
type RankingUpsert struct {
	KeywordID    int64
	RankingDate  time.Time // first of the month
	Position     *int
	URL          string
	IsAIOverview bool
}

// UpsertRankings inserts or updates ranking rows keyed by the
// (keyword_id, ranking_date) uniqueness constraint. Re-ingesting a month
// overwrites position, url and the AI-overview flag unconditionally.
func (s *Repository) UpsertRankings(ups []RankingUpsert) (int, error) {
	if len(ups) == 0 {
		return 0, nil
	}

	written := 0
	for start := 0; start < len(ups); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(ups) {
			end = len(ups)
		}
		chunk := ups[start:end]

		var sb strings.Builder
		args := make([]interface{}, 0, len(chunk)*5)
		sb.WriteString("INSERT INTO rankings (keyword_id, ranking_date, position, url, is_ai_overview) VALUES ")
		for i := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?, ?)")
			args = append(args,
				chunk[i].KeywordID,
				chunk[i].RankingDate.Format("2006-01-02"),
				chunk[i].Position,
				chunk[i].URL,
				chunk[i].IsAIOverview,
			)
		}
		sb.WriteString(` ON CONFLICT(keyword_id, ranking_date) DO UPDATE SET
			position = excluded.position,
			url = excluded.url,
			is_ai_overview = excluded.is_ai_overview`)

		if _, err := s.DB.Exec(sb.String(), args...); err != nil {
			return written, fmt.Errorf("ranking upsert failed: %w", err)
		}
		written += len(chunk)
	}
	return written, nil
}

// HistoryRow is one keyword/ranking pair from the history join. Ranking
// fields are nil for keywords that have no ranking rows yet.
type HistoryRow struct {
	KeywordID    int64
	Keyword      string
	Volume       int
	RankingDate  *time.Time
	Position     *int
	URL          string
	IsAIOverview bool
}

// GetHistoryRows joins keywords with their rankings for one site, ordered by
// keyword then ranking date ascending.
func (s *Repository) GetHistoryRows(siteID int64) ([]HistoryRow, error) {
	rows, err := s.DB.Query(`
		SELECT k.id, k.keyword, k.volume, r.ranking_date, r.position,
			COALESCE(r.url, ''), COALESCE(r.is_ai_overview, 0)
		FROM keywords k
		LEFT JOIN rankings r ON r.keyword_id = k.id
		WHERE k.site_id = ?
		ORDER BY k.id, r.ranking_date ASC`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]HistoryRow, 0)
	for rows.Next() {
		var hr HistoryRow
		var dateStr *string
		if err := rows.Scan(&hr.KeywordID, &hr.Keyword, &hr.Volume, &dateStr,
			&hr.Position, &hr.URL, &hr.IsAIOverview); err != nil {
			return nil, err
		}
		if dateStr != nil {
			// SQLite DATE columns come back as text, sometimes with a
			// time suffix depending on how the value was bound.
			raw := *dateStr
			if len(raw) > 10 {
				raw = raw[:10]
			}
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, fmt.Errorf("malformed ranking_date %q: %w", *dateStr, err)
			}
			hr.RankingDate = &t
		}
		result = append(result, hr)
	}
	return result, rows.Err()
}

// DeleteRankingsForMonth deletes the ranking rows of every keyword under the
// site for the given first-of-month date and returns the deleted count.
// Zero deletions is a valid outcome, not an error.
func (s *Repository) DeleteRankingsForMonth(siteID int64, date time.Time) (int64, error) {
	query, args, err := s.Builder.Delete("rankings").
		Where("keyword_id IN (SELECT id FROM keywords WHERE site_id = ?)", siteID).
		Where(squirrel.Eq{"ranking_date": date.Format("2006-01-02")}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
