// filepath: internal/services/history_service.go
package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"ranktrack/internal/logging"
	"ranktrack/internal/models"
	"ranktrack/internal/repository"
)

var _ HistoryService = (*historyService)(nil)

// historyService builds the read-side projection of keyword histories. All
// derived fields (latest position, month-over-month diff) are computed here
// on every read; nothing derived is ever persisted.
type historyService struct {
	Repo *repository.Repository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo *repository.Repository) *historyService {
	return &historyService{Repo: repo}
}

// GetHistory returns one KeywordHistory per keyword of the site, with the
// full month-keyed ranking map and the derived latest position and diff.
//
// The diff compares each keyword's own latest month against the month
// before it (lexicographic "YYYY-MM" order over that keyword's rows). A
// keyword whose newest row lags the rest of the site still reports its own
// latest position. Both positions present yields prev minus curr, a single
// ranked month yields DiffNewEntry, a nil position in the latest month
// after a ranked one yields DiffDroppedOut, and neither yields nil. Output
// order is unspecified; presentation layers sort.
func (s *historyService) GetHistory(actx *models.AuthContext, siteID int64) ([]models.KeywordHistory, error) {
	if err := requireSiteAccess(actx, siteID); err != nil {
		return nil, err
	}
	rows, err := s.Repo.GetHistoryRows(siteID)
	if err != nil {
		return nil, err
	}

	histories := make([]models.KeywordHistory, 0)
	index := make(map[int64]int)

	for _, row := range rows {
		pos, ok := index[row.KeywordID]
		if !ok {
			pos = len(histories)
			index[row.KeywordID] = pos
			histories = append(histories, models.KeywordHistory{
				KeywordID: row.KeywordID,
				Keyword:   row.Keyword,
				Volume:    row.Volume,
				History:   make(map[string]models.RankingCell),
			})
		}
		if row.RankingDate == nil {
			continue // keyword without any rankings yet
		}
		month := models.DateToMonth(*row.RankingDate)
		histories[pos].History[month] = models.RankingCell{
			Position:     row.Position,
			URL:          row.URL,
			IsAIOverview: row.IsAIOverview,
		}
	}

	for i := range histories {
		applyDiff(&histories[i])
	}
	return histories, nil
}

// applyDiff derives the latest position and diff from the keyword's own
// months. The newest month the keyword has a row for is the baseline, not
// the newest month of the site as a whole.
func applyDiff(h *models.KeywordHistory) {
	months := make([]string, 0, len(h.History))
	for m := range h.History {
		months = append(months, m)
	}
	sort.Strings(months)

	var currPos, prevPos *int
	if len(months) > 0 {
		currPos = h.History[months[len(months)-1]].Position
	}
	if len(months) > 1 {
		prevPos = h.History[months[len(months)-2]].Position
	}
	h.LatestPosition = currPos
	switch {
	case currPos != nil && prevPos != nil:
		d := *prevPos - *currPos
		h.LatestDiff = &d
	case currPos != nil:
		d := models.DiffNewEntry
		h.LatestDiff = &d
	case prevPos != nil:
		d := models.DiffDroppedOut
		h.LatestDiff = &d
	}
}

// ExportCSV streams the site's keyword history as CSV: one row per keyword,
// one column per month, positions rendered as numbers and absent or
// out-of-range months left empty. A UTF-8 BOM is written first so
// spreadsheet tools detect the encoding.
func (s *historyService) ExportCSV(ctx context.Context, actx *models.AuthContext, siteID int64, w io.Writer) error {
	histories, err := s.GetHistory(actx, siteID)
	if err != nil {
		return err
	}

	monthSet := make(map[string]struct{})
	for i := range histories {
		for m := range histories[i].History {
			monthSet[m] = struct{}{}
		}
	}
	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)

	header := append([]string{"Keyword", "Volume"}, months...)
	header = append(header, "Diff")
	if err := cw.Write(header); err != nil {
		return err
	}

	sort.Slice(histories, func(i, j int) bool {
		return histories[i].Keyword < histories[j].Keyword
	})
	for i := range histories {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		record := make([]string, 0, len(months)+3)
		record = append(record, histories[i].Keyword, strconv.Itoa(histories[i].Volume))
		for _, m := range months {
			cell, ok := histories[i].History[m]
			if !ok || cell.Position == nil {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.Itoa(*cell.Position))
		}
		if histories[i].LatestDiff != nil {
			record = append(record, strconv.Itoa(*histories[i].LatestDiff))
		} else {
			record = append(record, "")
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	logging.Log.Debugf("HistoryService: exported %d keywords for site %d", len(histories), siteID)
	return nil
}
