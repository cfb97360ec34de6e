// filepath: internal/services/ingest_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"ranktrack/internal/logging"
	"ranktrack/internal/models"
	"ranktrack/internal/repository"

	"github.com/oklog/ulid/v2"
)

var _ IngestService = (*ingestService)(nil)

// ingestService implements the ranking ingestion reconciler: the monthly
// upsert pipeline that merges parsed rank records into the keyword and
// ranking stores.
type ingestService struct {
	Repo *repository.Repository
}

// NewIngestService creates a new IngestService.
func NewIngestService(repo *repository.Repository) *ingestService {
	return &ingestService{Repo: repo}
}

// IngestBatch merges a batch of rank records for one site.
//
// The pipeline is two idempotent upsert steps: keyword metadata first (keyed
// by site_id+keyword, deduplicated within the batch, last occurrence wins),
// then ranking rows for every original record (keyed by
// keyword_id+ranking_date). A keyword-step failure aborts the whole batch; a
// ranking-step failure after the keywords committed is reported as
// ErrPartialIngest — re-running the identical batch completes the missing
// half without drift.
func (s *ingestService) IngestBatch(actx *models.AuthContext, siteID int64, records []models.RankRecord) (*models.IngestReport, error) {
	if err := requireSiteAccess(actx, siteID); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrValidation)
	}
	if _, err := s.Repo.GetSite(siteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("site %d: %w", siteID, ErrNotFound)
		}
		return nil, err
	}
	for i := range records {
		if err := validateRecord(&records[i]); err != nil {
			return nil, err
		}
	}

	batchID := ulid.Make().String()

	// Step 1: collapse the batch to one metadata row per keyword. A CSV that
	// lists the same keyword twice keeps only the last occurrence for the
	// volume upsert; every original row still produces a ranking row below.
	byKeyword := make(map[string]int, len(records))
	order := make([]string, 0, len(records))
	for i := range records {
		kw := records[i].Keyword
		if _, seen := byKeyword[kw]; !seen {
			order = append(order, kw)
		}
		byKeyword[kw] = i
	}
	ups := make([]repository.KeywordUpsert, 0, len(order))
	for _, kw := range order {
		rec := records[byKeyword[kw]]
		ups = append(ups, repository.KeywordUpsert{Keyword: rec.Keyword, Volume: rec.Volume})
	}

	// Step 2: upsert keyword metadata and resolve IDs. Failure here aborts
	// the batch; no ranking row is ever written without a resolved keyword.
	ids, err := s.Repo.UpsertKeywords(siteID, ups)
	if err != nil {
		logging.Log.Errorf("IngestService: keyword upsert failed for site %d (batch %s): %v", siteID, batchID, err)
		return nil, err
	}

	// Step 3: one ranking row per original record.
	rankUps := make([]repository.RankingUpsert, 0, len(records))
	for i := range records {
		id, ok := ids[records[i].Keyword]
		if !ok {
			// Should be impossible: every record's keyword was upserted.
			logging.Log.Warnf("IngestService: no resolved id for keyword %q (batch %s), skipping row", records[i].Keyword, batchID)
			continue
		}
		date, err := models.MonthToDate(records[i].Month)
		if err != nil {
			return nil, fmt.Errorf("%w: month %q", ErrValidation, records[i].Month)
		}
		rankUps = append(rankUps, repository.RankingUpsert{
			KeywordID:    id,
			RankingDate:  date,
			Position:     records[i].Position,
			URL:          records[i].URL,
			IsAIOverview: records[i].IsAIOverview,
		})
	}

	// Step 4: batch upsert the ranking rows. Keywords are already committed,
	// so a failure here is a partial one; the caller may safely retry.
	written, err := s.Repo.UpsertRankings(rankUps)
	if err != nil {
		logging.Log.Errorf("IngestService: ranking upsert failed for site %d (batch %s) after %d rows: %v", siteID, batchID, written, err)
		return nil, fmt.Errorf("%w: %v", ErrPartialIngest, err)
	}

	logging.Log.Infof("IngestService: batch %s for site %d: %d keywords, %d rankings", batchID, siteID, len(ups), written)
	return &models.IngestReport{BatchID: batchID, Keywords: len(ups), Rankings: written}, nil
}

// IngestOne performs the same two-step upsert for exactly one keyword/month
// pair. Used by manual entry and by the rank-lookup callback.
func (s *ingestService) IngestOne(actx *models.AuthContext, siteID int64, keyword, month string, position *int, url string, isAIOverview bool) error {
	_, err := s.IngestBatch(actx, siteID, []models.RankRecord{{
		Keyword:      keyword,
		Position:     position,
		URL:          url,
		IsAIOverview: isAIOverview,
		Month:        month,
	}})
	if err != nil {
		return err
	}
	return nil
}

// DeleteRankingsForMonth removes the site's ranking rows for one month and
// returns the count. Zero deletions is success with count 0, not an error:
// access control already ran at the top of the call.
func (s *ingestService) DeleteRankingsForMonth(actx *models.AuthContext, siteID int64, month string) (int64, error) {
	if err := requireSiteAccess(actx, siteID); err != nil {
		return 0, err
	}
	if !models.ValidMonth(month) {
		return 0, fmt.Errorf("%w: month %q", ErrValidation, month)
	}
	date, err := models.MonthToDate(month)
	if err != nil {
		return 0, fmt.Errorf("%w: month %q", ErrValidation, month)
	}
	count, err := s.Repo.DeleteRankingsForMonth(siteID, date)
	if err != nil {
		return 0, err
	}
	logging.Log.Infof("IngestService: deleted %d ranking rows for site %d month %s", count, siteID, month)
	return count, nil
}

// DeleteAllData removes every keyword (rankings cascade) and every group of
// the site. The group delete is best effort: its failure is logged but does
// not roll back the keyword delete.
func (s *ingestService) DeleteAllData(actx *models.AuthContext, siteID int64) error {
	if err := requireSiteAccess(actx, siteID); err != nil {
		return err
	}
	deleted, err := s.Repo.DeleteKeywordsBySite(siteID)
	if err != nil {
		return err
	}
	if _, err := s.Repo.DeleteGroupsBySite(siteID); err != nil {
		logging.Log.Warnf("IngestService: group cleanup failed for site %d: %v", siteID, err)
	}
	logging.Log.Infof("IngestService: wiped site %d (%d keywords)", siteID, deleted)
	return nil
}

// DeleteKeyword removes one keyword after resolving its owning site for the
// access check.
func (s *ingestService) DeleteKeyword(actx *models.AuthContext, keywordID int64) error {
	kw, err := s.Repo.GetKeyword(keywordID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("keyword %d: %w", keywordID, ErrNotFound)
		}
		return err
	}
	if err := requireSiteAccess(actx, kw.SiteID); err != nil {
		return err
	}
	return s.Repo.DeleteKeyword(keywordID)
}

func validateRecord(rec *models.RankRecord) error {
	rec.Keyword = strings.TrimSpace(rec.Keyword)
	if rec.Keyword == "" {
		return fmt.Errorf("%w: empty keyword", ErrValidation)
	}
	if !models.ValidMonth(rec.Month) {
		return fmt.Errorf("%w: month %q for keyword %q", ErrValidation, rec.Month, rec.Keyword)
	}
	if rec.Position != nil && *rec.Position < 1 {
		return fmt.Errorf("%w: position %d for keyword %q", ErrValidation, *rec.Position, rec.Keyword)
	}
	return nil
}
