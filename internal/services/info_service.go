// filepath: internal/services/info_service.go
package services

import (
	"time"

	"ranktrack/internal/models"
)

var _ InfoService = (*infoService)(nil)

type infoService struct {
	startTime time.Time
	version   string
}

// NewInfoService creates a new InfoService.
func NewInfoService(version string) *infoService {
	return &infoService{startTime: time.Now(), version: version}
}

// GetInfo returns general information about the service.
func (s *infoService) GetInfo() models.Info {
	return models.Info{
		ServiceName: "RankTrack",
		Version:     s.version,
		UptimeSince: s.startTime,
	}
}
