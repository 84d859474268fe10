package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dentacore/practice-engine/internal/config"
	"github.com/dentacore/practice-engine/internal/domain"
	"github.com/dentacore/practice-engine/internal/repository"
)

const reportCachePrefix = "reports:"

// ReportService assembles the two patient reports. Assembly itself is pure
// (domain package); this layer loads the data set, applies the configured
// overdue threshold and caches the result until the next mutation or TTL.
type ReportService struct {
	patients repository.PatientRepository
	redis    *redis.Client
	config   *config.Config
}

func NewReportService(
	patients repository.PatientRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *ReportService {
	return &ReportService{
		patients: patients,
		redis:    redisClient,
		config:   cfg,
	}
}

// FullReport returns every patient ordered by name with their balance.
func (s *ReportService) FullReport(ctx context.Context) (*domain.Report, error) {
	cacheKey := reportCachePrefix + domain.ReportKindFull

	if report := s.cached(ctx, cacheKey); report != nil {
		return report, nil
	}

	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	report := domain.AssembleReport(domain.ReportKindFull, nil, domain.FullReport(patients))

	s.cache(ctx, cacheKey, report)

	return report, nil
}

// OverdueReport returns the patients overdue as of the reference date,
// ordered ascending by amount owed.
func (s *ReportService) OverdueReport(ctx context.Context, asOf time.Time) (*domain.Report, error) {
	cacheKey := reportCachePrefix + domain.ReportKindOverdue + ":" + asOf.Format("2006-01-02")

	if report := s.cached(ctx, cacheKey); report != nil {
		return report, nil
	}

	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	overdue, err := domain.OverdueReport(patients, asOf, s.config.Business.OverdueMonths)
	if err != nil {
		return nil, err
	}

	report := domain.AssembleReport(domain.ReportKindOverdue, &asOf, overdue)

	s.cache(ctx, cacheKey, report)

	return report, nil
}

func (s *ReportService) cached(ctx context.Context, key string) *domain.Report {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}

	return &report
}

func (s *ReportService) cache(ctx context.Context, key string, report *domain.Report) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		return
	}

	s.redis.Set(ctx, key, data, s.config.Redis.ReportCacheTTL)
}
