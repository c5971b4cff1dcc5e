package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/analytics"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/bsdate"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/cache"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type AnalyticsServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	cache          cache.Cache
	ttl            time.Duration
	thresholds     analytics.Thresholds
	computing      singleflight.Group
}

func NewAnalyticsService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	c cache.Cache,
	ttl time.Duration,
	thresholds analytics.Thresholds,
) analytics.AnalyticsService {
	return &AnalyticsServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		cache:          c,
		ttl:            ttl,
		thresholds:     thresholds,
	}
}

const rosterGenerationKey = "analytics:generation"

func monthGenerationKey(bsYear, bsMonth int) string {
	return fmt.Sprintf("analytics:generation:%04d-%02d", bsYear, bsMonth+1)
}

func cacheKey(generation string, bsYear, bsMonth int) string {
	return fmt.Sprintf("analytics:%s:%04d-%02d", generation, bsYear, bsMonth+1)
}

// generation combines the roster-wide and per-month tokens. Replacing either one orphans the
// cached bundle.
func (s *AnalyticsServiceImpl) generation(ctx context.Context, bsYear, bsMonth int) string {
	var roster, month string
	if _, err := s.cache.Get(ctx, rosterGenerationKey, &roster); err != nil {
		slog.Warn("analytics generation read failed", "key", rosterGenerationKey, "error", err)
	}
	key := monthGenerationKey(bsYear, bsMonth)
	if _, err := s.cache.Get(ctx, key, &month); err != nil {
		slog.Warn("analytics generation read failed", "key", key, "error", err)
	}
	return roster + "." + month
}

func (s *AnalyticsServiceImpl) bump(ctx context.Context, key string) error {
	return s.cache.Set(ctx, key, uuid.Must(uuid.NewV7()).String(), 0)
}

// GetAnalytics implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) GetAnalytics(ctx context.Context, req analytics.AnalyticsRequest) (analytics.Bundle, error) {
	if err := req.Validate(); err != nil {
		return analytics.Bundle{}, err
	}
	generation := s.generation(ctx, req.BSYear, req.BSMonth)
	key := cacheKey(generation, req.BSYear, req.BSMonth)

	var cached analytics.Bundle
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("analytics cache read failed", "key", key, "error", err)
	}
	if found {
		return cached, nil
	}

	v, err, _ := s.computing.Do(key, func() (any, error) {
		bundle, err := s.compute(ctx, req.BSYear, req.BSMonth)
		if err != nil {
			return nil, err
		}
		// Data changed while computing; the result may be stale, so serve it once without caching.
		if s.generation(ctx, req.BSYear, req.BSMonth) != generation {
			slog.Info("analytics invalidated during compute, not caching", "key", key)
			return bundle, nil
		}
		if err := s.cache.Set(ctx, key, bundle, s.ttl); err != nil {
			slog.Warn("analytics cache write failed", "key", key, "error", err)
		}
		return bundle, nil
	})
	if err != nil {
		return analytics.Bundle{}, err
	}
	return v.(analytics.Bundle), nil
}

func (s *AnalyticsServiceImpl) compute(ctx context.Context, bsYear, bsMonth int) (analytics.Bundle, error) {
	first, last, err := bsdate.MonthRange(bsYear, bsMonth)
	if err != nil {
		return analytics.Bundle{}, err
	}

	var (
		employees []employee.Employee
		records   []attendance.AttendanceRecord
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.employeeRepo.List(gCtx, employee.EmployeeFilter{})
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		employees = list
		return nil
	})

	g.Go(func() error {
		list, err := s.attendanceRepo.ListByDateRange(gCtx, first, last)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		records = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return analytics.Bundle{}, err
	}

	return Compute(bsYear, bsMonth, employees, records, s.thresholds)
}

// Invalidate implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Invalidate(ctx context.Context, bsYear, bsMonth int) error {
	return s.bump(ctx, monthGenerationKey(bsYear, bsMonth))
}

// InvalidateAll implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) InvalidateAll(ctx context.Context) error {
	return s.bump(ctx, rosterGenerationKey)
}
