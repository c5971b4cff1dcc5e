package analytics

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/analytics"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/cache"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
	calls     atomic.Int32
}

func (r *countingEmployeeRepo) List(context.Context, employee.EmployeeFilter) ([]employee.Employee, error) {
	r.calls.Add(1)
	return r.employees, nil
}

type stubAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.AttendanceRecord
}

func (r stubAttendanceRepo) ListByDateRange(context.Context, time.Time, time.Time) ([]attendance.AttendanceRecord, error) {
	return r.records, nil
}

func TestAnalyticsService_CachesUntilInvalidated(t *testing.T) {
	sita := worker("e1", "Sita Sharma")
	empRepo := &countingEmployeeRepo{employees: []employee.Employee{sita}}
	attRepo := stubAttendanceRepo{records: []attendance.AttendanceRecord{day(t, sita, 1, "09:20", "17:00", attendance.StatusPresent, 8, 0)}}

	svc := NewAnalyticsService(empRepo, attRepo, cache.NewMemory(), time.Hour, analytics.DefaultThresholds())
	ctx := context.Background()
	req := analytics.AnalyticsRequest{BSYear: 2082, BSMonth: 0}

	first, err := svc.GetAnalytics(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Punctuality[0].LateArrivals)

	second, err := svc.GetAnalytics(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, empRepo.calls.Load())

	require.NoError(t, svc.Invalidate(ctx, 2082, 0))
	_, err = svc.GetAnalytics(ctx, req)
	require.NoError(t, err)
	assert.EqualValues(t, 2, empRepo.calls.Load())
}

// invalidatingEmployeeRepo simulates an edit landing while the first computation reads the roster.
type invalidatingEmployeeRepo struct {
	countingEmployeeRepo
	during func()
}

func (r *invalidatingEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	if r.calls.Load() == 0 && r.during != nil {
		r.during()
	}
	return r.countingEmployeeRepo.List(ctx, filter)
}

func TestAnalyticsService_InvalidationDuringComputeIsNotCached(t *testing.T) {
	for _, tc := range []struct {
		name       string
		invalidate func(context.Context, analytics.AnalyticsService) error
	}{
		{"month", func(ctx context.Context, svc analytics.AnalyticsService) error { return svc.Invalidate(ctx, 2082, 0) }},
		{"roster", func(ctx context.Context, svc analytics.AnalyticsService) error { return svc.InvalidateAll(ctx) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			empRepo := &invalidatingEmployeeRepo{countingEmployeeRepo: countingEmployeeRepo{employees: []employee.Employee{worker("e1", "Sita Sharma")}}}
			svc := NewAnalyticsService(empRepo, stubAttendanceRepo{}, cache.NewMemory(), time.Hour, analytics.DefaultThresholds())
			empRepo.during = func() { assert.NoError(t, tc.invalidate(ctx, svc)) }
			req := analytics.AnalyticsRequest{BSYear: 2082, BSMonth: 0}

			_, err := svc.GetAnalytics(ctx, req)
			require.NoError(t, err)
			_, err = svc.GetAnalytics(ctx, req)
			require.NoError(t, err)
			assert.EqualValues(t, 2, empRepo.calls.Load(), "result computed across an invalidation must not be cached")

			_, err = svc.GetAnalytics(ctx, req)
			require.NoError(t, err)
			assert.EqualValues(t, 2, empRepo.calls.Load())
		})
	}
}

func TestAnalyticsService_InvalidateAllDropsEveryMonth(t *testing.T) {
	empRepo := &countingEmployeeRepo{employees: []employee.Employee{worker("e1", "Sita Sharma")}}
	svc := NewAnalyticsService(empRepo, stubAttendanceRepo{}, cache.NewMemory(), time.Hour, analytics.DefaultThresholds())
	ctx := context.Background()

	for _, month := range []int{0, 1} {
		_, err := svc.GetAnalytics(ctx, analytics.AnalyticsRequest{BSYear: 2082, BSMonth: month})
		require.NoError(t, err)
	}
	require.EqualValues(t, 2, empRepo.calls.Load())

	require.NoError(t, svc.InvalidateAll(ctx))
	for _, month := range []int{0, 1} {
		_, err := svc.GetAnalytics(ctx, analytics.AnalyticsRequest{BSYear: 2082, BSMonth: month})
		require.NoError(t, err)
	}
	assert.EqualValues(t, 4, empRepo.calls.Load())
}

func TestAnalyticsService_RejectsBadPeriod(t *testing.T) {
	svc := NewAnalyticsService(&countingEmployeeRepo{}, stubAttendanceRepo{}, cache.NewMemory(), time.Hour, analytics.DefaultThresholds())

	_, err := svc.GetAnalytics(context.Background(), analytics.AnalyticsRequest{BSYear: 2082, BSMonth: 12})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "bs_month", verrs[0].Field)
}
