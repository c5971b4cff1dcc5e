package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployee(name string) employee.Employee {
	return employee.Employee{
		Name:             name,
		NameKey:          employee.NameKey(name),
		EmploymentStatus: employee.EmploymentStatusWorking,
		WageBasis:        employee.WageBasisMonthly,
		WageAmount:       decimal.NewFromInt(30000),
	}
}

func TestEmployeeRepository_CreateAndUpdate(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, newEmployee("Sita Sharma"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.WageAmount.Equal(decimal.NewFromInt(30000)))

	_, err = repo.Create(ctx, newEmployee("SITA  sharma"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNameExists)

	name := "Sita Thapa"
	status := string(employee.EmploymentStatusResigned)
	require.NoError(t, repo.Update(ctx, created.ID, employee.UpdateEmployeeRequest{Name: &name, EmploymentStatus: &status}))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sita Thapa", got.Name)
	assert.Equal(t, "sita thapa", got.NameKey)
	assert.Equal(t, employee.EmploymentStatusResigned, got.EmploymentStatus)

	assert.ErrorIs(t, repo.Update(ctx, "missing", employee.UpdateEmployeeRequest{Name: &name}), employee.ErrEmployeeNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_CreateIfAbsentConcurrent(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[string]bool{}
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, isNew, err := repo.CreateIfAbsent(ctx, newEmployee("Ram Bahadur"))
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			if isNew {
				created++
			}
			ids[e.ID] = true
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)

	list, err := repo.List(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAttendanceRepository_UpsertAndList(t *testing.T) {
	setup := NewTestDatabase(t)
	employees := postgresql.NewEmployeeRepository(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	sita, err := employees.Create(ctx, newEmployee("Sita Sharma"))
	require.NoError(t, err)

	day := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)
	in := "09:00"
	record := attendance.AttendanceRecord{
		Date:            day,
		NepaliDate:      "2082-01-01",
		EmployeeID:      &sita.ID,
		EmployeeName:    sita.Name,
		ClockIn:         &in,
		Status:          attendance.StatusPresent,
		GrossHours:      9,
		RegularHours:    8,
		OvertimeHours:   1,
		ImportedFigures: map[string]float64{"bonus": 500},
		ImportedBy:      "admin",
	}
	next := record
	next.Date = day.AddDate(0, 0, 1)
	next.NepaliDate = "2082-01-02"

	written, err := repo.CreateBatch(ctx, []attendance.AttendanceRecord{record, next})
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	// Same employee and day replaces the earlier row.
	record.Status = attendance.StatusAbsent
	record.GrossHours, record.RegularHours, record.OvertimeHours = 0, 0, 0
	_, err = repo.CreateBatch(ctx, []attendance.AttendanceRecord{record})
	require.NoError(t, err)

	all, err := repo.ListByDateRange(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, attendance.StatusAbsent, all[0].Status)
	assert.Equal(t, 500.0, all[0].ImportedFigures["bonus"])

	status := string(attendance.StatusPresent)
	page, total, err := repo.List(ctx, attendance.AttendanceFilter{Status: &status, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, "2082-01-02", page[0].NepaliDate)

	page[0].Remarks = "checked"
	require.NoError(t, repo.Update(ctx, page[0]))
	got, err := repo.GetByID(ctx, page[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "checked", got.Remarks)

	require.NoError(t, repo.Delete(ctx, got.ID))
	assert.ErrorIs(t, repo.Delete(ctx, got.ID), attendance.ErrAttendanceNotFound)
}
