package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
)

type fakeProvisioner struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
	next  int
}

func newFakeProvisioner(failing ...string) *fakeProvisioner {
	p := &fakeProvisioner{calls: map[string]int{}, fail: map[string]bool{}}
	for _, name := range failing {
		p.fail[employee.NameKey(name)] = true
	}
	return p
}

func (p *fakeProvisioner) Provision(_ context.Context, name string, createdBy string) (employee.Employee, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := employee.NameKey(name)
	p.calls[key]++
	if p.fail[key] {
		return employee.Employee{}, false, errors.New("insert failed")
	}

	p.next++
	return employee.Employee{
		ID:               fmt.Sprintf("new-%d", p.next),
		Name:             name,
		NameKey:          key,
		EmploymentStatus: employee.EmploymentStatusWorking,
		WageBasis:        employee.WageBasisMonthly,
		CreatedBy:        &createdBy,
	}, true, nil
}

func (p *fakeProvisioner) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	roster []employee.Employee
}

func (r *fakeEmployeeRepo) List(context.Context, employee.EmployeeFilter) ([]employee.Employee, error) {
	return r.roster, nil
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	batches [][]attendance.AttendanceRecord
	failOn  int
	records map[string]attendance.AttendanceRecord
	deleted []string
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}}
}

func (r *fakeAttendanceRepo) CreateBatch(_ context.Context, records []attendance.AttendanceRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failOn > 0 && len(r.batches)+1 == r.failOn {
		return 0, errors.New("connection reset")
	}
	r.batches = append(r.batches, records)
	for _, rec := range records {
		rec.ID = fmt.Sprintf("rec-%d", len(r.records)+1)
		r.records[rec.ID] = rec
	}
	return len(records), nil
}

func (r *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (r *fakeAttendanceRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.AttendanceRecord
	for _, rec := range r.records {
		if !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	from := time.Time{}
	to := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	if filter.StartDate != nil {
		from = *filter.StartDate
	}
	if filter.EndDate != nil {
		to = *filter.EndDate
	}
	all, _ := r.ListByDateRange(ctx, from, to)
	return all, int64(len(all)), nil
}

func (r *fakeAttendanceRepo) Update(_ context.Context, record attendance.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	r.records[record.ID] = record
	return nil
}

func (r *fakeAttendanceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.records, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeInvalidator struct {
	mu      sync.Mutex
	periods [][2]int
}

func (f *fakeInvalidator) Invalidate(_ context.Context, bsYear, bsMonth int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.periods = append(f.periods, [2]int{bsYear, bsMonth})
	return nil
}
