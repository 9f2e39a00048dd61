package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
)

type fakeEmployeeRepo struct {
	byID   map[string]*domain.Employee
	nextID int
	err    error
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{byID: make(map[string]*domain.Employee)}
}

func (f *fakeEmployeeRepo) Create(_ context.Context, employee *domain.Employee) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	employee.ID = fmt.Sprintf("emp-%d", f.nextID)
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = employee.CreatedAt
	copied := *employee
	f.byID[employee.ID] = &copied
	return nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, employee *domain.Employee) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[employee.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *employee
	f.byID[employee.ID] = &copied
	return nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	employee, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *employee
	return &copied, nil
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, employee := range f.byID {
		if strings.EqualFold(employee.Email, email) {
			copied := *employee
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEmployeeRepo) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []domain.Employee
	for _, employee := range f.byID {
		if filter.Role != nil && employee.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && employee.IsActive != *filter.Active {
			continue
		}
		result = append(result, *employee)
	}
	return result, nil
}

func (f *fakeEmployeeRepo) Count(_ context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.byID)), nil
}

type fakeAttendanceRepo struct {
	byID   map[string]*domain.AttendanceRecord
	nextID int
	err    error
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{byID: make(map[string]*domain.AttendanceRecord)}
}

func (f *fakeAttendanceRepo) Create(_ context.Context, record *domain.AttendanceRecord) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	record.ID = fmt.Sprintf("att-%d", f.nextID)
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	copied := *record
	f.byID[record.ID] = &copied
	return nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, record *domain.AttendanceRecord) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[record.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *record
	f.byID[record.ID] = &copied
	return nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (*domain.AttendanceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *record
	return &copied, nil
}

func (f *fakeAttendanceRepo) GetOpenByEmployee(_ context.Context, employeeID string) (*domain.AttendanceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, record := range f.byID {
		if record.EmployeeID == employeeID && record.Status == domain.AttendanceStatusOpen {
			copied := *record
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttendanceRepo) ListWithFilter(_ context.Context, filter repository.AttendanceFilter) ([]domain.AttendanceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []domain.AttendanceRecord
	for _, record := range f.byID {
		if filter.EmployeeID != nil && record.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && record.Status != *filter.Status {
			continue
		}
		if filter.From != nil && record.WorkDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && record.WorkDate.After(*filter.To) {
			continue
		}
		result = append(result, *record)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

type fakeDepartmentRepo struct {
	byID   map[string]*domain.Department
	nextID int
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{byID: make(map[string]*domain.Department)}
}

func (f *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	f.nextID++
	dept.ID = fmt.Sprintf("dept-%d", f.nextID)
	dept.CreatedAt = time.Now()
	dept.UpdatedAt = dept.CreatedAt
	copied := *dept
	f.byID[dept.ID] = &copied
	return nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	if _, ok := f.byID[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *dept
	f.byID[dept.ID] = &copied
	return nil
}

func (f *fakeDepartmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *dept
	return &copied, nil
}

func (f *fakeDepartmentRepo) List(_ context.Context) ([]domain.Department, error) {
	var result []domain.Department
	for _, dept := range f.byID {
		result = append(result, *dept)
	}
	return result, nil
}

type fakeSettingRepo struct {
	byKey map[string]domain.Setting
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{byKey: make(map[string]domain.Setting)}
}

func (f *fakeSettingRepo) Get(_ context.Context, key string) (*domain.Setting, error) {
	setting, ok := f.byKey[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &setting, nil
}

func (f *fakeSettingRepo) Upsert(_ context.Context, setting *domain.Setting) error {
	setting.UpdatedAt = time.Now()
	f.byKey[setting.Key] = *setting
	return nil
}

func (f *fakeSettingRepo) List(_ context.Context) ([]domain.Setting, error) {
	var result []domain.Setting
	for _, setting := range f.byKey {
		result = append(result, setting)
	}
	return result, nil
}

type fakeSettingCache struct {
	values map[string]string
	hits   int
	sets   int
}

func newFakeSettingCache() *fakeSettingCache {
	return &fakeSettingCache{values: make(map[string]string)}
}

func (f *fakeSettingCache) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := f.values[key]
	if ok {
		f.hits++
	}
	return value, ok, nil
}

func (f *fakeSettingCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.sets++
	f.values[key] = value
	return nil
}

func (f *fakeSettingCache) Invalidate(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

type fakeResetStore struct {
	tokens map[string]string
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{tokens: make(map[string]string)}
}

func (f *fakeResetStore) Save(_ context.Context, token, employeeID string, _ time.Duration) error {
	f.tokens[token] = employeeID
	return nil
}

func (f *fakeResetStore) Consume(_ context.Context, token string) (string, error) {
	employeeID, ok := f.tokens[token]
	if !ok {
		return "", repository.ErrResetTokenNotFound
	}
	delete(f.tokens, token)
	return employeeID, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) typesSeen() []events.EventType {
	seen := make([]events.EventType, 0, len(d.published))
	for _, event := range d.published {
		seen = append(seen, event.Type)
	}
	return seen
}
