package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/persistence"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// AttendanceService coordinates clock-in/clock-out workflows.
type AttendanceService struct {
	records    repository.AttendanceRepository
	settings   *SettingsService
	photos     *persistence.PhotoStore
	dispatcher events.Dispatcher
	now        func() time.Time
}

// AttendanceDependencies bundles collaborators for the service.
type AttendanceDependencies struct {
	AttendanceRepo repository.AttendanceRepository
	Settings       *SettingsService
	Photos         *persistence.PhotoStore
	Dispatcher     events.Dispatcher
}

// NewAttendanceService constructs the service.
func NewAttendanceService(deps AttendanceDependencies) *AttendanceService {
	return &AttendanceService{
		records:    deps.AttendanceRepo,
		settings:   deps.Settings,
		photos:     deps.Photos,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// PhotoUpload carries an attendance photo from the transport layer.
type PhotoUpload struct {
	Content     io.Reader
	Size        int64
	ContentType string
}

// ClockInInput describes a clock-in request.
type ClockInInput struct {
	Location *string
	Photo    *PhotoUpload
	Notes    *string
}

// ClockOutInput describes a clock-out request.
type ClockOutInput struct {
	Location *string
	Photo    *PhotoUpload
	Notes    *string
}

// PresenceState describes an employee's current situation.
type PresenceState string

const (
	PresenceClockedIn    PresenceState = "clocked_in"
	PresenceClockedOut   PresenceState = "clocked_out"
	PresenceNotClockedIn PresenceState = "not_clocked_in"
)

// Presence pairs the state with the record backing it, if any.
type Presence struct {
	State  PresenceState
	Record *domain.AttendanceRecord
}

// ClockIn opens a new attendance record. An existing open record is a
// conflict; the workday start setting decides the late flag.
func (s *AttendanceService) ClockIn(ctx context.Context, employeeID string, input ClockInInput) (*domain.AttendanceRecord, error) {
	if open, err := s.records.GetOpenByEmployee(ctx, employeeID); err == nil {
		return nil, apperrors.NewConflict("Already clocked in", map[string]any{"record_id": open.ID})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	photoKey, err := s.storePhoto(ctx, employeeID, "in", input.Photo)
	if err != nil {
		return nil, err
	}

	loc, err := s.businessLocation(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().In(loc)
	late, err := s.isLate(ctx, now)
	if err != nil {
		return nil, err
	}

	record := &domain.AttendanceRecord{
		EmployeeID:      employeeID,
		WorkDate:        workDateOf(now),
		ClockInAt:       now,
		ClockInLocation: input.Location,
		ClockInPhotoKey: photoKey,
		Notes:           input.Notes,
		Late:            late,
		Status:          domain.AttendanceStatusOpen,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventEmployeeClockedIn, employeeID, events.ClockedInPayload{
		RecordID: record.ID,
		WorkDate: record.WorkDate,
		Late:     record.Late,
		Location: record.ClockInLocation,
	})
	if late {
		start, _ := s.settings.Get(ctx, domain.SettingWorkdayStart)
		s.publish(ctx, events.EventLateArrival, employeeID, events.LateArrivalPayload{
			RecordID:     record.ID,
			WorkDate:     record.WorkDate,
			ClockInAt:    record.ClockInAt,
			WorkdayStart: start,
		})
	}
	return record, nil
}

// ClockOut closes the employee's open record.
func (s *AttendanceService) ClockOut(ctx context.Context, employeeID string, input ClockOutInput) (*domain.AttendanceRecord, error) {
	record, err := s.records.GetOpenByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("Not clocked in", nil)
		}
		return nil, err
	}

	photoKey, err := s.storePhoto(ctx, employeeID, "out", input.Photo)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record.ClockOutAt = &now
	record.ClockOutLocation = input.Location
	record.ClockOutPhotoKey = photoKey
	if input.Notes != nil {
		record.Notes = input.Notes
	}
	record.Status = domain.AttendanceStatusClosed
	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventEmployeeClockedOut, employeeID, events.ClockedOutPayload{
		RecordID:      record.ID,
		WorkDate:      record.WorkDate,
		WorkedSeconds: int64(record.Duration().Seconds()),
	})
	return record, nil
}

// CurrentPresence reports whether the employee is clocked in right now,
// falling back to today's latest closed record.
func (s *AttendanceService) CurrentPresence(ctx context.Context, employeeID string) (*Presence, error) {
	record, err := s.records.GetOpenByEmployee(ctx, employeeID)
	if err == nil {
		return &Presence{State: PresenceClockedIn, Record: record}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	loc, err := s.businessLocation(ctx)
	if err != nil {
		return nil, err
	}
	today := workDateOf(s.now().In(loc))
	closed, err := s.records.ListWithFilter(ctx, repository.AttendanceFilter{
		EmployeeID: &employeeID,
		From:       &today,
		To:         &today,
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(closed) == 0 {
		return &Presence{State: PresenceNotClockedIn}, nil
	}
	return &Presence{State: PresenceClockedOut, Record: &closed[0]}, nil
}

// ListRecords returns attendance records matching the filter.
func (s *AttendanceService) ListRecords(ctx context.Context, filter repository.AttendanceFilter) ([]domain.AttendanceRecord, error) {
	return s.records.ListWithFilter(ctx, filter)
}

// GetRecord loads a single attendance record.
func (s *AttendanceService) GetRecord(ctx context.Context, id string) (*domain.AttendanceRecord, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("attendance record", map[string]any{"record_id": id})
		}
		return nil, err
	}
	return record, nil
}

// PhotoURL presigns a download link for the record's clock-in or
// clock-out photo.
func (s *AttendanceService) PhotoURL(ctx context.Context, record *domain.AttendanceRecord, side string) (string, error) {
	var key *string
	switch side {
	case "in":
		key = record.ClockInPhotoKey
	case "out":
		key = record.ClockOutPhotoKey
	default:
		return "", apperrors.NewValidationError("Photo side must be in or out", nil)
	}
	if key == nil {
		return "", apperrors.NewNotFound("photo", map[string]any{"record_id": record.ID, "side": side})
	}

	url, err := s.photos.PresignGet(ctx, *key)
	if err != nil {
		if errors.Is(err, persistence.ErrPhotoStoreDisabled) {
			return "", apperrors.NewDomainError("STORAGE_DISABLED", "Photo storage not configured", 503, nil)
		}
		return "", err
	}
	return url, nil
}

// storePhoto uploads the photo when present and enforces the
// require-photo setting.
func (s *AttendanceService) storePhoto(ctx context.Context, employeeID, side string, photo *PhotoUpload) (*string, error) {
	required, err := s.settings.GetBool(ctx, domain.SettingRequirePhoto)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		if required {
			return nil, apperrors.NewValidationError("Photo is required", nil)
		}
		return nil, nil
	}
	if !s.photos.Enabled() {
		return nil, apperrors.NewDomainError("STORAGE_DISABLED", "Photo storage not configured", 503, nil)
	}

	key := fmt.Sprintf("attendance/%s/%s-%s", employeeID, side, uuid.NewString())
	if err := s.photos.Put(ctx, key, photo.Content, photo.Size, photo.ContentType); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}
	return &key, nil
}

// isLate compares the clock-in instant with the configured workday start
// on the same date.
func (s *AttendanceService) isLate(ctx context.Context, clockInAt time.Time) (bool, error) {
	value, err := s.settings.Get(ctx, domain.SettingWorkdayStart)
	if err != nil {
		return false, err
	}
	hour, minute, err := parseTimeOfDay(value)
	if err != nil {
		return false, err
	}
	start := time.Date(clockInAt.Year(), clockInAt.Month(), clockInAt.Day(), hour, minute, 0, 0, clockInAt.Location())
	return clockInAt.After(start), nil
}

// businessLocation resolves the configured attendance timezone so that
// work dates and the late flag follow office time, not server time.
func (s *AttendanceService) businessLocation(ctx context.Context) (*time.Location, error) {
	value, err := s.settings.Get(ctx, domain.SettingTimezone)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(value)
	if err != nil {
		return nil, fmt.Errorf("setting %s is not a timezone: %w", domain.SettingTimezone, err)
	}
	return loc, nil
}

// workDateOf truncates an instant to its calendar date.
func workDateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *AttendanceService) publish(ctx context.Context, eventType events.EventType, employeeID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}
