package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// AttendanceHandler manages clock-in/out and record endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendanceService}
}

// ClockIn handles POST /attendance/clock-in. Accepts JSON or a
// multipart form carrying the attendance photo.
func (h *AttendanceHandler) ClockIn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}

	form, cleanup, err := parseClockForm(c)
	if err != nil {
		return err
	}
	defer cleanup()

	record, err := h.attendance.ClockIn(c.Context(), principal.ID, service.ClockInInput{
		Location: form.Location,
		Photo:    form.Photo,
		Notes:    form.Notes,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, attendanceResponse(record))
}

// ClockOut handles POST /attendance/clock-out.
func (h *AttendanceHandler) ClockOut(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}

	form, cleanup, err := parseClockForm(c)
	if err != nil {
		return err
	}
	defer cleanup()

	record, err := h.attendance.ClockOut(c.Context(), principal.ID, service.ClockOutInput{
		Location: form.Location,
		Photo:    form.Photo,
		Notes:    form.Notes,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, attendanceResponse(record))
}

// Presence handles GET /attendance/status.
func (h *AttendanceHandler) Presence(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}

	presence, err := h.attendance.CurrentPresence(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	resp := dto.PresenceResponse{State: string(presence.State)}
	if presence.Record != nil {
		record := attendanceResponse(presence.Record)
		resp.Record = &record
	}
	return respond(c, http.StatusOK, resp)
}

// ListOwnRecords handles GET /attendance/records for the caller.
func (h *AttendanceHandler) ListOwnRecords(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}

	filter := parseAttendanceFilter(c)
	filter.EmployeeID = &principal.ID
	return h.listRecords(c, filter)
}

// ListEmployeeRecords handles GET /employees/:id/attendance. The route
// guard has already admitted only admins or the owner.
func (h *AttendanceHandler) ListEmployeeRecords(c *fiber.Ctx) error {
	employeeID := c.Params("id")
	filter := parseAttendanceFilter(c)
	filter.EmployeeID = &employeeID
	return h.listRecords(c, filter)
}

// GetRecord handles GET /attendance/records/:id.
func (h *AttendanceHandler) GetRecord(c *fiber.Ctx) error {
	record, err := h.loadAuthorizedRecord(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, attendanceResponse(record))
}

// PhotoURL handles GET /attendance/records/:id/photo?side=in|out.
func (h *AttendanceHandler) PhotoURL(c *fiber.Ctx) error {
	record, err := h.loadAuthorizedRecord(c)
	if err != nil {
		return err
	}

	side := c.Query("side", "in")
	url, err := h.attendance.PhotoURL(c.Context(), record, side)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.PhotoURLResponse{URL: url})
}

func (h *AttendanceHandler) listRecords(c *fiber.Ctx, filter repository.AttendanceFilter) error {
	records, err := h.attendance.ListRecords(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		items = append(items, attendanceResponse(&records[i]))
	}
	return respond(c, http.StatusOK, items)
}

// loadAuthorizedRecord fetches the record and verifies the caller may
// see it. Record ownership is only known after the load, so the check
// lives here rather than in the route guard.
func (h *AttendanceHandler) loadAuthorizedRecord(c *fiber.Ctx) (*domain.AttendanceRecord, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("Authentication required")
	}
	record, err := h.attendance.GetRecord(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if principal.Role != domain.RoleAdmin && record.EmployeeID != principal.ID {
		return nil, apperrors.NewForbidden("Insufficient permissions")
	}
	return record, nil
}

// maxPhotoBytes caps attendance photo uploads.
const maxPhotoBytes = 5 << 20

// clockForm is the parsed transport payload for clock-in/out.
type clockForm struct {
	Location *string
	Photo    *service.PhotoUpload
	Notes    *string
}

// parseClockForm reads location, notes and the optional photo from
// either a JSON body or a multipart form. The returned cleanup closes
// the uploaded file and is safe to call unconditionally.
func parseClockForm(c *fiber.Ctx) (clockForm, func(), error) {
	var form clockForm
	cleanup := func() {}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if val := strings.TrimSpace(c.FormValue("location")); val != "" {
			var loc dto.LocationPayload
			if err := json.Unmarshal([]byte(val), &loc); err != nil {
				return form, cleanup, apperrors.NewValidationError("Location must be a JSON object", nil)
			}
			location, err := formatLocation(&loc)
			if err != nil {
				return form, cleanup, err
			}
			form.Location = location
		}
		if val := strings.TrimSpace(c.FormValue("notes")); val != "" {
			form.Notes = &val
		}

		fileHeader, err := c.FormFile("photo")
		if err != nil || fileHeader == nil {
			return form, cleanup, nil
		}
		if fileHeader.Size > maxPhotoBytes {
			return form, cleanup, apperrors.NewValidationError("Photo exceeds the 5MB limit", nil)
		}
		file, err := fileHeader.Open()
		if err != nil {
			return form, cleanup, apperrors.NewValidationError("unreadable photo upload", nil)
		}
		cleanup = func() { _ = file.Close() }

		head := make([]byte, 512)
		n, _ := io.ReadFull(file, head)
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return form, cleanup, apperrors.NewValidationError("unreadable photo upload", nil)
		}
		contentType := http.DetectContentType(head[:n])
		if !strings.HasPrefix(contentType, "image/") {
			return form, cleanup, apperrors.NewValidationError("Photo must be an image", nil)
		}
		form.Photo = &service.PhotoUpload{
			Content:     file,
			Size:        fileHeader.Size,
			ContentType: contentType,
		}
		return form, cleanup, nil
	}

	if len(c.Body()) == 0 {
		return form, cleanup, nil
	}
	var req dto.ClockRequest
	if err := c.BodyParser(&req); err != nil {
		return form, cleanup, apperrors.NewValidationError("invalid payload", nil)
	}
	location, err := formatLocation(req.Location)
	if err != nil {
		return form, cleanup, err
	}
	form.Location = location
	if req.Photo != nil && *req.Photo != "" {
		photo, err := decodePhoto(*req.Photo)
		if err != nil {
			return form, cleanup, err
		}
		form.Photo = photo
	}
	if req.Notes != nil {
		if trimmed := strings.TrimSpace(*req.Notes); trimmed != "" {
			form.Notes = &trimmed
		}
	}
	return form, cleanup, nil
}

// formatLocation validates a geolocation fix and flattens it to the
// stored "lat,lon[,accuracy]" form.
func formatLocation(loc *dto.LocationPayload) (*string, error) {
	if loc == nil {
		return nil, nil
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return nil, apperrors.NewValidationError("Latitude must be between -90 and 90", nil)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return nil, apperrors.NewValidationError("Longitude must be between -180 and 180", nil)
	}
	formatted := fmt.Sprintf("%.6f,%.6f", loc.Latitude, loc.Longitude)
	if loc.Accuracy != nil {
		formatted = fmt.Sprintf("%s,%.1f", formatted, *loc.Accuracy)
	}
	return &formatted, nil
}

// decodePhoto turns a base64 photo, with or without a data URL prefix,
// into an upload. The content type comes from sniffing the bytes.
func decodePhoto(encoded string) (*service.PhotoUpload, error) {
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
		encoded = encoded[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.NewValidationError("Photo must be base64 encoded", nil)
	}
	if len(data) > maxPhotoBytes {
		return nil, apperrors.NewValidationError("Photo exceeds the 5MB limit", nil)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.NewValidationError("Photo must be an image", nil)
	}
	return &service.PhotoUpload{
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func parseAttendanceFilter(c *fiber.Ctx) repository.AttendanceFilter {
	var filter repository.AttendanceFilter
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.AttendanceStatus(statusStr)
		filter.Status = &status
	}
	filter.Late = parseBoolQuery(c, "late")
	filter.From = parseDateQuery(c, "from")
	filter.To = parseDateQuery(c, "to")
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 31)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func attendanceResponse(record *domain.AttendanceRecord) dto.AttendanceRecordResponse {
	return dto.AttendanceRecordResponse{
		ID:               record.ID,
		EmployeeID:       record.EmployeeID,
		WorkDate:         record.WorkDate.Format("2006-01-02"),
		ClockInAt:        record.ClockInAt,
		ClockOutAt:       record.ClockOutAt,
		ClockInLocation:  record.ClockInLocation,
		ClockOutLocation: record.ClockOutLocation,
		HasClockInPhoto:  record.ClockInPhotoKey != nil,
		HasClockOutPhoto: record.ClockOutPhotoKey != nil,
		Notes:            record.Notes,
		Late:             record.Late,
		Status:           record.Status,
		WorkedSeconds:    int64(record.Duration().Seconds()),
	}
}
