package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// EmployeesHandler manages the employee directory and departments.
type EmployeesHandler struct {
	directory *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(directory *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{directory: directory}
}

// CreateEmployee handles POST /employees.
func (h *EmployeesHandler) CreateEmployee(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}

	employee, err := h.directory.CreateEmployee(c.Context(), service.EmployeeCreateInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, employeeResponse(employee))
}

// ListEmployees handles GET /employees.
func (h *EmployeesHandler) ListEmployees(c *fiber.Ctx) error {
	filter := parseEmployeeFilter(c)
	employees, err := h.directory.ListEmployees(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, employeeResponse(&employees[i]))
	}
	return respond(c, http.StatusOK, items)
}

// GetEmployee handles GET /employees/:id.
func (h *EmployeesHandler) GetEmployee(c *fiber.Ctx) error {
	employee, err := h.directory.GetEmployee(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, employeeResponse(employee))
}

// UpdateEmployee handles PUT /employees/:id.
func (h *EmployeesHandler) UpdateEmployee(c *fiber.Ctx) error {
	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.directory.UpdateEmployee(c.Context(), c.Params("id"), service.EmployeeUpdateInput{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		Active:       req.Active,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, employeeResponse(employee))
}

// CreateDepartment handles POST /departments.
func (h *EmployeesHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	dept, err := h.directory.CreateDepartment(c.Context(), req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, departmentResponse(dept))
}

// ListDepartments handles GET /departments.
func (h *EmployeesHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.directory.ListDepartments(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, departmentResponse(&departments[i]))
	}
	return respond(c, http.StatusOK, items)
}

// GetDepartment handles GET /departments/:id.
func (h *EmployeesHandler) GetDepartment(c *fiber.Ctx) error {
	dept, err := h.directory.GetDepartment(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, departmentResponse(dept))
}

// UpdateDepartment handles PUT /departments/:id.
func (h *EmployeesHandler) UpdateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	dept, err := h.directory.UpdateDepartment(c.Context(), c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, departmentResponse(dept))
}

// DeleteDepartment handles DELETE /departments/:id.
func (h *EmployeesHandler) DeleteDepartment(c *fiber.Ctx) error {
	if err := h.directory.DeleteDepartment(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"status": "deleted"})
}

func parseEmployeeFilter(c *fiber.Ctx) repository.EmployeeFilter {
	var filter repository.EmployeeFilter
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.Role(roleStr)
		filter.Role = &role
	}
	if deptID := c.Query("department_id"); deptID != "" {
		filter.DepartmentID = &deptID
	}
	filter.Active = parseBoolQuery(c, "active")
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		CreatedAt: dept.CreatedAt,
		UpdatedAt: dept.UpdatedAt,
	}
}
