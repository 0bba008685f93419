package employee

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	employeeerrors "go-employee/internal/employee/errors"
	"go-employee/internal/shared/apperror"
	"go-employee/internal/shared/contextutil"
	"go-employee/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	logger := contextutil.GetLogger(c.Request.Context(), h.logger)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		logger.Error("employee request failed", append(fields, zap.Error(err))...)
	} else {
		logger.Warn("employee request failed", append(fields, zap.String("message", httpErr.Message))...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}

// writeInvalidForm renders the submitted form back with per-field errors.
func (h *Handler) writeInvalidForm(c *gin.Context, form EmployeeFormResponse, err error) {
	fields, ok := apperror.FieldErrors(err, validationMessages)
	if !ok {
		h.logger.Warn("http employee form unreadable", zap.Error(err))
		response.Error(c, http.StatusBadRequest, employeeerrors.ErrInvalidForm.Code, employeeerrors.ErrInvalidForm.Message, nil)
		return
	}

	h.logger.Warn("http employee form validation failed", zap.Any("fields", fields))
	form.Departments = Departments
	form.Errors = fields
	// Envelope message names the first failed field.
	first := apperror.ToHTTP(apperror.MapValidationError(err, validationMessages))
	response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, first.Message, form)
}

func (h *Handler) List(c *gin.Context) {
	h.logger.Debug("http list employees")

	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Details(c *gin.Context) {
	id, err := optionalID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.logger.Debug("http employee details", zap.Any("employee_id", id))

	resp, err := h.service.Details(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) CreateForm(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.CreateForm())
}

func (h *Handler) Create(c *gin.Context) {
	h.logger.Debug("http create employee")
	var req CreateEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeInvalidForm(c, EmployeeFormResponse{
			Name:       req.Name,
			Email:      req.Email,
			Department: req.Department,
		}, err)
		return
	}
	req.Photo = submittedPhoto(req.Photo)

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/Details?id=%d", resp.ID))
}

func (h *Handler) EditForm(c *gin.Context) {
	id, err := optionalID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if id == nil {
		h.writeServiceError(c, employeeerrors.ErrInvalidEmployeeID)
		return
	}
	h.logger.Debug("http edit employee form", zap.Int("employee_id", *id))

	resp, err := h.service.EditForm(c.Request.Context(), *id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Update(c *gin.Context) {
	h.logger.Debug("http update employee")
	var req UpdateEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeInvalidForm(c, EmployeeFormResponse{
			ID:                req.ID,
			Name:              req.Name,
			Email:             req.Email,
			Department:        req.Department,
			ExistingPhotoPath: req.ExistingPhotoPath,
		}, err)
		return
	}
	req.Photo = submittedPhoto(req.Photo)

	if _, err := h.service.Update(c.Request.Context(), req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// optionalID reads the employee id from the path or the query string.
// A missing id is nil; a malformed one is an error.
func optionalID(c *gin.Context) (*int, error) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	return &id, nil
}

// submittedPhoto treats the empty file part browsers send when no file was
// chosen the same as no part at all.
func submittedPhoto(fh *multipart.FileHeader) *multipart.FileHeader {
	if fh == nil || (fh.Filename == "" && fh.Size == 0) {
		return nil
	}
	return fh
}
