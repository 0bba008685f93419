package employee

import (
	"mime/multipart"
	"regexp"

	"go-employee/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const detailsPageTitle = "Employee Details"

var officeEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9.-]+$`)

// validationMessages overrides the generic field messages, keyed by field.tag.
var validationMessages = map[string]string{
	"name.required":       "Name is required",
	"name.notblank":       "Name is required",
	"name.max":            "Name cannot exceed 50 characters",
	"email.required":      "Office Email is required",
	"email.office_email":  "Invalid email format",
	"department.required": "Department is required",
	"department.oneof":    "Department is invalid",
}

// RegisterValidations installs the employee rules on gin's validator.
func RegisterValidations() error {
	if err := apperror.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return err
	}
	return apperror.RegisterValidation("office_email", func(fl validator.FieldLevel) bool {
		return officeEmailPattern.MatchString(fl.Field().String())
	})
}

type CreateEmployeeRequest struct {
	Name       string                `form:"name" binding:"required,notblank,max=50"`
	Email      string                `form:"email" binding:"required,office_email"`
	Department Department            `form:"department" binding:"required,oneof=None HR IT Payroll"`
	Photo      *multipart.FileHeader `form:"photo"`
}

type UpdateEmployeeRequest struct {
	ID                int                   `form:"id" binding:"required,min=1"`
	Name              string                `form:"name" binding:"required,notblank,max=50"`
	Email             string                `form:"email" binding:"required,office_email"`
	Department        Department            `form:"department" binding:"required,oneof=None HR IT Payroll"`
	ExistingPhotoPath string                `form:"existing_photo_path"`
	Photo             *multipart.FileHeader `form:"photo"`
}

type EmployeeResponse struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Department Department `json:"department"`
	PhotoPath  string     `json:"photo_path,omitempty"`
	PhotoURL   string     `json:"photo_url,omitempty"`
}

type DetailsResponse struct {
	PageTitle string           `json:"page_title"`
	Employee  EmployeeResponse `json:"employee"`
}

// EmployeeFormResponse is the create/edit form view-model. Errors is only
// set when a submitted form is rendered back.
type EmployeeFormResponse struct {
	ID                int               `json:"id,omitempty"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Department        Department        `json:"department,omitempty"`
	ExistingPhotoPath string            `json:"existing_photo_path,omitempty"`
	Departments       []Department      `json:"departments"`
	Errors            map[string]string `json:"errors,omitempty"`
}
