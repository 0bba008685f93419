package employee_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go-employee/internal/employee"
	employeeerrors "go-employee/internal/employee/errors"
	"go-employee/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	if err := employee.RegisterValidations(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeEmployeeService struct {
	ListFn       func(ctx context.Context) ([]employee.EmployeeResponse, error)
	DetailsFn    func(ctx context.Context, id *int) (employee.DetailsResponse, error)
	CreateFormFn func() employee.EmployeeFormResponse
	CreateFn     func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	EditFormFn   func(ctx context.Context, id int) (employee.EmployeeFormResponse, error)
	UpdateFn     func(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
}

func (f *fakeEmployeeService) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return f.ListFn(ctx)
}
func (f *fakeEmployeeService) Details(ctx context.Context, id *int) (employee.DetailsResponse, error) {
	return f.DetailsFn(ctx, id)
}
func (f *fakeEmployeeService) CreateForm() employee.EmployeeFormResponse {
	return f.CreateFormFn()
}
func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) EditForm(ctx context.Context, id int) (employee.EmployeeFormResponse, error) {
	return f.EditFormFn(ctx, id)
}
func (f *fakeEmployeeService) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, req)
}

type formFile struct {
	name    string
	content []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, file *formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("photo", file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"name":       "Mary",
		"email":      "mary@pragimtech.com",
		"department": "HR",
	}
}

func TestEmployeeHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			ListFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
				return []employee.EmployeeResponse{
					{ID: 1, Name: "Mary"},
					{ID: 2, Name: "John"},
				}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.List(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Mary")
		assert.Contains(t, w.Body.String(), "John")
	})

	t.Run("service error", func(t *testing.T) {
		svc := &fakeEmployeeService{
			ListFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
				return nil, errors.New("database error")
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.List(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
	})
}

func TestEmployeeHandler_Details(t *testing.T) {
	t.Run("query id", func(t *testing.T) {
		svc := &fakeEmployeeService{
			DetailsFn: func(ctx context.Context, id *int) (employee.DetailsResponse, error) {
				require.NotNil(t, id)
				assert.Equal(t, 4, *id)
				return employee.DetailsResponse{PageTitle: "Employee Details", Employee: employee.EmployeeResponse{ID: 4}}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/Details?id=4", nil)

		h.Details(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Employee Details")
	})

	t.Run("missing id passes nil", func(t *testing.T) {
		called := false
		svc := &fakeEmployeeService{
			DetailsFn: func(ctx context.Context, id *int) (employee.DetailsResponse, error) {
				called = true
				assert.Nil(t, id)
				return employee.DetailsResponse{}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/Details", nil)

		h.Details(c)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/Details?id=abc", nil)

		h.Details(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			DetailsFn: func(ctx context.Context, id *int) (employee.DetailsResponse, error) {
				return employee.DetailsResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/Details?id=99", nil)

		h.Details(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Employee not found")
	})
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("success redirects to details", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "Mary", req.Name)
				assert.Equal(t, employee.DepartmentHR, req.Department)
				require.NotNil(t, req.Photo)
				assert.Equal(t, "mary.png", req.Photo.Filename)
				return employee.EmployeeResponse{ID: 12}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartRequest(t, "/Create", validFields(), &formFile{name: "mary.png", content: []byte("png")})

		h.Create(c)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/Details?id=12", w.Header().Get("Location"))
	})

	t.Run("no photo chosen", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Nil(t, req.Photo)
				return employee.EmployeeResponse{ID: 1}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartRequest(t, "/Create", validFields(), nil)

		h.Create(c)

		assert.Equal(t, http.StatusFound, w.Code)
	})

	rejected := []struct {
		name    string
		field   string
		value   string
		message string
	}{
		{"name too long", "name", strings.Repeat("a", 51), "Name cannot exceed 50 characters"},
		{"name missing", "name", "", "Name is required"},
		{"name blank", "name", "   ", "Name is required"},
		{"bad email", "email", "mary@", "Invalid email format"},
		{"email missing", "email", "", "Office Email is required"},
		{"department missing", "department", "", "Department is required"},
		{"department unknown", "department", "Sales", "Department is invalid"},
	}
	for _, tc := range rejected {
		t.Run("validation: "+tc.name, func(t *testing.T) {
			h := employee.NewHandler(&fakeEmployeeService{})
			fields := validFields()
			fields[tc.field] = tc.value
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = multipartRequest(t, "/Create", fields, nil)

			h.Create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+apperror.CodeValidationError+`","message":"`+tc.message+`"`)
		})
	}

	t.Run("validation keeps submitted values", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		fields := validFields()
		fields["email"] = "not-an-email"
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartRequest(t, "/Create", fields, nil)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Mary"`)
		assert.Contains(t, w.Body.String(), `"email":"not-an-email"`)
	})

	t.Run("storage error", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, errors.New("save photo: disk full")
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartRequest(t, "/Create", validFields(), &formFile{name: "a.png", content: []byte("x")})

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "disk full")
	})
}

func TestEmployeeHandler_EditForm(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			EditFormFn: func(ctx context.Context, id int) (employee.EmployeeFormResponse, error) {
				assert.Equal(t, 3, id)
				return employee.EmployeeFormResponse{ID: 3, Name: "Sara", ExistingPhotoPath: "tok_sara.png"}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/Edit?id=3", nil)

		h.EditForm(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "tok_sara.png")
	})

	t.Run("missing id", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/Edit", nil)

		h.EditForm(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid employee ID")
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	editFields := func() map[string]string {
		f := validFields()
		f["id"] = "3"
		f["existing_photo_path"] = "tok_old.png"
		return f
	}

	t.Run("success redirects to list", func(t *testing.T) {
		svc := &fakeEmployeeService{
			UpdateFn: func(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, 3, req.ID)
				assert.Equal(t, "tok_old.png", req.ExistingPhotoPath)
				assert.Nil(t, req.Photo)
				return employee.EmployeeResponse{ID: 3}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartRequest(t, "/Edit", editFields(), nil)

		h.Update(c)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("validation re-renders edit form", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		fields := editFields()
		fields["name"] = strings.Repeat("n", 60)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartRequest(t, "/Edit", fields, nil)

		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"Name cannot exceed 50 characters"`)
		assert.Contains(t, w.Body.String(), `"existing_photo_path":"tok_old.png"`)
		assert.Contains(t, w.Body.String(), `"id":3`)
	})

	t.Run("blank name", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		fields := editFields()
		fields["name"] = " \t "
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartRequest(t, "/Edit", fields, nil)

		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"Name is required"`)
	})

	t.Run("malformed id", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		fields := editFields()
		fields["id"] = "three"
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartRequest(t, "/Edit", fields, nil)

		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid form submission")
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			UpdateFn: func(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartRequest(t, "/Edit", editFields(), nil)

		h.Update(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
