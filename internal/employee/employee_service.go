package employee

import (
	"context"
	"net/http"
	"path"

	"go-employee/internal/photo"
	"go-employee/internal/shared/apperror"
	"go-employee/internal/shared/contextutil"

	"go.uber.org/zap"
)

// DefaultDetailsID is used when the details page is requested without an
// id. Old links depend on it; a missing id would otherwise be a 400.
// A malformed or non-positive id is a 400 and does not fall back.
const DefaultDetailsID = 1

// ImagesURLPrefix is where the images dir is served over HTTP.
const ImagesURLPrefix = "/images"

type Service interface {
	List(ctx context.Context) ([]EmployeeResponse, error)
	Details(ctx context.Context, id *int) (DetailsResponse, error)
	CreateForm() EmployeeFormResponse
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	EditForm(ctx context.Context, id int) (EmployeeFormResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
}

type service struct {
	repo   Repository
	photos photo.Storage
	logger *zap.Logger
}

func NewService(repo Repository, photos photo.Storage, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		photos: photos,
		logger: l,
	}
}

func (s *service) List(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("list employees requested", zap.String("request_id", contextutil.GetRequestID(ctx)))
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) Details(ctx context.Context, id *int) (DetailsResponse, error) {
	targetID := DefaultDetailsID
	if id != nil {
		targetID = *id
	} else {
		s.logger.Warn("details requested without id, using default",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Int("employee_id", DefaultDetailsID),
		)
	}

	empl, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		s.logger.Warn("get employee details failed", zap.Int("employee_id", targetID), zap.Error(err))
		return DetailsResponse{}, mapRepositoryError(err)
	}

	return DetailsResponse{
		PageTitle: detailsPageTitle,
		Employee:  mapToResponse(*empl),
	}, nil
}

func (s *service) CreateForm() EmployeeFormResponse {
	return EmployeeFormResponse{Departments: Departments}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.Bool("has_photo", req.Photo != nil),
	)

	photoName, err := s.photos.Save(ctx, req.Photo)
	if err != nil {
		s.logger.Error("create employee save photo failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, apperror.Wrap(err, apperror.CodeInternalError, "Failed to store photo", http.StatusInternalServerError)
	}

	empl := &Employee{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		PhotoPath:  stringPtr(photoName),
	}

	if err := s.repo.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		s.discardPhoto(ctx, photoName)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.Int("employee_id", empl.ID),
	)
	return mapToResponse(*empl), nil
}

func (s *service) EditForm(ctx context.Context, id int) (EmployeeFormResponse, error) {
	s.logger.Debug("edit employee form requested", zap.Int("employee_id", id))
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("edit employee form fetch failed", zap.Int("employee_id", id), zap.Error(err))
		return EmployeeFormResponse{}, mapRepositoryError(err)
	}

	return EmployeeFormResponse{
		ID:                empl.ID,
		Name:              empl.Name,
		Email:             empl.Email,
		Department:        empl.Department,
		ExistingPhotoPath: empl.Photo(),
		Departments:       Departments,
	}, nil
}

// Update overwrites name, email and department. A new photo replaces the
// old one: the new file is written and the record saved before the old file
// is deleted, so the record never points at a missing photo.
func (s *service) Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.Int("employee_id", req.ID),
		zap.Bool("has_photo", req.Photo != nil),
	)

	empl, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		s.logger.Warn("update employee fetch existing failed", zap.Int("employee_id", req.ID), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.Name = req.Name
	empl.Email = req.Email
	empl.Department = req.Department

	var oldPhoto, newPhoto string
	if req.Photo != nil {
		oldPhoto = empl.Photo()
		if req.ExistingPhotoPath != oldPhoto {
			s.logger.Warn("submitted existing photo differs from stored one",
				zap.Int("employee_id", req.ID),
				zap.String("submitted", req.ExistingPhotoPath),
				zap.String("stored", oldPhoto),
			)
		}

		newPhoto, err = s.photos.Save(ctx, req.Photo)
		if err != nil {
			s.logger.Error("update employee save photo failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, apperror.Wrap(err, apperror.CodeInternalError, "Failed to store photo", http.StatusInternalServerError)
		}
		empl.PhotoPath = stringPtr(newPhoto)
	}

	if err := s.repo.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.String("request_id", rid), zap.Error(err))
		s.discardPhoto(ctx, newPhoto)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if oldPhoto != "" {
		if err := s.photos.Remove(ctx, oldPhoto); err != nil {
			s.logger.Error("update employee remove old photo failed",
				zap.Int("employee_id", req.ID),
				zap.String("file_name", oldPhoto),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("update employee success",
		zap.String("request_id", rid),
		zap.Int("employee_id", empl.ID),
	)
	return mapToResponse(*empl), nil
}

// discardPhoto removes a photo written for a record that was never saved.
func (s *service) discardPhoto(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.photos.Remove(ctx, name); err != nil {
		s.logger.Error("discard orphan photo failed", zap.String("file_name", name), zap.Error(err))
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         empl.ID,
		Name:       empl.Name,
		Email:      empl.Email,
		Department: empl.Department,
		PhotoPath:  empl.Photo(),
	}
	if resp.PhotoPath != "" {
		resp.PhotoURL = path.Join(ImagesURLPrefix, resp.PhotoPath)
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
