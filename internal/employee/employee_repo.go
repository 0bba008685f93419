package employee

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id int) (*Employee, error)
	Create(ctx context.Context, empl *Employee) error
	Update(ctx context.Context, empl *Employee) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id int) (*Employee, error) {
	var empl Employee
	if err := r.db.WithContext(ctx).First(&empl, id).Error; err != nil {
		return nil, err
	}
	return &empl, nil
}

// Create inserts empl and fills in the generated ID.
func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}
