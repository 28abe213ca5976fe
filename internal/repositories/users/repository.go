package users

import (
	"context"

	"github.com/dmitrijs2005/usermgmt/internal/models"
)

// ListedUser is the projection returned by List: credentials and second-factor
// secrets are never included.
type ListedUser struct {
	ID     int64
	Name   string
	Email  string
	Gender *models.Gender
}

// GenderStat is one bucket of the gender statistics aggregate.
type GenderStat struct {
	Gender        models.Gender
	Count         int64
	AvgConfidence float64
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetSecondFactorSecret(ctx context.Context, id int64, secret string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*ListedUser, error)
	StatsByGender(ctx context.Context) ([]*GenderStat, error)
}
