package services

import (
	"context"
	"errors"
	"fmt"

	"procurement-app/models"
	"procurement-app/procurement/status"
	"procurement-app/repositories"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidRole = errors.New("invalid role")

type UserService struct {
	repo *repositories.UserRepository
}

func NewUserService(repo *repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

type UserInput struct {
	Username   string `json:"username" validate:"required,min=3"`
	Name       string `json:"name" validate:"required,min=3"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department"`
}

type UserUpdate struct {
	Name       string `json:"name" validate:"required,min=3"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department"`
	// Password is only changed when set.
	Password string `json:"password" validate:"omitempty,min=6"`
}

func validRole(role string) error {
	switch status.Role(role) {
	case status.RoleRequester, status.RoleApprover, status.RolePurchaser, status.RoleAdmin:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidRole, role)
}

// newUser builds the row for in with a bcrypt hash of the password.
func newUser(in UserInput, createdBy int) (*models.User, error) {
	if err := validRole(in.Role); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username:   in.Username,
		Name:       in.Name,
		Email:      in.Email,
		Password:   string(hash),
		Role:       in.Role,
		Department: in.Department,
		CreatedBy:  createdBy,
		UpdatedBy:  createdBy,
	}, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) CreateUser(ctx context.Context, actor Actor, in UserInput) (*models.User, error) {
	user, err := newUser(in, int(actor.UserID))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser changes the name, role and department, and the password when given.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, id uint, in UserUpdate) (*models.User, error) {
	if err := validRole(in.Role); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = in.Name
	user.Role = in.Role
	user.Department = in.Department
	user.UpdatedBy = int(actor.UserID)
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
