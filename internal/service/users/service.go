// Package users manages employee accounts.
package users

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/service/auth"
)

// CreateInput is the payload of a new account.
type CreateInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Name     *string      `json:"name"`
	Role     *models.Role `json:"role"`
}

// View is the public shape of an account.
type View struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

func viewOf(u models.User, withCreated bool) View {
	v := View{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
	if withCreated {
		created := u.CreatedAt
		v.CreatedAt = &created
	}
	return v
}

// Service implements account management.
type Service struct {
	repo   *sqldb.UserRepository
	logger *zap.Logger
}

func NewService(repo *sqldb.UserRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns every account, newest first.
func (s *Service) List(ctx context.Context) ([]View, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	out := make([]View, 0, len(list))
	for _, u := range list {
		out = append(out, viewOf(u, true))
	}
	return out, nil
}

// Create registers a new account with a hashed password.
func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Role == "" {
		return View{}, apperr.Validation("Missing fields")
	}
	if !in.Role.Valid() {
		return View{}, apperr.Validation("Invalid role")
	}

	taken, err := s.repo.EmailTaken(ctx, in.Email, "")
	if err != nil {
		return View{}, apperr.Internal("Internal server error", err)
	}
	if taken {
		return View{}, apperr.Conflict("User already exists")
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return View{}, apperr.Internal("Internal server error", err)
	}

	u := &models.User{Email: in.Email, Password: hashed, Name: in.Name, Role: in.Role}
	if err := s.repo.Create(ctx, u); err != nil {
		if sqldb.IsDuplicate(err) {
			return View{}, apperr.Conflict("User already exists")
		}
		return View{}, apperr.Internal("Internal server error", err)
	}

	s.logger.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return viewOf(*u, false), nil
}

// Update applies a partial update. A new password is re-hashed.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (View, error) {
	updates := map[string]interface{}{}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return View{}, apperr.Validation("Email cannot be empty")
		}
		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return View{}, apperr.Internal("Internal server error", err)
		}
		if taken {
			return View{}, apperr.Conflict("User already exists")
		}
		updates["email"] = email
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return View{}, apperr.Validation("Name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return View{}, apperr.Validation("Invalid role")
		}
		updates["role"] = *in.Role
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := auth.HashPassword(*in.Password)
		if err != nil {
			return View{}, apperr.Internal("Internal server error", err)
		}
		updates["password"] = hashed
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return View{}, translate(err)
		}
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, translate(err)
	}
	return viewOf(*u, false), nil
}

// Delete removes an account. The acting principal cannot delete itself.
func (s *Service) Delete(ctx context.Context, id string) error {
	if actor, ok := auth.PrincipalFrom(ctx); ok && actor.UserID == id {
		return apperr.Validation("Cannot delete yourself")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func translate(err error) error {
	switch {
	case sqldb.IsNotFound(err):
		return apperr.NotFound("User not found")
	case sqldb.IsDuplicate(err):
		return apperr.Conflict("User already exists")
	default:
		return apperr.Internal("Internal server error", err)
	}
}
