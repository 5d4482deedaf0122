package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/validate"
	"github.com/etec-programacion-3/biblioteca-backend/internal/auth"
	"github.com/etec-programacion-3/biblioteca-backend/internal/metrics"
	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
	"github.com/etec-programacion-3/biblioteca-backend/internal/worker"
)

const minPasswordLen = 8

// dummyHash keeps the unknown-user login path doing the same bcrypt work as
// the wrong-password path.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserService struct {
	users  repo.Users
	audits repo.AuditLogs
	wp     *worker.Pool
	tm     *auth.TokenManager
}

func NewUserService(users repo.Users, audits repo.AuditLogs, wp *worker.Pool, tm *auth.TokenManager) *UserService {
	return &UserService{users: users, audits: audits, wp: wp, tm: tm}
}

func validateNewUser(username, email, password string) validate.Errs {
	var errs validate.Errs
	for _, e := range []*validate.ErrField{
		validate.Required("username", username),
		validate.Alnum("username", username),
		validate.Required("email", email),
		validate.Email("email", email),
		validate.MinLen("password", password, minPasswordLen),
	} {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	return errs
}

// Register creates a self-service account. The role is always usuario; the
// administrative creation path is CreateWithRole.
func (s *UserService) Register(ctx context.Context, username, email, password, name string) (models.User, error) {
	return s.create(ctx, username, email, password, name, models.RoleUser)
}

// CreateWithRole is the administrative creation path (createadmin tool).
func (s *UserService) CreateWithRole(ctx context.Context, username, email, password, name, role string) (models.User, error) {
	if !models.ValidRole(role) {
		return models.User{}, validate.Errs{{Field: "rol", Msg: "rol inválido"}}
	}
	u, err := s.create(ctx, username, email, password, name, role)
	if err != nil {
		return models.User{}, err
	}
	s.audit("user", &u.ID, "user.create", map[string]any{"username": u.Username, "rol": role})
	return u, nil
}

func (s *UserService) create(ctx context.Context, username, email, password, name, role string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if errs := validateNewUser(username, email, password); len(errs) > 0 {
		return models.User{}, errs
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return models.User{}, &ConflictError{Field: "username", Value: username}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.User{}, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return models.User{}, &ConflictError{Field: "email", Value: email}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u, err := s.users.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Active:       true,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, &ConflictError{Field: "username", Value: username}
	}
	return u, err
}

// Login verifies credentials and issues a bearer token. Unknown user and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (token string, expiresAt time.Time, err error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			_ = auth.VerifyPassword(password, dummyHash)
			metrics.Logins.WithLabelValues("failure").Inc()
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !u.Active {
		metrics.Logins.WithLabelValues("inactive").Inc()
		return "", time.Time{}, ErrAccountInactive
	}
	token, expiresAt, err = s.tm.Generate(u.Username)
	if err != nil {
		return "", time.Time{}, err
	}
	metrics.Logins.WithLabelValues("success").Inc()
	return token, expiresAt, nil
}

// Resolve turns a bearer token into the user it identifies. A valid token
// whose subject no longer exists is treated as an invalid token; a
// deactivated account is rejected even if the token has not expired.
func (s *UserService) Resolve(ctx context.Context, token string) (models.User, error) {
	username, err := s.tm.Parse(token)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, err
	}
	if !u.Active {
		return models.User{}, ErrAccountInactive
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

// UpdateSelf applies the fields a user may change on their own account.
func (s *UserService) UpdateSelf(ctx context.Context, u models.User, upd models.UserUpdate) (models.User, error) {
	if err := s.applyUpdate(ctx, &u, upd); err != nil {
		return models.User{}, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return models.User{}, &ConflictError{Field: "email", Value: u.Email}
		}
		return models.User{}, err
	}
	return u, nil
}

// AdminUpdate additionally allows role and active-flag changes.
func (s *UserService) AdminUpdate(ctx context.Context, actor models.User, id int64, upd models.UserAdminUpdate) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if upd.Role != nil && !models.ValidRole(*upd.Role) {
		return models.User{}, validate.Errs{{Field: "rol", Msg: "rol inválido: debe ser admin, bibliotecario o usuario"}}
	}
	if err := s.applyUpdate(ctx, &u, upd.UserUpdate); err != nil {
		return models.User{}, err
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Active != nil {
		u.Active = *upd.Active
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return models.User{}, &ConflictError{Field: "email", Value: u.Email}
		}
		return models.User{}, err
	}
	s.audit("user", &u.ID, "user.update", map[string]any{"actor": actor.Username})
	return u, nil
}

// applyUpdate merges the shared self/admin fields. Email uniqueness is only
// re-checked when the email actually changes.
func (s *UserService) applyUpdate(ctx context.Context, u *models.User, upd models.UserUpdate) error {
	if upd.Email != nil && *upd.Email != u.Email {
		email := strings.TrimSpace(*upd.Email)
		if e := validate.Email("email", email); e != nil {
			return validate.Errs{*e}
		}
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return &ConflictError{Field: "email", Value: email}
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		u.Email = email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Password != nil {
		if e := validate.MinLen("password", *upd.Password, minPasswordLen); e != nil {
			return validate.Errs{*e}
		}
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	return nil
}

// Delete removes a user. An admin cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actor models.User, id int64) error {
	if actor.ID == id {
		return ErrSelfDelete
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.audit("user", &id, "user.delete", map[string]any{"actor": actor.Username})
	return nil
}

// audit queues the record on the worker pool; writes are fire-and-forget.
func (s *UserService) audit(entity string, id *int64, action string, details map[string]any) {
	if s.wp == nil || s.audits == nil {
		return
	}
	l := models.AuditLog{EntityType: entity, EntityID: id, Action: action, Details: details}
	s.wp.Submit(func() {
		if err := s.audits.Create(context.Background(), l); err != nil {
			slog.Error("audit write", "action", action, "err", err)
		}
	})
}
