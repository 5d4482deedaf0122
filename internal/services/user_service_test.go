package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/validate"
	"github.com/etec-programacion-3/biblioteca-backend/internal/auth"
	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
	"github.com/etec-programacion-3/biblioteca-backend/internal/repository/memory"
	"github.com/etec-programacion-3/biblioteca-backend/internal/worker"
)

type userFixture struct {
	svc    *UserService
	users  *memory.Users
	audits *memory.AuditLogs
	wp     *worker.Pool
}

func newUserFixture() *userFixture {
	users := memory.NewUsers()
	audits := memory.NewAuditLogs()
	wp := worker.NewPool(1)
	tm := auth.NewTokenManager("test-secret", "biblioteca-test", 30*time.Minute)
	return &userFixture{
		svc:    NewUserService(users, audits, wp, tm),
		users:  users,
		audits: audits,
		wp:     wp,
	}
}

func (f *userFixture) register(t *testing.T, username, email string) models.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), username, email, "supersecreta", "")
	require.NoError(t, err)
	return u
}

func TestRegisterPasswordLength(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "ana", "ana@example.com", "corta12", "")
	var errs validate.Errs
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "password", errs[0].Field)

	u, err := f.svc.Register(ctx, "ana", "ana@example.com", "corta123", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.True(t, u.Active)
	assert.NotEqual(t, "corta123", u.PasswordHash, "plaintext must never be stored")
}

func TestRegisterUsernameAlphanumeric(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.Register(context.Background(), "ana maría", "ana@example.com", "supersecreta", "")
	var errs validate.Errs
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "username", errs[0].Field)
}

func TestRegisterDuplicates(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	f.register(t, "ana", "ana@example.com")

	_, err := f.svc.Register(ctx, "ana", "otra@example.com", "supersecreta", "")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)

	_, err = f.svc.Register(ctx, "ana2", "ana@example.com", "supersecreta", "")
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	f.register(t, "ana", "ana@example.com")

	_, _, errWrongPassword := f.svc.Login(ctx, "ana", "incorrecta!!")
	_, _, errNoSuchUser := f.svc.Login(ctx, "nadie", "incorrecta!!")

	require.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, errNoSuchUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errNoSuchUser.Error())
}

func TestLoginInactive(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	u := f.register(t, "ana", "ana@example.com")

	inactive := false
	admin := f.mustAdmin(t)
	_, err := f.svc.AdminUpdate(ctx, admin, u.ID, models.UserAdminUpdate{Active: &inactive})
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, "ana", "supersecreta")
	require.ErrorIs(t, err, ErrAccountInactive)
}

func (f *userFixture) mustAdmin(t *testing.T) models.User {
	t.Helper()
	admin, err := f.svc.CreateWithRole(context.Background(), "root", "root@example.com", "supersecreta", "", models.RoleAdmin)
	require.NoError(t, err)
	return admin
}

func TestLoginAndResolve(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	f.register(t, "ana", "ana@example.com")

	token, expiresAt, err := f.svc.Login(ctx, "ana", "supersecreta")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	u, err := f.svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)

	_, err = f.svc.Resolve(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveAfterDeleteAndDeactivate(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	u := f.register(t, "ana", "ana@example.com")
	admin := f.mustAdmin(t)

	token, _, err := f.svc.Login(ctx, "ana", "supersecreta")
	require.NoError(t, err)

	inactive := false
	_, err = f.svc.AdminUpdate(ctx, admin, u.ID, models.UserAdminUpdate{Active: &inactive})
	require.NoError(t, err)
	_, err = f.svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrAccountInactive)

	active := true
	_, err = f.svc.AdminUpdate(ctx, admin, u.ID, models.UserAdminUpdate{Active: &active})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, admin, u.ID))

	// token outlives the account, the lookup does not
	_, err = f.svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteSelfForbidden(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	admin := f.mustAdmin(t)
	other := f.register(t, "ana", "ana@example.com")

	require.ErrorIs(t, f.svc.Delete(ctx, admin, admin.ID), ErrSelfDelete)

	require.NoError(t, f.svc.Delete(ctx, admin, other.ID))
	_, err := f.svc.Get(ctx, other.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestAdminUpdateRole(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	admin := f.mustAdmin(t)
	u := f.register(t, "ana", "ana@example.com")

	bad := "superusuario"
	_, err := f.svc.AdminUpdate(ctx, admin, u.ID, models.UserAdminUpdate{Role: &bad})
	var errs validate.Errs
	require.ErrorAs(t, err, &errs)

	librarian := models.RoleLibrarian
	updated, err := f.svc.AdminUpdate(ctx, admin, u.ID, models.UserAdminUpdate{Role: &librarian})
	require.NoError(t, err)
	assert.Equal(t, models.RoleLibrarian, updated.Role)
}

func TestUpdateSelf(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	u := f.register(t, "ana", "ana@example.com")
	f.register(t, "beto", "beto@example.com")

	taken := "beto@example.com"
	_, err := f.svc.UpdateSelf(ctx, u, models.UserUpdate{Email: &taken})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	// re-submitting the current email is not a conflict
	same := "ana@example.com"
	_, err = f.svc.UpdateSelf(ctx, u, models.UserUpdate{Email: &same})
	require.NoError(t, err)

	short := "corta12"
	var errs validate.Errs
	_, err = f.svc.UpdateSelf(ctx, u, models.UserUpdate{Password: &short})
	require.ErrorAs(t, err, &errs)

	newPass := "otrasecreta"
	_, err = f.svc.UpdateSelf(ctx, u, models.UserUpdate{Password: &newPass})
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, "ana", "otrasecreta")
	require.NoError(t, err)
}

func TestAdminActionsAreAudited(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	admin := f.mustAdmin(t)
	u := f.register(t, "ana", "ana@example.com")

	require.NoError(t, f.svc.Delete(ctx, admin, u.ID))
	f.wp.Stop() // drain queued audit writes

	entries := f.audits.Entries()
	actions := map[string]bool{}
	for _, e := range entries {
		actions[e.Action] = true
	}
	assert.True(t, actions["user.create"], "admin creation should be audited")
	assert.True(t, actions["user.delete"], "user deletion should be audited")
}
