package service_test

import (
	"context"
	"testing"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/apierror"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/dto"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateStaff(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewStaffService(repo)
	businessID := uuid.New()

	resp, err := svc.Create(context.Background(), businessID, dto.CreateStaffRequest{
		Username: "María Pérez",
		Password: "secreta123",
		Role:     "cashier",
	})
	require.NoError(t, err)
	// Display name is slugged into a login.
	assert.Equal(t, "maria_perez", resp.Username)
	assert.True(t, resp.Active)

	stored, err := repo.FindByUsername(context.Background(), "maria_perez")
	require.NoError(t, err)
	assert.Equal(t, businessID, stored.BusinessID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta123")))
}

func TestCreateStaff_UsernameNormalization(t *testing.T) {
	svc := service.NewStaffService(newFakeUserRepo())

	cases := map[string]string{
		"Juan  Carlos":  "juan_carlos",
		"  ñoño ":       "nono",
		"cajero#1!":     "cajero1",
		"ADMIN_general": "admin_general",
	}
	for input, want := range cases {
		resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateStaffRequest{
			Username: input, Password: "secreta123", Role: "cashier",
		})
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, resp.Username, "input %q", input)
	}
}

func TestCreateStaff_DuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewStaffService(repo)
	businessID := uuid.New()

	_, err := svc.Create(context.Background(), businessID, dto.CreateStaffRequest{
		Username: "cajero", Password: "secreta123", Role: "cashier",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), businessID, dto.CreateStaffRequest{
		Username: "Cajero", Password: "otraclave99", Role: "manager",
	})
	assert.Equal(t, 409, apierror.Status(err))
}

func TestListStaff_ExcludesRequester(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewStaffService(repo)
	businessID := uuid.New()
	admin := seedUser(t, repo, "admin", "secreta123", businessID)

	_, err := svc.Create(context.Background(), businessID, dto.CreateStaffRequest{
		Username: "cajero", Password: "secreta123", Role: "cashier",
	})
	require.NoError(t, err)

	// A user from another business stays invisible.
	seedUser(t, repo, "ajeno", "secreta123", uuid.New())

	list, err := svc.List(context.Background(), businessID, admin.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cajero", list[0].Username)
}

func TestUpdateStaff(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewStaffService(repo)
	businessID := uuid.New()

	created, err := svc.Create(context.Background(), businessID, dto.CreateStaffRequest{
		Username: "cajero", Password: "secreta123", Role: "cashier",
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	updated, err := svc.Update(context.Background(), businessID, id, dto.UpdateStaffRequest{Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "manager", updated.Role)
	assert.Equal(t, "cajero", updated.Username)

	// Tenant scope: another business cannot touch this user.
	_, err = svc.Update(context.Background(), uuid.New(), id, dto.UpdateStaffRequest{Role: "admin"})
	assert.Equal(t, 404, apierror.Status(err))
}

func TestToggleActiveStaff(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewStaffService(repo)
	businessID := uuid.New()

	created, err := svc.Create(context.Background(), businessID, dto.CreateStaffRequest{
		Username: "cajero", Password: "secreta123", Role: "cashier",
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	active, err := svc.ToggleActive(context.Background(), businessID, id)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = svc.ToggleActive(context.Background(), businessID, id)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestDeleteStaff(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewStaffService(repo)
	businessID := uuid.New()

	created, err := svc.Create(context.Background(), businessID, dto.CreateStaffRequest{
		Username: "cajero", Password: "secreta123", Role: "cashier",
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	// Wrong tenant first: nothing deleted.
	err = svc.Delete(context.Background(), uuid.New(), id)
	assert.Equal(t, 404, apierror.Status(err))

	require.NoError(t, svc.Delete(context.Background(), businessID, id))
	err = svc.Delete(context.Background(), businessID, id)
	assert.Equal(t, 404, apierror.Status(err))
}
