// filepath: internal/services/user_service_test.go
package services

import (
	"testing"

	"ranktrack/internal/config"
	"ranktrack/internal/models"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestInitializeAdminUser(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	svc := NewUserService(repo)

	// No admin, no password: refuse to start.
	err := svc.InitializeAdminUser(&config.Config{})
	assert.Error(t, err)

	cfg := &config.Config{AdminPassword: "first-secret"}
	assert.NoError(t, svc.InitializeAdminUser(cfg))

	admin, err := svc.GetUserByUsername("admin")
	assert.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("first-secret")))

	// Second run without reset leaves the password alone.
	assert.NoError(t, svc.InitializeAdminUser(&config.Config{AdminPassword: "other"}))
	admin, err = svc.GetUserByUsername("admin")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("first-secret")))

	// Reset flag overwrites it.
	assert.NoError(t, svc.InitializeAdminUser(&config.Config{AdminPassword: "new-secret", ResetAdminPassword: true}))
	admin, err = svc.GetUserByUsername("admin")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("new-secret")))
}

func TestCreateUser_Validation(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	svc := NewUserService(repo)

	_, err := svc.CreateUser(clientCtx(1), models.UserCreatePayload{Username: "x", Password: "y", Role: models.RoleClient})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateUser(adminCtx(), models.UserCreatePayload{Username: "", Password: "y", Role: models.RoleClient})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(adminCtx(), models.UserCreatePayload{Username: "x", Password: "y", Role: "superuser"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(adminCtx(), models.UserCreatePayload{Username: "x", Password: "y", Role: models.RoleAdmin, SiteIDs: []int64{1}})
	assert.ErrorIs(t, err, ErrValidation)

	user, err := svc.CreateUser(adminCtx(), models.UserCreatePayload{Username: "client1", Password: "pw", Role: models.RoleClient, SiteIDs: []int64{}})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleClient, user.Role)

	_, err = svc.CreateUser(adminCtx(), models.UserCreatePayload{Username: "client1", Password: "pw", Role: models.RoleClient})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateUser_ClientGrants(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	siteA, err := repo.CreateSite("a", "https://a.com", "")
	assert.NoError(t, err)
	siteB, err := repo.CreateSite("b", "https://b.com", "")
	assert.NoError(t, err)

	svc := NewUserService(repo)
	created, err := svc.CreateUser(adminCtx(), models.UserCreatePayload{
		Username: "client1",
		Password: "pw",
		Role:     models.RoleClient,
		SiteIDs:  []int64{siteA.ID, siteB.ID},
	})
	assert.NoError(t, err)

	user, err := svc.GetUserByID(created.ID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []int64{siteA.ID, siteB.ID}, user.SiteIDs)
}

func TestDeleteSiteEvictsCachedGrants(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	site, err := repo.CreateSite("a", "https://a.com", "")
	assert.NoError(t, err)

	svc := NewUserService(repo)
	created, err := svc.CreateUser(adminCtx(), models.UserCreatePayload{
		Username: "client1", Password: "pw", Role: models.RoleClient, SiteIDs: []int64{site.ID},
	})
	assert.NoError(t, err)

	// Warm the cache with the grant still in place.
	user, err := svc.GetUserByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, []int64{site.ID}, user.SiteIDs)

	assert.NoError(t, repo.DeleteSite(site.ID))

	user, err = svc.GetUserByID(created.ID)
	assert.NoError(t, err)
	assert.Empty(t, user.SiteIDs, "deleted site must not linger in cached grants")
}

func TestLastAdminProtection(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	svc := NewUserService(repo)
	assert.NoError(t, svc.InitializeAdminUser(&config.Config{AdminPassword: "pw"}))
	admin, err := svc.GetUserByUsername("admin")
	assert.NoError(t, err)

	err = svc.DeleteUser(adminCtx(), admin.ID)
	assert.ErrorIs(t, err, ErrValidation)

	clientRole := models.RoleClient
	_, err = svc.UpdateUser(adminCtx(), admin.ID, models.UserUpdatePayload{Role: &clientRole})
	assert.ErrorIs(t, err, ErrValidation)

	// A second admin unlocks both operations.
	second, err := svc.CreateUser(adminCtx(), models.UserCreatePayload{Username: "admin2", Password: "pw", Role: models.RoleAdmin})
	assert.NoError(t, err)
	assert.NoError(t, svc.DeleteUser(adminCtx(), second.ID))
}

func TestUpdateUser_RoleAndGrants(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	site, err := repo.CreateSite("a", "https://a.com", "")
	assert.NoError(t, err)

	svc := NewUserService(repo)
	created, err := svc.CreateUser(adminCtx(), models.UserCreatePayload{
		Username: "client1", Password: "pw", Role: models.RoleClient, SiteIDs: []int64{site.ID},
	})
	assert.NoError(t, err)

	grants := []int64{}
	updated, err := svc.UpdateUser(adminCtx(), created.ID, models.UserUpdatePayload{SiteIDs: &grants})
	assert.NoError(t, err)
	assert.Empty(t, updated.SiteIDs)

	newPw := "changed"
	_, err = svc.UpdateUser(adminCtx(), created.ID, models.UserUpdatePayload{Password: &newPw})
	assert.NoError(t, err)
	user, err := svc.GetUserByID(created.ID)
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("changed")))
}

func TestUpdateOwnPassword(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	svc := NewUserService(repo)
	created, err := svc.CreateUser(adminCtx(), models.UserCreatePayload{Username: "client1", Password: "pw", Role: models.RoleClient})
	assert.NoError(t, err)

	actx := &models.AuthContext{UserID: created.ID, Username: "client1", Role: models.RoleClient}
	assert.ErrorIs(t, svc.UpdateOwnPassword(nil, "x"), ErrNotAuthenticated)
	assert.ErrorIs(t, svc.UpdateOwnPassword(actx, ""), ErrValidation)
	assert.NoError(t, svc.UpdateOwnPassword(actx, "fresh"))

	user, err := svc.GetUserByUsername("client1")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("fresh")))
}
