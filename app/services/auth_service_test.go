package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/pkg/auth"
	"github.com/binodghimire/agrihaat/pkg/database"
)

func authService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewAuthService(repositories.NewUserRepository(db)), db
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:                 "Sita Gurung",
		Email:                "sita@example.com",
		Password:             "correct-horse",
		PasswordConfirmation: "correct-horse",
		Role:                 models.RoleFarmer,
		District:             "Kaski",
		Province:             "Gandaki",
	}
}

func TestRegisterHashesPasswordAndIssuesTokens(t *testing.T) {
	svc, db := authService(t)

	user, pair, err := svc.Register(registerInput())
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, models.RoleFarmer, user.Role)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NotEqual(t, "correct-horse", stored.Password, "password must be stored hashed")
	assert.True(t, auth.CheckPassword(stored.Password, "correct-horse"))

	claims, err := auth.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleFarmer, claims.Role)
}

func TestRegisterNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	svc, _ := authService(t)

	user, _, err := svc.Register(registerInput())
	require.NoError(t, err)
	assert.Equal(t, "sita@example.com", user.Email)

	in := registerInput()
	in.Email = "  SITA@Example.com "
	_, _, err = svc.Register(in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := authService(t)
	_, _, err := svc.Register(registerInput())
	require.NoError(t, err)

	user, pair, err := svc.Login("sita@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, "Sita Gurung", user.Name)

	// Unknown email and wrong password yield the same error.
	_, _, err = svc.Login("nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("sita@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshReflectsCurrentRole(t *testing.T) {
	svc, db := authService(t)
	user, pair, err := svc.Register(registerInput())
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("role", models.RoleAdmin).Error)

	fresh, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role, "refresh must pick up role changes")

	_, err = svc.Refresh("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestProfile(t *testing.T) {
	svc, _ := authService(t)
	user, _, err := svc.Register(registerInput())
	require.NoError(t, err)

	got, err := svc.Profile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.Profile(0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
