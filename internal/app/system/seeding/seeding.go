// Package seeding creates the records a fresh deployment needs before anyone
// can log in.
package seeding

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	userstore "github.com/dalemusser/strataclub/internal/app/store/users"
	"github.com/dalemusser/strataclub/internal/app/system/authutil"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNoPassword is returned when the admin account must be created but no
// password was configured.
var ErrNoPassword = errors.New("seed admin password is required to create the account")

// Admin describes the administrator account to ensure.
type Admin struct {
	Email     string
	Password  string
	Name      string
	StudentID string
}

// EnsureAdmin makes sure a user with a.Email exists and holds the admin role.
// An existing user is promoted; the password of an existing user is never
// changed. A blank email does nothing.
func EnsureAdmin(ctx context.Context, db *mongo.Database, a Admin, logger *zap.Logger) error {
	if a.Email == "" {
		return nil
	}
	users := userstore.New(db)

	existing, err := users.GetByEmail(ctx, a.Email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			logger.Debug("admin user already configured", zap.String("email", existing.Email))
			return nil
		}
		if err := users.Update(ctx, existing.ID, userstore.UpdateInput{
			EnglishName: existing.EnglishName,
			StudentID:   existing.StudentID,
			Email:       existing.Email,
			Gender:      existing.Gender,
			Role:        models.RoleAdmin,
		}); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		logger.Info("promoted existing user to admin",
			zap.String("email", existing.Email),
			zap.String("user_id", existing.ID.Hex()),
			zap.String("previous_role", existing.Role))
		return nil
	case !errors.Is(err, storeutil.ErrNotFound):
		return err
	}

	if a.Password == "" {
		return ErrNoPassword
	}
	hash, err := authutil.HashPassword(a.Password)
	if err != nil {
		return err
	}
	name := a.Name
	if name == "" {
		name = "Admin"
	}
	u, err := users.Create(ctx, models.User{
		EnglishName: name,
		StudentID:   a.StudentID,
		Email:       a.Email,
		Password:    hash,
		Role:        models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Info("created admin user",
		zap.String("email", u.Email),
		zap.String("user_id", u.ID.Hex()))
	return nil
}
