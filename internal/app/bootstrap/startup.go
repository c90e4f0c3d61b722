// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"time"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/workers"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// eventSweeper is started in Startup and stopped in Shutdown.
var eventSweeper *workers.EventSweeper

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// CampusHub applies any configured timeout overrides, makes sure an
// admin account exists when one is configured, and starts the sweeper
// that deactivates past events.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.DBTimeoutPing,
		Short:  appCfg.DBTimeoutShort,
		Medium: appCfg.DBTimeoutMedium,
		Long:   appCfg.DBTimeoutLong,
	})

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}

	eventSweeper = workers.NewEventSweeper(
		eventstore.New(deps.CampusHubMongoDatabase), logger,
		time.Hour, 24*time.Hour)
	eventSweeper.Start()

	return nil
}

// ensureAdmin promotes the account with the given email to admin, or
// creates a fresh admin account when none exists. Creation needs a
// password because admins sign in with credentials like everyone else.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	users := deps.CampusHubMongoDatabase.Collection("users")
	email = normalize.Email(email)

	var existing models.User
	err := users.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		now := time.Now().UTC()
		_, err = users.UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{
				"role":       models.RoleAdmin,
				"is_active":  true,
				"updated_at": now,
			}})
		if err != nil {
			return err
		}
		logger.Info("promoted existing account to admin", zap.String("email", email))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		if password == "" {
			return errors.New("admin_email is set but the account does not exist and admin_password is empty")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		admin := models.User{
			ID:           primitive.NewObjectID(),
			Name:         "Administrator",
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			IsVerified:   true,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := users.InsertOne(ctx, admin); err != nil {
			return err
		}
		logger.Info("created admin account", zap.String("email", email))
		return nil

	default:
		return err
	}
}
