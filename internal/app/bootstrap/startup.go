// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	credentialstore "github.com/memberhub/memberhub/internal/app/store/credentials"
	"github.com/memberhub/memberhub/internal/app/system/auth"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return err
	}

	if appCfg.AdminLoginID != "" {
		if err := ensureAdminCredential(ctx, deps, appCfg.AdminLoginID, appCfg.AdminSecret, logger); err != nil {
			return err
		}
	}

	return nil
}

// ensureAdminCredential makes sure an admin account with the given login id
// exists. A missing credential is created; an existing one with a different
// role is promoted. The secret is only used when creating, so rotating a
// password is never done through config.
func ensureAdminCredential(ctx context.Context, deps DBDeps, loginID, secret string, logger *zap.Logger) error {
	creds := credentialstore.New(deps.MongoDatabase)

	existing, err := creds.GetByLoginID(ctx, loginID)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		_, err := deps.MongoDatabase.Collection("credentials").UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"role": models.RoleAdmin}},
		)
		if err != nil {
			logger.Error("admin promotion failed", zap.Error(err))
			return err
		}
		logger.Info("promoted existing credential to admin",
			zap.String("login_id", loginID))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		hash, err := credentialstore.HashSecret(secret)
		if err != nil {
			return err
		}
		_, err = creds.Create(ctx, models.Credential{
			LoginID:    loginID,
			SecretHash: hash,
			Role:       models.RoleAdmin,
		})
		if err != nil {
			logger.Error("admin creation failed", zap.Error(err))
			return err
		}
		logger.Info("created initial admin credential",
			zap.String("login_id", loginID))
		return nil

	default:
		return err
	}
}
