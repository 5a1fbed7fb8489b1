package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/infrastructure/auth"
	"github.com/supplynet/backend/internal/infrastructure/logger"
	"github.com/supplynet/backend/internal/interfaces/http/dto"
)

// CallerKey stores the resolved supplychain.CallerContext on the gin context.
const CallerKey = "caller"

// AuthConfig configures Authenticate.
type AuthConfig struct {
	Authenticator *auth.Authenticator
	Logger        *zap.Logger
}

// Authenticate resolves the Authorization header into a caller. A request
// without credentials continues as the anonymous caller and is left to the
// access gate; a header that fails verification is rejected with 401.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		caller, err := cfg.Authenticator.Authenticate(ctx, c.GetHeader("Authorization"))
		if err != nil {
			code, message := authFailure(err)
			if code == dto.ErrCodeInternal {
				logger.L(ctx).Error("credential check failed", zap.Error(err))
			} else {
				log.Debug("authentication rejected",
					zap.String("request_id", GetRequestID(c)),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
			}
			abortWithError(c, code, message)
			return
		}

		c.Set(CallerKey, caller)
		if caller.Authenticated {
			c.Request = c.Request.WithContext(logger.WithCaller(ctx, caller.UserID, caller.Username))
		}
		c.Next()
	}
}

func authFailure(err error) (code, message string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return dto.ErrCodeTokenInvalid, "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingUserID):
		return dto.ErrCodeTokenInvalid, "Invalid token"
	default:
		return dto.ErrCodeInternal, "Could not verify credentials"
	}
}

// GetCaller returns the caller resolved by Authenticate, or the anonymous
// caller when none was set.
func GetCaller(c *gin.Context) supplychain.CallerContext {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(supplychain.CallerContext); ok {
			return caller
		}
	}
	return supplychain.Anonymous
}
