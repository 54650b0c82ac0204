package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcart "github.com/mobileshop/backend/internal/application/cart"
	"github.com/mobileshop/backend/internal/infrastructure/auth"
	"github.com/mobileshop/backend/internal/infrastructure/logger"
	"github.com/mobileshop/backend/internal/interfaces/http/dto"
)

// Session context keys
const (
	SessionKey      = "session"
	DeviceIDHeader  = "X-Device-ID"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
	defaultDeviceID = "anonymous"
)

// Session resolves the caller's session from the Authorization header. A
// missing or absent token degrades to an anonymous device-keyed session, so
// guests browse and build local carts without authenticating; an invalid
// token on a present header is rejected outright.
func Session(sessions *auth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(DeviceIDHeader)

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			c.Set(SessionKey, appcart.Session{DeviceID: deviceID})
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			rejectSession(c, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			rejectSession(c, "Missing token")
			return
		}

		claims, err := sessions.Validate(tokenString)
		if err != nil {
			logger.L(c.Request.Context()).Warn("session token rejected",
				zap.Error(err), zap.String("path", c.Request.URL.Path))
			rejectSession(c, "Invalid or expired session token")
			return
		}

		if claims.DeviceID != "" {
			deviceID = claims.DeviceID
		}
		sess := appcart.Session{Token: claims.ShopToken, DeviceID: deviceID}
		c.Set(SessionKey, sess)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithSessionID(ctx, log, claims.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetSession retrieves the resolved session from the gin context
func GetSession(c *gin.Context) appcart.Session {
	if v, exists := c.Get(SessionKey); exists {
		if sess, ok := v.(appcart.Session); ok {
			return sess
		}
	}
	deviceID := c.GetHeader(DeviceIDHeader)
	if deviceID == "" {
		deviceID = defaultDeviceID
	}
	return appcart.Session{DeviceID: deviceID}
}

// RequireSession aborts with 401 unless an authenticated session is present
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).Active() {
			rejectSession(c, "Authentication required")
			return
		}
		c.Next()
	}
}

func rejectSession(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
