package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/api"
	"github.com/chargemap/chargemap/backend-go/internal/auth"
)

const userIDKey = "user_id"

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Dependencies wires the services behind the HTTP surface. Places may be nil,
// in which case geocoding endpoints report the service as unavailable.
type Dependencies struct {
	Accounts AccountService
	Stations StationService
	Places   PlaceLookup
	Tokens   TokenVerifier
	Admin    DatabaseAdmin
}

// NewEngine builds the gin engine serving every /api route. The same engine
// runs behind net/http locally and behind the Lambda adapter in AWS.
func NewEngine(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), api.RequestLogger(), api.CORS())

	r.NoRoute(func(c *gin.Context) {
		api.Error(c, http.StatusNotFound, "Route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		api.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	public := r.Group("/api")
	NewAuthHandler(deps.Accounts).RegisterRoutes(public.Group("/auth"))
	NewSystemHandler(deps.Admin).RegisterRoutes(public)

	protected := r.Group("/api", RequireAuth(deps.Tokens))
	NewStationsHandler(deps.Stations, deps.Places).RegisterRoutes(protected)
	NewGeocodeHandler(deps.Places).RegisterRoutes(protected)

	return r
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user id on the context.
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			api.Error(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected token")
				api.Error(c, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			api.Error(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}
