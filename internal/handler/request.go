package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/api"
)

// bindJSON decodes the request body into v. An empty body or malformed JSON
// is answered with a 400 and reports false.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected request body")
		api.Error(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
