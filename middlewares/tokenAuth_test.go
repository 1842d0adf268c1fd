package middlewares

import (
	"GestaoClinica/models"
	"GestaoClinica/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(requiredRole string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/", TokenAuthMiddleware(), RoleAuthMiddleware(requiredRole))
	group.POST("/units", func(c *gin.Context) {
		userID, err := ExtractUserIDFromContext(c.Request.Context())
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": userID})
	})
	return router
}

func TestTokenAuthMiddlewareMissingToken(t *testing.T) {
	router := newProtectedRouter(models.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/units", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleAuthMiddlewareGate(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	router := newProtectedRouter(models.RoleAdmin)

	adminToken, err := utils.GenerateAccessToken("user-1", models.RoleAdmin, "")
	require.NoError(t, err)
	receptionToken, err := utils.GenerateAccessToken("user-2", models.RoleReceptionist, "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/units", nil)
	req.Header.Set("X-Access-Token", adminToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/units", nil)
	req.Header.Set("X-Access-Token", receptionToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
