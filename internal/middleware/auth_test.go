// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceramstore/ceramstore-backend/internal/models"
	"github.com/ceramstore/ceramstore-backend/internal/utils"
)

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthRequired()}, extra...)
	r.GET("/protected", append(chain, func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	w := doRequest(protectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	w := doRequest(protectedRouter(), "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsBadToken(t *testing.T) {
	w := doRequest(protectedRouter(), "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredPassesValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := utils.GenerateJWT(userID, "client@ceramstore.ro", string(models.UserTypeCustomer), 1)
	require.NoError(t, err)

	w := doRequest(protectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestAdminRequiredRejectsCustomer(t *testing.T) {
	token, err := utils.GenerateJWT(uuid.New(), "client@ceramstore.ro", string(models.UserTypeCustomer), 1)
	require.NoError(t, err)

	w := doRequest(protectedRouter(AdminRequired()), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRequiredPassesAdmin(t *testing.T) {
	token, err := utils.GenerateJWT(uuid.New(), "admin@ceramstore.ro", string(models.UserTypeAdmin), 1)
	require.NoError(t, err)

	w := doRequest(protectedRouter(AdminRequired()), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", OptionalAuth(), func(c *gin.Context) {
		_, authenticated := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
