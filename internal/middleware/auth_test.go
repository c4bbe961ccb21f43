package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/routine-api/internal/models"
	"github.com/campusworks/routine-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

func signedToken(t *testing.T, role models.UserRole, expiresIn time.Duration) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "u1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func protectedRouter(roles ...models.UserRole) *gin.Engine {
	authSvc := service.NewAuthService(testSecret, nil)
	r := gin.New()
	group := r.Group("/", JWT(authSvc), RBAC(roles...))
	group.POST("/routine", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestJWTMissingHeader(t *testing.T) {
	r := protectedRouter(models.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/routine", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMalformedHeader(t *testing.T) {
	r := protectedRouter(models.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/routine", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTExpiredToken(t *testing.T) {
	r := protectedRouter(models.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/routine", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, models.RoleAdmin, -time.Minute))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRBACAllowsSchedulingRoles(t *testing.T) {
	r := protectedRouter(models.RoleAdmin, models.RoleCoordinator, models.RoleProgramChair)

	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleCoordinator, models.RoleProgramChair} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/routine", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, role, time.Hour))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, string(role))
	}
}

func TestRBACRejectsViewer(t *testing.T) {
	r := protectedRouter(models.RoleAdmin, models.RoleCoordinator, models.RoleProgramChair)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/routine", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, models.RoleViewer, time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
