package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/ratelimit"
)

func (suite *HandlerTestSuite) TestRegisterLoginMe() {
	code, env := suite.request(http.MethodPost, "/api/auth/register-tenant", map[string]string{
		"tenantName":    "Acme Corp",
		"subdomain":     "acme",
		"adminEmail":    "owner@acme.com",
		"adminPassword": "password12345",
		"adminFullName": "Olivia Owner",
	}, "")
	suite.Require().Equal(http.StatusCreated, code, env.Message)

	var registered struct {
		TenantID  string `json:"tenantId"`
		Subdomain string `json:"subdomain"`
		AdminUser struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"adminUser"`
	}
	suite.decode(env, &registered)
	suite.Equal("acme", registered.Subdomain)
	suite.Equal("owner@acme.com", registered.AdminUser.Email)
	suite.Equal("tenant_admin", registered.AdminUser.Role)
	suite.NotContains(string(env.Data), "password")

	code, env = suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":           "owner@acme.com",
		"password":        "password12345",
		"tenantSubdomain": "acme",
	}, "")
	suite.Require().Equal(http.StatusOK, code, env.Message)

	var login struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	suite.decode(env, &login)
	suite.NotEmpty(login.Token)
	suite.Equal(int64(3600), login.ExpiresIn)

	code, env = suite.request(http.MethodGet, "/api/auth/me", nil, login.Token)
	suite.Require().Equal(http.StatusOK, code)

	var me struct {
		Email  string `json:"email"`
		Tenant *struct {
			ID          string `json:"id"`
			Subdomain   string `json:"subdomain"`
			MaxUsers    int    `json:"maxUsers"`
			MaxProjects int    `json:"maxProjects"`
		} `json:"tenant"`
	}
	suite.decode(env, &me)
	suite.Equal("owner@acme.com", me.Email)
	suite.Require().NotNil(me.Tenant)
	suite.Equal("acme", me.Tenant.Subdomain)
	suite.Equal(registered.TenantID, me.Tenant.ID)
	suite.Equal(5, me.Tenant.MaxUsers)
	suite.Equal(3, me.Tenant.MaxProjects)
}

func (suite *HandlerTestSuite) TestRegisterTenant_Subdomains() {
	suite.registerTenant("acme")

	code, env := suite.request(http.MethodPost, "/api/auth/register-tenant", map[string]string{
		"tenantName":    "Acme Again",
		"subdomain":     "acme",
		"adminEmail":    "admin@acme2.com",
		"adminPassword": "password12345",
		"adminFullName": "Admin Again",
	}, "")
	suite.Equal(http.StatusConflict, code)
	suite.Equal("Subdomain already exists", env.Message)

	code, _ = suite.request(http.MethodPost, "/api/auth/register-tenant", map[string]string{
		"tenantName":    "Acme Upper",
		"subdomain":     "ACME",
		"adminEmail":    "admin@acme.com",
		"adminPassword": "password12345",
		"adminFullName": "Admin Upper",
	}, "")
	suite.Equal(http.StatusCreated, code)
}

func (suite *HandlerTestSuite) TestRegisterTenant_Validation() {
	code, env := suite.request(http.MethodPost, "/api/auth/register-tenant", map[string]string{
		"subdomain":     "acme",
		"adminEmail":    "admin@acme.com",
		"adminPassword": "password12345",
		"adminFullName": "Admin",
	}, "")
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("tenantName is required", env.Message)

	code, env = suite.request(http.MethodPost, "/api/auth/register-tenant", map[string]string{
		"tenantName":    "Acme",
		"subdomain":     "acme",
		"adminEmail":    "admin@acme.com",
		"adminPassword": "short",
		"adminFullName": "Admin",
	}, "")
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("adminPassword must be at least 8 characters", env.Message)

	code, env = suite.request(http.MethodPost, "/api/auth/register-tenant", "{not json", "")
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("Invalid request body", env.Message)
}

func (suite *HandlerTestSuite) TestLogin_Failures() {
	admin := suite.registerTenant("acme")
	member := suite.addMember(admin, "jane@acme.com")

	_, wrongPassword := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "jane@acme.com", "password": "wrong-password", "tenantSubdomain": "acme",
	}, "")
	code, unknownEmail := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ghost@acme.com", "password": "password12345", "tenantSubdomain": "acme",
	}, "")
	suite.Equal(http.StatusUnauthorized, code)
	suite.Equal("Invalid credentials", unknownEmail.Message)
	suite.Equal(unknownEmail.Message, wrongPassword.Message)

	code, env := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "jane@acme.com", "password": "password12345", "tenantSubdomain": "nope",
	}, "")
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Tenant not found", env.Message)

	code, _ = suite.request(http.MethodPut, "/api/users/"+member.ID, map[string]interface{}{"isActive": false}, admin.Token)
	suite.Require().Equal(http.StatusOK, code)

	code, env = suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "jane@acme.com", "password": "password12345", "tenantId": admin.TenantID,
	}, "")
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("Account inactive", env.Message)

	// the deactivated user's old token stops working too
	code, env = suite.request(http.MethodGet, "/api/auth/me", nil, member.Token)
	suite.Equal(http.StatusUnauthorized, code)
	suite.Equal("User not found or inactive", env.Message)
}

func (suite *HandlerTestSuite) TestLogin_SuspendedTenant() {
	suite.registerTenant("acme")
	suite.Require().NoError(suite.db.Model(&models.Tenant{}).Where("subdomain = ?", "acme").Update("status", models.TenantStatusSuspended).Error)

	code, env := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@acme.com", "password": "password12345", "tenantSubdomain": "acme",
	}, "")
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("Tenant not active", env.Message)
}

func (suite *HandlerTestSuite) TestSuperAdminLoginAndMe() {
	suite.superAdmin()

	code, env := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "root@system.com", "password": "rootpassword",
	}, "")
	suite.Require().Equal(http.StatusOK, code, env.Message)

	var login struct {
		Token string `json:"token"`
	}
	suite.decode(env, &login)

	code, env = suite.request(http.MethodGet, "/api/auth/me", nil, login.Token)
	suite.Require().Equal(http.StatusOK, code)
	suite.Contains(string(env.Data), `"tenant":null`)
}

func (suite *HandlerTestSuite) TestLogout() {
	admin := suite.registerTenant("acme")

	code, env := suite.request(http.MethodPost, "/api/auth/logout", nil, admin.Token)
	suite.Equal(http.StatusOK, code)
	suite.Equal("Logged out successfully", env.Message)

	var count int64
	suite.db.Model(&models.AuditLog{}).Where("action = ? AND user_id = ?", models.ActionLogout, admin.ID).Count(&count)
	suite.Equal(int64(1), count)

	code, _ = suite.request(http.MethodPost, "/api/auth/logout", nil, "")
	suite.Equal(http.StatusUnauthorized, code)
}

func (suite *HandlerTestSuite) TestLoginThrottle() {
	mr := miniredis.RunT(suite.T())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	suite.router = suite.newRouter(ratelimit.NewRedisLimiter(client, 2, time.Minute))

	body := map[string]string{"email": "ghost@nowhere.com", "password": "password12345"}
	for i := 0; i < 2; i++ {
		code, _ := suite.request(http.MethodPost, "/api/auth/login", body, "")
		suite.Equal(http.StatusUnauthorized, code)
	}

	code, env := suite.request(http.MethodPost, "/api/auth/login", body, "")
	suite.Equal(http.StatusTooManyRequests, code)
	suite.False(env.Success)
}

func (suite *HandlerTestSuite) TestLoginThrottle_IgnoresForwardedForFromUntrustedPeer() {
	mr := miniredis.RunT(suite.T())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	suite.router = suite.newRouter(ratelimit.NewRedisLimiter(client, 2, time.Minute))

	body := map[string]string{"email": "ghost@nowhere.com", "password": "password12345"}
	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		headers := map[string]string{"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i+1)}
		code, _ := suite.requestWithHeaders(http.MethodPost, "/api/auth/login", body, "", headers)
		codes = append(codes, code)
	}
	suite.Equal([]int{
		http.StatusUnauthorized, http.StatusUnauthorized,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
	}, codes)
}

func (suite *HandlerTestSuite) TestLoginThrottle_TrustedProxyForwardsClientIP() {
	mr := miniredis.RunT(suite.T())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	// httptest requests arrive from 192.0.2.1
	suite.router = suite.newRouter(ratelimit.NewRedisLimiter(client, 2, time.Minute), "192.0.2.0/24")

	body := map[string]string{"email": "ghost@nowhere.com", "password": "password12345"}
	for i := 0; i < 4; i++ {
		headers := map[string]string{"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i+1)}
		code, _ := suite.requestWithHeaders(http.MethodPost, "/api/auth/login", body, "", headers)
		suite.Equal(http.StatusUnauthorized, code)
	}

	headers := map[string]string{"X-Forwarded-For": "203.0.113.1"}
	code, _ := suite.requestWithHeaders(http.MethodPost, "/api/auth/login", body, "", headers)
	suite.Equal(http.StatusUnauthorized, code)
	code, _ = suite.requestWithHeaders(http.MethodPost, "/api/auth/login", body, "", headers)
	suite.Equal(http.StatusTooManyRequests, code)
}
