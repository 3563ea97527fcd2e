package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yukikurage/tenant-task-api/internal/middleware"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/ratelimit"
)

// RouterConfig carries everything the route table is built from
type RouterConfig struct {
	FrontendURL string
	// TrustedProxies may set X-Forwarded-For; with none, the client IP is the
	// peer address
	TrustedProxies []string
	Log            *zap.Logger
	Gate           *middleware.Gate
	// Limiter throttles register and login per client IP; nil disables it
	Limiter ratelimit.Limiter

	Auth     *AuthHandler
	Tenants  *TenantHandler
	Users    *UserHandler
	Projects *ProjectHandler
	Tasks    *TaskHandler
	Health   *HealthHandler
}

// NewRouter builds the engine with the global middleware and every route
func NewRouter(rc RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	// the throttle key and audit ip_address come from ClientIP
	if err := r.SetTrustedProxies(rc.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(rc.Log),
		middleware.Metrics(),
		middleware.CORS(rc.FrontendURL),
	)

	gate := rc.Gate
	authenticated := middleware.Pipeline(gate.Authenticate)
	tenantScoped := middleware.Pipeline(gate.Authenticate, gate.TenantAccess("tenantId"))

	r.GET("/health", rc.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register-tenant", middleware.Throttle(rc.Limiter, "register", rc.Log), rc.Auth.RegisterTenant)
			auth.POST("/login", middleware.Throttle(rc.Limiter, "login", rc.Log), rc.Auth.Login)
			auth.GET("/me", authenticated, rc.Auth.Me)
			auth.POST("/logout", authenticated, rc.Auth.Logout)
		}

		tenants := api.Group("/tenants")
		{
			tenants.GET("", middleware.Pipeline(gate.Authenticate, middleware.RequireRole(models.RoleSuperAdmin)), rc.Tenants.ListTenants)
			tenants.GET("/:tenantId", tenantScoped, rc.Tenants.GetTenant)
			tenants.PUT("/:tenantId", tenantScoped, rc.Tenants.UpdateTenant)
			tenants.POST("/:tenantId/users", tenantScoped, rc.Users.AddUser)
			tenants.GET("/:tenantId/users", tenantScoped, rc.Users.ListUsers)
		}

		users := api.Group("/users")
		{
			// older clients address tenant members under /users
			users.POST("/tenants/:tenantId/users", tenantScoped, rc.Users.AddUser)
			users.GET("/tenants/:tenantId/users", tenantScoped, rc.Users.ListUsers)
			users.PUT("/:userId", authenticated, rc.Users.UpdateUser)
			users.DELETE("/:userId", middleware.Pipeline(gate.Authenticate, middleware.RequireAnyRole(models.RoleTenantAdmin)), rc.Users.DeleteUser)
		}

		projects := api.Group("/projects", authenticated)
		{
			projects.POST("", rc.Projects.CreateProject)
			projects.GET("", rc.Projects.ListProjects)
			projects.PUT("/:projectId", rc.Projects.UpdateProject)
			projects.DELETE("/:projectId", rc.Projects.DeleteProject)
			projects.POST("/:projectId/tasks", rc.Tasks.CreateTask)
			projects.GET("/:projectId/tasks", rc.Tasks.ListTasks)
		}

		tasks := api.Group("/tasks", authenticated)
		{
			tasks.PATCH("/:taskId/status", rc.Tasks.UpdateTaskStatus)
			tasks.PUT("/:taskId", rc.Tasks.UpdateTask)
		}
	}

	return r, nil
}
