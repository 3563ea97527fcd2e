package handlers

import (
	"net/http"
)

func (suite *HandlerTestSuite) TestTenantGuard() {
	acme := suite.registerTenant("acme")
	globex := suite.registerTenant("globex")
	suite.createProject(acme, "Website")

	code, env := suite.request(http.MethodGet, "/api/tenants/"+acme.TenantID, nil, acme.Token)
	suite.Require().Equal(http.StatusOK, code)
	var detail struct {
		Subdomain string `json:"subdomain"`
		Stats     struct {
			TotalUsers    int64 `json:"totalUsers"`
			TotalProjects int64 `json:"totalProjects"`
			TotalTasks    int64 `json:"totalTasks"`
		} `json:"stats"`
	}
	suite.decode(env, &detail)
	suite.Equal("acme", detail.Subdomain)
	suite.Equal(int64(1), detail.Stats.TotalUsers)
	suite.Equal(int64(1), detail.Stats.TotalProjects)
	suite.Zero(detail.Stats.TotalTasks)

	code, _ = suite.request(http.MethodGet, "/api/tenants/"+globex.TenantID, nil, acme.Token)
	suite.Equal(http.StatusForbidden, code)

	code, env = suite.request(http.MethodGet, "/api/tenants/00000000-0000-0000-0000-000000000000", nil, acme.Token)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Tenant not found", env.Message)

	// the guard also covers the member routes, including the alias
	code, _ = suite.request(http.MethodGet, "/api/tenants/"+globex.TenantID+"/users", nil, acme.Token)
	suite.Equal(http.StatusForbidden, code)
	code, _ = suite.request(http.MethodGet, "/api/users/tenants/"+globex.TenantID+"/users", nil, acme.Token)
	suite.Equal(http.StatusForbidden, code)

	root := suite.superAdmin()
	code, _ = suite.request(http.MethodGet, "/api/tenants/"+globex.TenantID, nil, root.Token)
	suite.Equal(http.StatusOK, code)
}

func (suite *HandlerTestSuite) TestUpdateTenant() {
	acme := suite.registerTenant("acme")
	path := "/api/tenants/" + acme.TenantID

	code, env := suite.request(http.MethodPut, path, map[string]string{"name": "Acme Corporation"}, acme.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)
	suite.Contains(string(env.Data), `"name":"Acme Corporation"`)

	code, env = suite.request(http.MethodPut, path, map[string]interface{}{"name": "Acme", "maxUsers": 50}, acme.Token)
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("Only super_admin can update plan/status/limits", env.Message)

	code, env = suite.request(http.MethodPut, path, map[string]string{}, acme.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("Nothing to update", env.Message)

	code, _ = suite.request(http.MethodPut, path, `["name"]`, acme.Token)
	suite.Equal(http.StatusBadRequest, code)

	root := suite.superAdmin()
	code, env = suite.request(http.MethodPut, path, map[string]interface{}{"subscriptionPlan": "pro", "maxUsers": 25, "maxProjects": 15}, root.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)
	var tenant struct {
		SubscriptionPlan string `json:"subscriptionPlan"`
		MaxUsers         int    `json:"maxUsers"`
		MaxProjects      int    `json:"maxProjects"`
	}
	suite.decode(env, &tenant)
	suite.Equal("pro", tenant.SubscriptionPlan)
	suite.Equal(25, tenant.MaxUsers)
	suite.Equal(15, tenant.MaxProjects)

	code, env = suite.request(http.MethodPut, path, map[string]interface{}{"maxUsers": "many"}, root.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("maxUsers must be an integer", env.Message)

	code, _ = suite.request(http.MethodPut, path, map[string]interface{}{"status": "deleted"}, root.Token)
	suite.Equal(http.StatusBadRequest, code)
}

func (suite *HandlerTestSuite) TestListTenants() {
	acme := suite.registerTenant("acme")
	suite.registerTenant("globex")

	code, _ := suite.request(http.MethodGet, "/api/tenants", nil, acme.Token)
	suite.Equal(http.StatusForbidden, code)

	root := suite.superAdmin()
	code, env := suite.request(http.MethodGet, "/api/tenants?limit=1", nil, root.Token)
	suite.Require().Equal(http.StatusOK, code)
	var list struct {
		Tenants []struct {
			Subdomain  string `json:"subdomain"`
			TotalUsers int64  `json:"totalUsers"`
		} `json:"tenants"`
		Total      int64 `json:"total"`
		Pagination struct {
			CurrentPage int `json:"currentPage"`
			TotalPages  int `json:"totalPages"`
			Limit       int `json:"limit"`
		} `json:"pagination"`
	}
	suite.decode(env, &list)
	suite.Equal(int64(2), list.Total)
	suite.Len(list.Tenants, 1)
	suite.Equal(int64(1), list.Tenants[0].TotalUsers)
	suite.Equal(2, list.Pagination.TotalPages)
	suite.Equal(1, list.Pagination.Limit)

	code, _ = suite.request(http.MethodGet, "/api/tenants?subscriptionPlan=free", nil, root.Token)
	suite.Equal(http.StatusOK, code)

	for _, query := range []string{"page=0", "limit=101", "limit=abc"} {
		code, _ = suite.request(http.MethodGet, "/api/tenants?"+query, nil, root.Token)
		suite.Equal(http.StatusBadRequest, code, query)
	}
}
