package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/tenant-task-api/internal/models"
)

func (suite *HandlerTestSuite) TestAddAndListUsers() {
	admin := suite.registerTenant("acme")
	suite.addMember(admin, "jane@acme.com")

	// alias path reaches the same handler
	code, env := suite.request(http.MethodPost, "/api/users/tenants/"+admin.TenantID+"/users", map[string]string{
		"email": "bob@acme.com", "password": "password12345", "fullName": "Bob Builder", "role": "tenant_admin",
	}, admin.Token)
	suite.Require().Equal(http.StatusCreated, code, env.Message)

	code, env = suite.request(http.MethodPost, "/api/tenants/"+admin.TenantID+"/users", map[string]string{
		"email": "jane@acme.com", "password": "password12345", "fullName": "Jane Again",
	}, admin.Token)
	suite.Equal(http.StatusConflict, code)
	suite.Equal("Email already exists in this tenant", env.Message)

	code, env = suite.request(http.MethodPost, "/api/tenants/"+admin.TenantID+"/users", map[string]string{
		"email": "eve@acme.com", "password": "password12345", "fullName": "Eve", "role": "super_admin",
	}, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("role must be one of user, tenant_admin", env.Message)

	code, env = suite.request(http.MethodGet, "/api/tenants/"+admin.TenantID+"/users?search=JANE", nil, admin.Token)
	suite.Require().Equal(http.StatusOK, code)
	var list struct {
		Users []struct {
			Email string `json:"email"`
		} `json:"users"`
		Total int64 `json:"total"`
	}
	suite.decode(env, &list)
	suite.Equal(int64(1), list.Total)
	suite.Equal("jane@acme.com", list.Users[0].Email)

	code, env = suite.request(http.MethodGet, "/api/users/tenants/"+admin.TenantID+"/users?role=tenant_admin", nil, admin.Token)
	suite.Require().Equal(http.StatusOK, code)
	suite.decode(env, &list)
	suite.Equal(int64(2), list.Total)
}

func (suite *HandlerTestSuite) TestAddUser_Rules() {
	admin := suite.registerTenant("acme")
	member := suite.addMember(admin, "jane@acme.com")

	code, _ := suite.request(http.MethodPost, "/api/tenants/"+admin.TenantID+"/users", map[string]string{
		"email": "bob@acme.com", "password": "password12345", "fullName": "Bob Builder",
	}, member.Token)
	suite.Equal(http.StatusForbidden, code)

	for i := 0; i < 3; i++ {
		suite.addMember(admin, fmt.Sprintf("user%d@acme.com", i))
	}
	code, env := suite.request(http.MethodPost, "/api/tenants/"+admin.TenantID+"/users", map[string]string{
		"email": "sixth@acme.com", "password": "password12345", "fullName": "Sixth User",
	}, admin.Token)
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("Subscription limit reached", env.Message)
}

func (suite *HandlerTestSuite) TestUpdateUser() {
	admin := suite.registerTenant("acme")
	member := suite.addMember(admin, "jane@acme.com")

	code, env := suite.request(http.MethodPut, "/api/users/"+member.ID, map[string]interface{}{"fullName": "Jane Doe", "role": "tenant_admin"}, member.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)
	suite.Contains(string(env.Data), `"fullName":"Jane Doe"`)
	suite.Contains(string(env.Data), `"role":"user"`)

	code, env = suite.request(http.MethodPut, "/api/users/"+member.ID, map[string]interface{}{"isActive": false}, member.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("Nothing to update", env.Message)

	code, _ = suite.request(http.MethodPut, "/api/users/"+admin.ID, map[string]interface{}{"fullName": "Hacker"}, member.Token)
	suite.Equal(http.StatusForbidden, code)

	code, env = suite.request(http.MethodPut, "/api/users/"+member.ID, map[string]interface{}{"isActive": "no"}, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("isActive must be a boolean", env.Message)

	code, env = suite.request(http.MethodPut, "/api/users/"+member.ID, map[string]interface{}{"role": "tenant_admin"}, admin.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)
	suite.Contains(string(env.Data), `"role":"tenant_admin"`)

	code, _ = suite.request(http.MethodPut, "/api/users/00000000-0000-0000-0000-000000000000", map[string]interface{}{"fullName": "Ghost"}, admin.Token)
	suite.Equal(http.StatusNotFound, code)
}

func (suite *HandlerTestSuite) TestDeleteUser_UnassignsTasks() {
	admin := suite.registerTenant("acme")
	member := suite.addMember(admin, "jane@acme.com")
	projectID := suite.createProject(admin, "Website")

	code, env := suite.request(http.MethodPost, "/api/projects/"+projectID+"/tasks", map[string]interface{}{
		"title": "Design homepage", "assignedTo": member.ID,
	}, admin.Token)
	suite.Require().Equal(http.StatusCreated, code, env.Message)

	code, _ = suite.request(http.MethodDelete, "/api/users/"+admin.ID, nil, member.Token)
	suite.Equal(http.StatusForbidden, code)

	code, env = suite.request(http.MethodDelete, "/api/users/"+admin.ID, nil, admin.Token)
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("Cannot delete yourself", env.Message)

	code, _ = suite.request(http.MethodDelete, "/api/users/"+member.ID, nil, admin.Token)
	suite.Require().Equal(http.StatusOK, code)

	code, env = suite.request(http.MethodGet, "/api/projects/"+projectID+"/tasks", nil, admin.Token)
	suite.Require().Equal(http.StatusOK, code)
	suite.Contains(string(env.Data), `"assignedTo":null`)

	var count int64
	suite.db.Model(&models.User{}).Where("id = ?", member.ID).Count(&count)
	suite.Zero(count)

	code, _ = suite.request(http.MethodDelete, "/api/users/"+member.ID, nil, admin.Token)
	suite.Equal(http.StatusNotFound, code)
}
