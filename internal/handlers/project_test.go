package handlers

import (
	"fmt"
	"net/http"
)

func (suite *HandlerTestSuite) TestCreateProject_LimitOnFourthRequest() {
	admin := suite.registerTenant("acme")

	for i := 1; i <= 3; i++ {
		code, env := suite.request(http.MethodPost, "/api/projects", map[string]string{"name": fmt.Sprintf("Project %d", i)}, admin.Token)
		suite.Require().Equal(http.StatusCreated, code, "project %d: %s", i, env.Message)
	}

	code, env := suite.request(http.MethodPost, "/api/projects", map[string]string{"name": "Project 4"}, admin.Token)
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("Project limit reached", env.Message)
}

func (suite *HandlerTestSuite) TestCreateProject_Validation() {
	admin := suite.registerTenant("acme")

	code, env := suite.request(http.MethodPost, "/api/projects", map[string]string{"description": "no name"}, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("name is required", env.Message)

	code, env = suite.request(http.MethodPost, "/api/projects", map[string]string{"name": "Website", "status": "paused"}, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("status must be one of active, archived, completed", env.Message)

	root := suite.superAdmin()
	code, _ = suite.request(http.MethodPost, "/api/projects", map[string]string{"name": "Global"}, root.Token)
	suite.Equal(http.StatusForbidden, code)
}

func (suite *HandlerTestSuite) TestListProjects() {
	admin := suite.registerTenant("acme")
	member := suite.addMember(admin, "jane@acme.com")
	projectID := suite.createProject(member, "Website")
	suite.createProject(admin, "Mobile App")
	other := suite.registerTenant("globex")
	suite.createProject(other, "Hidden")

	for _, title := range []string{"Design", "Build"} {
		code, _ := suite.request(http.MethodPost, "/api/projects/"+projectID+"/tasks", map[string]string{"title": title}, member.Token)
		suite.Require().Equal(http.StatusCreated, code)
	}

	code, env := suite.request(http.MethodGet, "/api/projects?search=web", nil, admin.Token)
	suite.Require().Equal(http.StatusOK, code)
	var list struct {
		Projects []struct {
			ID        string `json:"id"`
			CreatedBy struct {
				ID       string  `json:"id"`
				FullName *string `json:"fullName"`
			} `json:"createdBy"`
			TaskCount          int64 `json:"taskCount"`
			CompletedTaskCount int64 `json:"completedTaskCount"`
		} `json:"projects"`
		Total int64 `json:"total"`
	}
	suite.decode(env, &list)
	suite.Equal(int64(1), list.Total)
	suite.Require().Len(list.Projects, 1)
	suite.Equal(projectID, list.Projects[0].ID)
	suite.Equal(member.ID, list.Projects[0].CreatedBy.ID)
	suite.Require().NotNil(list.Projects[0].CreatedBy.FullName)
	suite.Equal("Member jane@acme.com", *list.Projects[0].CreatedBy.FullName)
	suite.Equal(int64(2), list.Projects[0].TaskCount)
	suite.Zero(list.Projects[0].CompletedTaskCount)

	code, env = suite.request(http.MethodGet, "/api/projects", nil, admin.Token)
	suite.Require().Equal(http.StatusOK, code)
	suite.decode(env, &list)
	suite.Equal(int64(2), list.Total)

	root := suite.superAdmin()
	code, env = suite.request(http.MethodGet, "/api/projects", nil, root.Token)
	suite.Require().Equal(http.StatusOK, code)
	suite.decode(env, &list)
	suite.Zero(list.Total)
	suite.Empty(list.Projects)
}

func (suite *HandlerTestSuite) TestUpdateAndDeleteProject() {
	admin := suite.registerTenant("acme")
	creator := suite.addMember(admin, "jane@acme.com")
	bystander := suite.addMember(admin, "bob@acme.com")
	outsider := suite.registerTenant("globex")
	projectID := suite.createProject(creator, "Website")
	path := "/api/projects/" + projectID

	code, _ := suite.request(http.MethodPut, path, map[string]string{"status": "archived"}, bystander.Token)
	suite.Equal(http.StatusForbidden, code)
	code, _ = suite.request(http.MethodPut, path, map[string]string{"status": "archived"}, outsider.Token)
	suite.Equal(http.StatusForbidden, code)

	code, env := suite.request(http.MethodPut, path, map[string]string{"status": "archived", "description": ""}, creator.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)
	suite.Contains(string(env.Data), `"status":"archived"`)

	code, _ = suite.request(http.MethodPut, "/api/projects/00000000-0000-0000-0000-000000000000", map[string]string{"name": "Ghost"}, admin.Token)
	suite.Equal(http.StatusNotFound, code)

	code, _ = suite.request(http.MethodPost, path+"/tasks", map[string]string{"title": "Design"}, creator.Token)
	suite.Require().Equal(http.StatusCreated, code)

	code, _ = suite.request(http.MethodDelete, path, nil, bystander.Token)
	suite.Equal(http.StatusForbidden, code)
	code, _ = suite.request(http.MethodDelete, path, nil, admin.Token)
	suite.Require().Equal(http.StatusOK, code)

	code, _ = suite.request(http.MethodGet, path+"/tasks", nil, admin.Token)
	suite.Equal(http.StatusNotFound, code)
}
