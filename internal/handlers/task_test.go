package handlers

import (
	"net/http"
	"time"
)

type taskPayload struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Priority   string  `json:"priority"`
	DueDate    *string `json:"dueDate"`
	AssignedTo *struct {
		ID       string `json:"id"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	} `json:"assignedTo"`
}

func (suite *HandlerTestSuite) createTask(owner account, projectID string, body map[string]interface{}) taskPayload {
	code, env := suite.request(http.MethodPost, "/api/projects/"+projectID+"/tasks", body, owner.Token)
	suite.Require().Equal(http.StatusCreated, code, env.Message)

	var task taskPayload
	suite.decode(env, &task)
	return task
}

func (suite *HandlerTestSuite) listTasks(owner account, projectID, query string) []taskPayload {
	code, env := suite.request(http.MethodGet, "/api/projects/"+projectID+"/tasks"+query, nil, owner.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)

	var list struct {
		Tasks []taskPayload `json:"tasks"`
	}
	suite.decode(env, &list)
	return list.Tasks
}

func (suite *HandlerTestSuite) TestListTasks_Ordering() {
	admin := suite.registerTenant("acme")
	projectID := suite.createProject(admin, "Website")

	suite.createTask(admin, projectID, map[string]interface{}{"title": "low", "priority": "low", "dueDate": "2026-01-01"})
	suite.createTask(admin, projectID, map[string]interface{}{"title": "high-undated", "priority": "high"})
	suite.createTask(admin, projectID, map[string]interface{}{"title": "medium", "priority": "medium", "dueDate": "2026-01-02"})
	suite.createTask(admin, projectID, map[string]interface{}{"title": "high-later", "priority": "high", "dueDate": "2026-03-01T09:00:00Z"})
	suite.createTask(admin, projectID, map[string]interface{}{"title": "high-soon", "priority": "high", "dueDate": "2026-02-01"})

	tasks := suite.listTasks(admin, projectID, "")
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	suite.Equal([]string{"high-soon", "high-later", "high-undated", "medium", "low"}, titles)

	high := suite.listTasks(admin, projectID, "?priority=high&search=SOON")
	suite.Require().Len(high, 1)
	suite.Equal("high-soon", high[0].Title)
}

func (suite *HandlerTestSuite) TestListTasks_OrdersDueDatesByInstant() {
	admin := suite.registerTenant("acme")
	projectID := suite.createProject(admin, "Website")

	// 23:00 at -05:00 is 04:00Z the next day
	suite.createTask(admin, projectID, map[string]interface{}{"title": "later", "dueDate": "2026-01-01T23:00:00-05:00"})
	suite.createTask(admin, projectID, map[string]interface{}{"title": "earlier", "dueDate": "2026-01-02T00:00:00Z"})
	suite.createTask(admin, projectID, map[string]interface{}{"title": "earliest", "dueDate": "2026-01-02T01:00:00+09:00"})

	tasks := suite.listTasks(admin, projectID, "")
	suite.Require().Len(tasks, 3)
	titles := []string{tasks[0].Title, tasks[1].Title, tasks[2].Title}
	suite.Equal([]string{"earliest", "earlier", "later"}, titles)

	suite.Require().NotNil(tasks[2].DueDate)
	due, err := time.Parse(time.RFC3339, *tasks[2].DueDate)
	suite.Require().NoError(err)
	suite.True(due.Equal(time.Date(2026, 1, 2, 4, 0, 0, 0, time.UTC)))
	_, offset := due.Zone()
	suite.Zero(offset)
}

func (suite *HandlerTestSuite) TestCreateTask_Rules() {
	admin := suite.registerTenant("acme")
	member := suite.addMember(admin, "jane@acme.com")
	projectID := suite.createProject(admin, "Website")
	outsider := suite.registerTenant("globex")

	task := suite.createTask(member, projectID, map[string]interface{}{"title": "Design", "assignedTo": member.ID, "dueDate": "2026-05-01"})
	suite.Equal("todo", task.Status)
	suite.Equal("medium", task.Priority)
	suite.Require().NotNil(task.AssignedTo)
	suite.Equal("jane@acme.com", task.AssignedTo.Email)
	suite.Require().NotNil(task.DueDate)

	code, env := suite.request(http.MethodPost, "/api/projects/"+projectID+"/tasks", map[string]interface{}{"title": "Spy", "assignedTo": outsider.ID}, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("assignedTo must belong to same tenant", env.Message)

	code, _ = suite.request(http.MethodPost, "/api/projects/"+projectID+"/tasks", map[string]interface{}{"title": "Intrude"}, outsider.Token)
	suite.Equal(http.StatusForbidden, code)

	code, _ = suite.request(http.MethodGet, "/api/projects/"+projectID+"/tasks", nil, outsider.Token)
	suite.Equal(http.StatusForbidden, code)

	code, env = suite.request(http.MethodPost, "/api/projects/"+projectID+"/tasks", map[string]interface{}{"title": "Design", "dueDate": "next week"}, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("dueDate must be an ISO 8601 date", env.Message)

	code, _ = suite.request(http.MethodPost, "/api/projects/00000000-0000-0000-0000-000000000000/tasks", map[string]interface{}{"title": "Design"}, admin.Token)
	suite.Equal(http.StatusNotFound, code)
}

func (suite *HandlerTestSuite) TestUpdateTaskStatus() {
	admin := suite.registerTenant("acme")
	projectID := suite.createProject(admin, "Website")
	task := suite.createTask(admin, projectID, map[string]interface{}{"title": "Design"})
	outsider := suite.registerTenant("globex")
	path := "/api/tasks/" + task.ID + "/status"

	code, env := suite.request(http.MethodPatch, path, map[string]string{"status": "completed"}, admin.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)
	suite.Contains(string(env.Data), `"status":"completed"`)

	// any status may follow any other
	code, _ = suite.request(http.MethodPatch, path, map[string]string{"status": "todo"}, admin.Token)
	suite.Equal(http.StatusOK, code)

	code, env = suite.request(http.MethodPatch, path, map[string]string{"status": "blocked"}, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("status must be one of todo, in_progress, completed", env.Message)

	code, _ = suite.request(http.MethodPatch, path, map[string]string{"status": "completed"}, outsider.Token)
	suite.Equal(http.StatusForbidden, code)

	code, env = suite.request(http.MethodPatch, "/api/tasks/00000000-0000-0000-0000-000000000000/status", map[string]string{"status": "completed"}, admin.Token)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Task not found", env.Message)
}

func (suite *HandlerTestSuite) TestUpdateTask_PartialAndNull() {
	admin := suite.registerTenant("acme")
	member := suite.addMember(admin, "jane@acme.com")
	projectID := suite.createProject(admin, "Website")
	task := suite.createTask(admin, projectID, map[string]interface{}{"title": "Design", "assignedTo": member.ID, "dueDate": "2026-05-01"})
	path := "/api/tasks/" + task.ID

	code, env := suite.request(http.MethodPut, path, map[string]interface{}{"priority": "high"}, admin.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)
	var updated taskPayload
	suite.decode(env, &updated)
	suite.Equal("high", updated.Priority)
	suite.NotNil(updated.AssignedTo)
	suite.NotNil(updated.DueDate)

	code, env = suite.request(http.MethodPut, path, `{"assignedTo": null, "dueDate": null}`, admin.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)
	updated = taskPayload{}
	suite.decode(env, &updated)
	suite.Nil(updated.AssignedTo)
	suite.Nil(updated.DueDate)
	suite.Equal("high", updated.Priority)
	suite.Equal("Design", updated.Title)

	code, env = suite.request(http.MethodPut, path, map[string]interface{}{"assignedTo": member.ID, "title": "Design v2"}, admin.Token)
	suite.Require().Equal(http.StatusOK, code, env.Message)
	updated = taskPayload{}
	suite.decode(env, &updated)
	suite.Require().NotNil(updated.AssignedTo)
	suite.Equal(member.ID, updated.AssignedTo.ID)
	suite.Equal("Design v2", updated.Title)

	code, env = suite.request(http.MethodPut, path, `{}`, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("Nothing to update", env.Message)

	code, env = suite.request(http.MethodPut, path, `{"title": 42}`, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("title must be a string", env.Message)

	code, _ = suite.request(http.MethodPut, path, `{"title": "x"`, admin.Token)
	suite.Equal(http.StatusBadRequest, code)
}
