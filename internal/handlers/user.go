package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/dto"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/middleware"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// AddUser creates a member of the guarded tenant
func (h *UserHandler) AddUser(c *gin.Context) {
	type AddUserRequest struct {
		Email    string          `json:"email" binding:"required"`
		Password string          `json:"password" binding:"required"`
		FullName string          `json:"fullName" binding:"required"`
		Role     models.UserRole `json:"role" binding:"omitempty,oneof=user tenant_admin"`
	}

	var req AddUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.AddUser(c.Request.Context(), actor(c), middleware.CurrentTenant(c), services.AddUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.Created(c, dto.ToUserDTO(user), "User added successfully")
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	params, ok := pagination(c, constants.DefaultUserPageSize)
	if !ok {
		return
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), middleware.CurrentTenant(c).ID, services.ListUsersInput{
		Search:     c.Query("search"),
		Role:       queryEnum[models.UserRole](c, "role"),
		Pagination: params,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.OK(c, dto.ToUserListResponse(users, total, params), "")
}

// UpdateUser renames the caller, or lets a tenant admin change a member
func (h *UserHandler) UpdateUser(c *gin.Context) {
	body, ok := readObject(c)
	if !ok {
		return
	}

	var (
		input services.UpdateUserInput
		err   error
	)
	if input.FullName, err = optString(body, "fullName"); err == nil {
		if input.Role, err = optEnum[models.UserRole](body, "role"); err == nil {
			input.IsActive, err = optBool(body, "isActive")
		}
	}
	if err != nil {
		respondUserError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), actor(c), c.Param("userId"), input)
	if err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.OK(c, dto.ToUserDTO(user), "User updated successfully")
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), actor(c), c.Param("userId")); err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.OK(c, nil, "User deleted successfully")
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrUserLimitReached):
		apierrors.Forbidden(c, "Subscription limit reached")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already exists in this tenant")
	case errors.Is(err, services.ErrCannotDeleteSelf):
		apierrors.Forbidden(c, "Cannot delete yourself")
	default:
		respondServiceError(c, err)
	}
}
