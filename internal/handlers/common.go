package handlers

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/middleware"
	"github.com/yukikurage/tenant-task-api/internal/services"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

const maxBodyBytes = 1 << 20

// validation messages name fields the way clients send them
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// actor is the authenticated caller of the current request
func actor(c *gin.Context) services.Actor {
	return services.ActorFor(middleware.CurrentUser(c), c.ClientIP())
}

// bindJSON binds the body into req and answers 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BadRequest(c, bindingMessage(err))
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// readObject reads a raw JSON object body for partial updates, where an
// absent field and an explicit null mean different things
func readObject(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil || !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		apierrors.BadRequest(c, "Invalid request body")
		return nil, false
	}
	return body, true
}

func typeError(field, kind string) error {
	return &services.ValidationError{Field: field, Message: "must be " + kind}
}

// optString returns nil when field is absent
func optString(body []byte, field string) (*string, error) {
	r := gjson.GetBytes(body, field)
	if !r.Exists() {
		return nil, nil
	}
	if r.Type != gjson.String {
		return nil, typeError(field, "a string")
	}
	v := r.String()
	return &v, nil
}

// optEnum is optString for string-backed enums
func optEnum[T ~string](body []byte, field string) (*T, error) {
	s, err := optString(body, field)
	if s == nil || err != nil {
		return nil, err
	}
	v := T(*s)
	return &v, nil
}

func optInt(body []byte, field string) (*int, error) {
	r := gjson.GetBytes(body, field)
	if !r.Exists() {
		return nil, nil
	}
	if r.Type != gjson.Number || r.Num != float64(int64(r.Num)) {
		return nil, typeError(field, "an integer")
	}
	v := int(r.Int())
	return &v, nil
}

func optBool(body []byte, field string) (*bool, error) {
	r := gjson.GetBytes(body, field)
	if !r.Exists() {
		return nil, nil
	}
	if !r.IsBool() {
		return nil, typeError(field, "a boolean")
	}
	v := r.Bool()
	return &v, nil
}

// nullableString tells absent, null and a value apart
func nullableString(body []byte, field string) (services.Optional[string], error) {
	r := gjson.GetBytes(body, field)
	switch {
	case !r.Exists():
		return services.Optional[string]{}, nil
	case r.Type == gjson.Null:
		return services.Null[string](), nil
	case r.Type == gjson.String:
		return services.Set(r.String()), nil
	default:
		return services.Optional[string]{}, typeError(field, "a string or null")
	}
}

func nullableDate(body []byte, field string) (services.Optional[time.Time], error) {
	raw, err := nullableString(body, field)
	if err != nil || !raw.Present || raw.Value == nil {
		return services.Optional[time.Time]{Present: raw.Present}, err
	}
	if *raw.Value == "" {
		return services.Null[time.Time](), nil
	}
	t, err := parseDate(field, *raw.Value)
	if err != nil {
		return services.Optional[time.Time]{}, err
	}
	return services.Set(t), nil
}

// parseDate accepts an ISO date or an RFC 3339 date-time. Results are in UTC
// so that stored values order by instant on text-backed dialects.
func parseDate(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, &services.ValidationError{Field: field, Message: "must be an ISO 8601 date"}
}

// queryEnum returns nil for an absent or empty query value
func queryEnum[T ~string](c *gin.Context, key string) *T {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v := T(raw)
	return &v
}

func pagination(c *gin.Context, defaultLimit int) (utils.PaginationParams, bool) {
	params, err := utils.GetPaginationParams(c, defaultLimit)
	if err != nil {
		apierrors.BadRequest(c, "Invalid pagination: "+err.Error())
		return params, false
	}
	return params, true
}

// internalError hides err from the client and hands it to the access log
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	apierrors.InternalError(c)
}

// respondServiceError maps the errors every service can return
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequest(c, verr.Error())
	case errors.Is(err, services.ErrNothingToUpdate):
		apierrors.BadRequest(c, "Nothing to update")
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrTenantNotFound):
		apierrors.NotFound(c, "Tenant not found")
	default:
		internalError(c, err)
	}
}
