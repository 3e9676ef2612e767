package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"salonbiz-backend/apperr"
	"salonbiz-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Validation errors name fields by their json key.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// handleServiceError maps the apperr taxonomy to HTTP responses. Anything
// unrecognised is logged and reported as a generic 500.
func handleServiceError(c *gin.Context, err error, logger *zap.Logger) {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		conflictErr   *apperr.ConflictError
		authErr       *apperr.AuthError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, validationErr.Message, validationErr.Fields)
	case errors.As(err, &notFoundErr):
		utils.RespondWithError(c, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &conflictErr):
		utils.RespondWithError(c, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &authErr):
		utils.RespondWithError(c, http.StatusUnauthorized, authErr.Error())
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		utils.RespondWithError(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindJSON decodes the body into dst and writes a 400 on failure. Validator
// errors are reported per field using the json names.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldName(fe)] = describeTag(fe)
		}
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "invalid input", fields)
	case errors.As(err, &typeErr):
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "invalid input",
			map[string]string{typeErr.Field: fmt.Sprintf("must be a %s", typeErr.Type)})
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
	}
	return false
}

// fieldName turns a validator namespace such as
// "createOrderRequest.order_items[0].quantity" into "order_items[0].quantity".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// pathID parses the :id route parameter, writing a 400 when malformed.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID reads an optional UUID query parameter.
func queryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	id, err := uuid.Parse(v)
	if err != nil {
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "invalid query", map[string]string{key: "must be a valid UUID"})
		return nil, false
	}
	return &id, true
}

// queryBool reads an optional true/false query parameter.
func queryBool(c *gin.Context, key string) (*bool, bool) {
	switch strings.ToLower(c.Query(key)) {
	case "":
		return nil, true
	case "true", "1":
		v := true
		return &v, true
	case "false", "0":
		v := false
		return &v, true
	}
	utils.RespondWithFieldErrors(c, http.StatusBadRequest, "invalid query", map[string]string{key: "must be true or false"})
	return nil, false
}

// queryTime reads an optional RFC3339 or YYYY-MM-DD query parameter.
func queryTime(c *gin.Context, key string, loc *time.Location) (*time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	t, err := utils.ParseDateOrTime(v, loc)
	if err != nil {
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "invalid query", map[string]string{key: err.Error()})
		return nil, false
	}
	return &t, true
}

// queryList splits a comma-separated query parameter.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range strings.Split(c.Query(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// requiredCustomerUUID reads the customer_uuid query parameter of the
// by_customer actions.
func requiredCustomerUUID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("customer_uuid")
	if raw == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "customer_uuid parameter is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithFieldErrors(c, http.StatusBadRequest, "invalid query", map[string]string{"customer_uuid": "must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(utils.ContextUserID))
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	return id, true
}

func writePage[T any](c *gin.Context, results []T, count int64, pageNum, pageSize int) {
	if results == nil {
		results = []T{}
	}
	c.JSON(http.StatusOK, utils.Page[T]{Count: count, Page: pageNum, PageSize: pageSize, Results: results})
}

func mapSlice[S, D any](in []S, fn func(*S) D) []D {
	out := make([]D, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
