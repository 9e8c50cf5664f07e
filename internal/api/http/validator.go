package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegisterValidators adds the custom binding tags used by request structs.
// "id" accepts a uuid.UUID or a string holding one, and rejects uuid.Nil.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(fieldName)
	return v.RegisterValidation("id", validateID)
}

// fieldName reports fields by their wire name in validation errors.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

func validateID(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case uuid.UUID:
		return v != uuid.Nil
	case string:
		id, err := uuid.Parse(v)
		return err == nil && id != uuid.Nil
	}
	return false
}

// bindJSON binds the body and answers 400 with the first validation failure.
func bindJSON(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required", "id":
			return fe.Field() + " is required"
		case "oneof":
			return fe.Field() + " must be one of: " + fe.Param()
		case "min":
			return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "email":
			return fe.Field() + " must be a valid email"
		}
		return fe.Field() + " is invalid"
	}
	return "invalid request body"
}

// pathID parses a uuid path parameter.
func pathID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		badRequest(ctx, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses a required uuid query parameter.
func queryID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		badRequest(ctx, name+" is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(ctx, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
