package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{
		"success": false,
		"error":   title,
		"message": detail,
	})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred.", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "Resource not found.", ctx)
}

func CreateUnauthenticated(ctx iris.Context) {
	CreateError(iris.StatusUnauthorized, "Unauthorized", "A valid credential is required.", ctx)
}

type validationErrorEntry struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func HandleValidationErrors(err error, ctx iris.Context) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		entries := make([]validationErrorEntry, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			entries = append(entries, validationErrorEntry{
				Field: fieldErr.Field(),
				Tag:   fieldErr.Tag(),
				Param: fieldErr.Param(),
			})
		}
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
			"success": false,
			"error":   "Validation Error",
			"fields":  entries,
		})
		return
	}

	CreateError(iris.StatusBadRequest, "Bad Request", "Malformed request body.", ctx)
}
