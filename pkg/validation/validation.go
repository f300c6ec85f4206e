// Package validation holds the shared request validator and the passport
// field rules (LEI, GS1 company prefix, country codes).
package validation

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
)

var (
	leiRE       = regexp.MustCompile(`^[A-Z0-9]{20}$`)
	gs1PrefixRE = regexp.MustCompile(`^[0-9]{6,12}$`)
	countryRE   = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report the json field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("lei", func(fl validator.FieldLevel) bool {
		return leiRE.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("gs1prefix", func(fl validator.FieldLevel) bool {
		return gs1PrefixRE.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("countrycode", func(fl validator.FieldLevel) bool {
		return countryRE.MatchString(fl.Field().String())
	})

	return v
}

// Struct validates a request struct and returns a 400 HTTPError naming the
// first violated field and rule. A multi-field request is rejected on the
// first violation; nothing is ever partially applied.
func Struct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	first := verrs[0]
	return httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("field '%s' violates rule '%s'", first.Field(), describeRule(first))).
		AddMetaValue("field", first.Field()).
		AddMetaValue("rule", describeRule(first))
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "lei":
		return "lei: 20 characters from A-Z0-9"
	case "gs1prefix":
		return "gs1prefix: 6-12 digits"
	case "countrycode":
		return "countrycode: 2-letter code"
	case "oneof":
		return "oneof: " + fe.Param()
	case "datetime":
		return "date in " + fe.Param() + " form"
	default:
		if fe.Param() != "" {
			return fe.Tag() + "=" + fe.Param()
		}
		return fe.Tag()
	}
}
