package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
)

// periodFrom reads bs_year and a 1-based bs_month from the query string or form and returns
// the 0-based month the services expect.
func periodFrom(r *http.Request) (int, int, error) {
	var errs validator.ValidationErrors

	year, err := strconv.Atoi(strings.TrimSpace(r.FormValue("bs_year")))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "bs_year", Message: "is required and must be a number"})
	}
	month, err := strconv.Atoi(strings.TrimSpace(r.FormValue("bs_month")))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "bs_month", Message: "is required and must be a number"})
	}
	if len(errs) > 0 {
		return 0, 0, errs
	}
	return year, month - 1, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
