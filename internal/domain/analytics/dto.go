package analytics

import "github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"

type AnalyticsRequest struct {
	BSYear  int
	BSMonth int // 0-based
}

func (r *AnalyticsRequest) Validate() error {
	if errs := validator.ValidatePeriod(r.BSYear, r.BSMonth); len(errs) > 0 {
		return errs
	}
	return nil
}
