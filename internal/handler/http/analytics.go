package http

import (
	"net/http"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/analytics"
	"github.com/cmlabs-hris/factory-erp-go/internal/handler/http/response"
)

type AnalyticsHandler interface {
	GetAnalytics(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

// GetAnalytics implements AnalyticsHandler
func (h *analyticsHandlerImpl) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.analyticsService.GetAnalytics(r.Context(), analytics.AnalyticsRequest{BSYear: year, BSMonth: month})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
