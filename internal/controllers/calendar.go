package controllers

import (
	"net/http"
	"strings"
	"time"

	"maintenance-system/internal/dto"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
)

var calendarLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseCalendarBound: пустое значение - граница не задана. Время без зоны считается UTC.
func parseCalendarBound(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError(field, "неверный формат даты: %s", raw)
}

// CalendarEvents: ?start=&end= в ISO 8601, обе границы включительно.
func (ctrl *RequestController) CalendarEvents(c echo.Context) error {
	from, err := parseCalendarBound("start", c.QueryParam("start"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	to, err := parseCalendarBound("end", c.QueryParam("end"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	events, err := ctrl.requestService.CalendarEvents(c.Request().Context(), from, to)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if events == nil {
		events = make([]dto.CalendarEventDTO, 0)
	}
	return utils.SuccessResponse(c, events, "Успешно", http.StatusOK)
}
