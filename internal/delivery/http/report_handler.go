package http

import (
	"net/http"
	"strconv"
	"time"

	"market-daily/internal/dto"
	"market-daily/internal/service"
	"market-daily/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReportHandler handles HTTP requests for report generation and lookup.
type ReportHandler struct {
	reportService service.ReportService
	emailService  service.EmailService
	logger        *logger.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, emailService service.EmailService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, emailService: emailService, logger: logger}
}

// RegisterRoutes registers the report routes to the Echo group.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/portfolio/:id", h.GeneratePortfolioReport)
	g.POST("/portfolio/:id/enhanced", h.GenerateEnhancedPortfolioReport)
	g.POST("/topic", h.GenerateTopicReport)
	g.POST("/general", h.GenerateGeneralReport)
	g.GET("", h.ListReports)
	g.GET("/:id", h.GetReportByID)
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GeneratePortfolioReport assembles a basic portfolio report and, when
// recipients are given, dispatches it.
func (h *ReportHandler) GeneratePortfolioReport(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid portfolio ID"})
	}

	var req dto.GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	report, data, err := h.reportService.AssemblePortfolioReport(c.Request().Context(), uint(id), date)
	if err != nil {
		h.logger.Error("portfolio report generation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	resp := echo.Map{"report": report, "data": data}
	if len(req.Recipients) > 0 {
		msg := service.RenderPortfolioReport(data)
		resp["outcomes"] = h.emailService.Dispatch(c.Request().Context(), msg, req.Recipients, &report.ID)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GenerateEnhancedPortfolioReport assembles an enhanced portfolio report.
func (h *ReportHandler) GenerateEnhancedPortfolioReport(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid portfolio ID"})
	}

	var req dto.GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if len(req.Recipients) > 0 {
		outcomes, data, err := h.emailService.SendEnhancedPortfolioReport(c.Request().Context(), uint(id), req.Recipients)
		if err != nil {
			h.logger.Error("enhanced report dispatch failed", logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, echo.Map{"data": data, "outcomes": outcomes})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	report, data, err := h.reportService.AssembleEnhancedPortfolioReport(c.Request().Context(), uint(id), date)
	if err != nil {
		h.logger.Error("enhanced report generation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"report": report, "data": data})
}

// GenerateTopicReport assembles a topic research report.
func (h *ReportHandler) GenerateTopicReport(c echo.Context) error {
	var req dto.GenerateTopicReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Topic == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Topic is required"})
	}
	if req.Days <= 0 {
		req.Days = 14
	}

	if len(req.Recipients) > 0 {
		outcomes, data, err := h.emailService.SendTopicResearchReport(c.Request().Context(), req.Topic, req.Days, req.Recipients)
		if err != nil {
			h.logger.Error("topic report dispatch failed", logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, echo.Map{"data": data, "outcomes": outcomes})
	}

	report, data, err := h.reportService.AssembleTopicResearchReport(c.Request().Context(), req.Topic, req.Days)
	if err != nil {
		h.logger.Error("topic report generation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"report": report, "data": data})
}

// GenerateGeneralReport assembles the market-wide report.
func (h *ReportHandler) GenerateGeneralReport(c echo.Context) error {
	var req dto.GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	report, data, err := h.reportService.AssembleGeneralReport(c.Request().Context(), date)
	if err != nil {
		h.logger.Error("general report generation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	resp := echo.Map{"report": report, "data": data}
	if len(req.Recipients) > 0 {
		msg := service.RenderGeneralReport(data)
		resp["outcomes"] = h.emailService.Dispatch(c.Request().Context(), msg, req.Recipients, &report.ID)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListReports returns the most recently generated reports.
func (h *ReportHandler) ListReports(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}

	reports, err := h.reportService.ListReports(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to list reports", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list reports"})
	}
	return c.JSON(http.StatusOK, reports)
}

// GetReportByID returns a single stored report with its delivery log.
func (h *ReportHandler) GetReportByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid report ID"})
	}

	report, err := h.reportService.GetReport(c.Request().Context(), uint(id))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Report not found"})
	}

	deliveries, err := h.emailService.DeliveryLog(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("failed to load delivery log", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load delivery log"})
	}
	return c.JSON(http.StatusOK, echo.Map{"report": report, "deliveries": deliveries})
}
