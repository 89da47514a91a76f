package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/gigledger/internal/cache"
	"github.com/nurpe/gigledger/internal/http/middleware"
	"github.com/nurpe/gigledger/internal/model"
	"github.com/nurpe/gigledger/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	jobs      *service.JobService
	profiles  *service.ProfileService
	reports   *service.ReportService
	cache     *cache.Cache
	log       zerolog.Logger
}

func NewHandler(
	contracts *service.ContractService,
	jobs *service.JobService,
	profiles *service.ProfileService,
	reports *service.ReportService,
	c *cache.Cache,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		contracts: contracts,
		jobs:      jobs,
		profiles:  profiles,
		reports:   reports,
		cache:     c,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/contracts/:id", h.getContractByID)
	protected.GET("/contracts", h.getContracts)
	protected.GET("/jobs/unpaid", h.getUnpaidJobs)
	protected.POST("/jobs/:job_id/pay", h.payForJob)
	protected.POST("/balances/deposit/:userId", h.depositBalance)

	admin := protected.Group("/admin")
	admin.Use(middleware.Admin())
	admin.GET("/best-profession", h.bestProfession)
	admin.GET("/best-clients", h.bestClients)
	admin.POST("/reports/export", h.exportEarnings)
	admin.POST("/reports/export/pdf", h.exportEarningsPDF)
	admin.GET("/cache/stats", h.cacheStats)
}

type contractResponse struct {
	ID           uuid.UUID `json:"id"`
	Terms        string    `json:"terms"`
	Status       string    `json:"status"`
	ClientID     uuid.UUID `json:"clientId"`
	ContractorID uuid.UUID `json:"contractorId"`
}

func toContractResponse(contract model.Contract) contractResponse {
	return contractResponse{
		ID:           contract.ID,
		Terms:        contract.Terms,
		Status:       string(contract.Status),
		ClientID:     contract.ClientID,
		ContractorID: contract.ContractorID,
	}
}

type jobResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Paid        bool            `json:"paid"`
	PaymentDate *time.Time      `json:"paymentDate"`
	ContractID  uuid.UUID       `json:"contractId"`
}

func toJobResponse(job model.Job) jobResponse {
	return jobResponse{
		ID:          job.ID,
		Description: job.Description,
		Price:       job.Price,
		Paid:        job.Paid,
		PaymentDate: job.PaymentDate,
		ContractID:  job.ContractID,
	}
}

func (h *Handler) getContractByID(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	contract, err := h.contracts.GetContractByID(c.Request.Context(), id, principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toContractResponse(*contract))
}

func (h *Handler) getContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contracts, err := h.contracts.GetContracts(c.Request.Context(), principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result := make([]contractResponse, 0, len(contracts))
	for _, contract := range contracts {
		result = append(result, toContractResponse(contract))
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getUnpaidJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	jobs, err := h.jobs.GetUnpaidJobs(c.Request.Context(), principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		result = append(result, toJobResponse(job))
	}

	message := "unpaid jobs retrieved successfully"
	if len(result) == 0 {
		message = "no unpaid jobs found"
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message, "data": result})
}

func (h *Handler) payForJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := h.jobs.PayForJob(c.Request.Context(), jobID, principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "payment successful",
		"data":    toJobResponse(*job),
	})
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) depositBalance(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if principal.ID != userID && !principal.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot deposit to another profile"})
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deposit amount"})
		return
	}

	profile, err := h.profiles.DepositBalance(c.Request.Context(), userID, req.Amount)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "deposit successful",
		"data": gin.H{
			"id":      profile.ID,
			"balance": profile.Balance,
		},
	})
}

func (h *Handler) bestProfession(c *gin.Context) {
	start, end, ok := h.parsePeriodQuery(c)
	if !ok {
		return
	}

	result, err := h.reports.BestProfession(c.Request.Context(), start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": result})
}

func (h *Handler) bestClients(c *gin.Context) {
	start, end, ok := h.parsePeriodQuery(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	clients, err := h.reports.BestClients(c.Request.Context(), start, end, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": clients})
}

type exportReportRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

func (h *Handler) exportEarnings(c *gin.Context) {
	start, end, ok := h.parsePeriodBody(c)
	if !ok {
		return
	}

	result, err := h.reports.ExportEarnings(c.Request.Context(), start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}

	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) exportEarningsPDF(c *gin.Context) {
	start, end, ok := h.parsePeriodBody(c)
	if !ok {
		return
	}

	result, err := h.reports.ExportEarningsPDF(c.Request.Context(), start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) cacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Stats())
}

func (h *Handler) parsePeriodQuery(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handler) parsePeriodBody(c *gin.Context) (time.Time, time.Time, bool) {
	var req exportReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, time.Time{}, false
	}

	start, err := parseDate(req.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_start"})
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_end"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
