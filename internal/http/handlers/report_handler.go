package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/service"
)

type ReportService interface {
	GetBestProfession(ctx context.Context, start, end string) (*models.BestProfession, error)
	GetBestClients(ctx context.Context, start, end string, limit int) ([]models.BestClient, error)
	ExportBestClients(ctx context.Context, start, end string, limit int, format string) (*service.ExportedFile, error)
}

// ReportHandler обслуживает /admin: агрегаты по оплаченным работам за период.
type ReportHandler struct {
	reports ReportService
}

func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// BestProfession GET /admin/best-profession?start=&end=
func (h *ReportHandler) BestProfession(c *gin.Context) {
	best, err := h.reports.GetBestProfession(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "The profession that earned the most money", best)
}

// BestClients GET /admin/best-clients?start=&end=&limit=
func (h *ReportHandler) BestClients(c *gin.Context) {
	limit := common.ParseIntQuery(c, "limit", service.DefaultBestClientsLimit)

	clients, err := h.reports.GetBestClients(c.Request.Context(), c.Query("start"), c.Query("end"), limit)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	if clients == nil {
		clients = []models.BestClient{}
	}
	common.RespondSuccess(c, http.StatusOK, "The clients that paid the most", clients)
}

// ExportBestClients GET /admin/best-clients/export?start=&end=&limit=&format=xlsx|pdf
func (h *ReportHandler) ExportBestClients(c *gin.Context) {
	limit := common.ParseIntQuery(c, "limit", service.DefaultBestClientsLimit)
	format := c.DefaultQuery("format", "xlsx")

	file, err := h.reports.ExportBestClients(c.Request.Context(), c.Query("start"), c.Query("end"), limit, format)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
