package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-ledger/internal/dto"
	"github.com/ignatzorin/freelance-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/service"
)

type JobService interface {
	Create(ctx context.Context, in service.CreateJobInput) (*models.Job, error)
	GetUnpaidJobs(ctx context.Context, profileID int64, page, pageSize int) (*models.JobPage, error)
	PayForJob(ctx context.Context, jobID, clientID int64) (*models.Profile, error)
}

type JobHandler struct {
	jobs JobService
}

func NewJobHandler(jobs JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Create POST /jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req dto.CreateJobRequest
	if !common.BindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), service.CreateJobInput{
		Description: req.Description,
		Price:       req.Price,
		ContractID:  req.ContractID,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, "Job created successfully", job)
}

// ListUnpaid GET /jobs/unpaid?page=&page_size=
func (h *JobHandler) ListUnpaid(c *gin.Context) {
	profile, ok := common.MustProfile(c)
	if !ok {
		return
	}
	page, pageSize := common.GetPagination(c)

	result, err := h.jobs.GetUnpaidJobs(c.Request.Context(), profile.ID, page, pageSize)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "Unpaid jobs retrieved successfully", result)
}

// Pay POST /jobs/:job_id/pay
func (h *JobHandler) Pay(c *gin.Context) {
	profile, ok := common.MustProfile(c)
	if !ok {
		return
	}
	jobID, err := common.ParseIDParam(c, "job_id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	ctx := c.Request.Context()
	log := logger.WithContext(ctx).WithFields(logrus.Fields{"job_id": jobID})
	log.Debug("pay for job: start")

	client, err := h.jobs.PayForJob(ctx, jobID, profile.ID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	log.Debug("pay for job: done")
	common.RespondSuccess(c, http.StatusOK, "Job paid successfully", client)
}
