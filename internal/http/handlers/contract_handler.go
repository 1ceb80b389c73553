package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-ledger/internal/dto"
	"github.com/ignatzorin/freelance-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/service"
)

type ContractService interface {
	Create(ctx context.Context, in service.CreateContractInput, client *models.Profile) (*models.Contract, error)
	GetContractByID(ctx context.Context, id, requesterID int64) (*models.ContractWithJobs, error)
	GetContracts(ctx context.Context, requesterID int64, page, pageSize int) (*models.ContractPage, error)
}

type ContractHandler struct {
	contracts ContractService
}

func NewContractHandler(contracts ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// Create POST /contracts
func (h *ContractHandler) Create(c *gin.Context) {
	profile, ok := common.MustProfile(c)
	if !ok {
		return
	}
	var req dto.CreateContractRequest
	if !common.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	logger.WithContext(ctx).WithField("contractor_id", req.ContractorID).Debug("create contract: start")

	contract, err := h.contracts.Create(ctx, service.CreateContractInput{
		Terms:        req.Terms,
		Status:       models.ContractStatus(req.Status),
		ContractorID: req.ContractorID,
	}, profile)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	logger.WithContext(ctx).WithField("contract_id", contract.ID).Debug("create contract: done")
	common.RespondSuccess(c, http.StatusCreated, "Contract created successfully", contract)
}

// List GET /contracts?page=&page_size=
func (h *ContractHandler) List(c *gin.Context) {
	profile, ok := common.MustProfile(c)
	if !ok {
		return
	}
	page, pageSize := common.GetPagination(c)

	result, err := h.contracts.GetContracts(c.Request.Context(), profile.ID, page, pageSize)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "Contracts retrieved successfully", result)
}

// Get GET /contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	profile, ok := common.MustProfile(c)
	if !ok {
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	contract, err := h.contracts.GetContractByID(c.Request.Context(), id, profile.ID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "Contract retrieved successfully", contract)
}
