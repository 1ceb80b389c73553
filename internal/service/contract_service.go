package service

import (
	"context"
	"errors"

	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/pagination"
	"github.com/ignatzorin/freelance-ledger/internal/repository/common"
	"github.com/ignatzorin/freelance-ledger/internal/validation"
)

// CreateContractInput - данные для создания контракта. Пустой статус означает new.
type CreateContractInput struct {
	Terms        string
	Status       models.ContractStatus
	ContractorID int64
}

type ContractService struct {
	contracts ContractRepository
	profiles  ProfileRepository
	tx        db.TxRunner
}

func NewContractService(contracts ContractRepository, profiles ProfileRepository, tx db.TxRunner) *ContractService {
	return &ContractService{contracts: contracts, profiles: profiles, tx: tx}
}

// Create создаёт контракт между клиентом и подрядчиком.
// Проверка подрядчика и вставка выполняются в одной транзакции.
func (s *ContractService) Create(ctx context.Context, in CreateContractInput, client *models.Profile) (*models.Contract, error) {
	if !client.IsClient() {
		return nil, apperror.ErrOnlyClientsContract
	}

	terms, err := validation.ValidateTerms(in.Terms)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.ContractStatusNew
	}
	if !status.Valid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "status must be one of: new, in_progress, terminated")
	}
	if in.ContractorID <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "contractor_id must be a positive integer")
	}

	var created *models.Contract
	err = s.tx.WithTx(ctx, func(tx db.Querier) error {
		if _, err := s.profiles.GetByIDAndRole(ctx, tx, in.ContractorID, models.RoleContractor); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return apperror.ErrContractorNotFound
			}
			return err
		}

		contract, err := s.contracts.Create(ctx, tx, &models.Contract{
			ClientID:     client.ID,
			ContractorID: in.ContractorID,
			Terms:        terms,
			Status:       status,
		})
		if err != nil {
			return err
		}
		created = contract
		return nil
	})
	if err != nil {
		return nil, apperror.From(err)
	}

	logger.WithContext(ctx).WithField("contract_id", created.ID).Info("contract created")
	return created, nil
}

// GetContractByID возвращает контракт с работами только его сторонам.
// Чужой и несуществующий контракт неразличимы: оба дают NOT_FOUND.
func (s *ContractService) GetContractByID(ctx context.Context, id, requesterID int64) (*models.ContractWithJobs, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrContractNotFound
		}
		return nil, apperror.Internal(err)
	}
	if !contract.HasParticipant(requesterID) {
		return nil, apperror.ErrContractNotFound
	}

	jobs, err := s.contracts.ListJobs(ctx, contract.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &models.ContractWithJobs{Contract: *contract, Jobs: jobs}, nil
}

// GetContracts возвращает страницу незавершённых контрактов профиля.
func (s *ContractService) GetContracts(ctx context.Context, requesterID int64, page, pageSize int) (*models.ContractPage, error) {
	p := pagination.Calculate(page, pageSize)

	contracts, total, err := s.contracts.ListActiveForProfile(ctx, requesterID, p.Take, p.Skip)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &models.ContractPage{
		Contracts:  contracts,
		Pagination: pagination.New(total, p.Take, p.Skip),
	}, nil
}
