package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/pagination"
	"github.com/ignatzorin/freelance-ledger/internal/repository/common"
	"github.com/ignatzorin/freelance-ledger/internal/validation"
)

const tracerName = "github.com/ignatzorin/freelance-ledger/internal/service"

// CreateJobInput - данные для создания работы.
type CreateJobInput struct {
	Description string
	Price       decimal.Decimal
	ContractID  int64
}

type JobService struct {
	jobs      JobRepository
	contracts ContractRepository
	profiles  ProfileRepository
	tx        db.TxRunner
	notifier  Notifier
	tracer    trace.Tracer
	now       func() time.Time
}

func NewJobService(jobs JobRepository, contracts ContractRepository, profiles ProfileRepository, tx db.TxRunner, notifier Notifier) *JobService {
	return &JobService{
		jobs:      jobs,
		contracts: contracts,
		profiles:  profiles,
		tx:        tx,
		notifier:  notifier,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
}

// Create создаёт неоплаченную работу в существующем контракте.
func (s *JobService) Create(ctx context.Context, in CreateJobInput) (*models.Job, error) {
	description, err := validation.ValidateJobDescription(in.Description)
	if err != nil {
		return nil, err
	}
	if err := validateAmount("price", in.Price); err != nil {
		return nil, err
	}
	if in.ContractID <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "contract_id must be a positive integer")
	}

	if _, err := s.contracts.GetByID(ctx, in.ContractID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrContractNotExist
		}
		return nil, apperror.Internal(err)
	}

	job, err := s.jobs.Create(ctx, &models.Job{
		ContractID:  in.ContractID,
		Description: description,
		Price:       in.Price,
	})
	if err != nil {
		// контракт мог быть удалён между проверкой и вставкой
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrContractNotExist
		}
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// GetUnpaidJobs возвращает страницу неоплаченных работ по активным контрактам профиля.
func (s *JobService) GetUnpaidJobs(ctx context.Context, profileID int64, page, pageSize int) (*models.JobPage, error) {
	p := pagination.Calculate(page, pageSize)

	jobs, total, err := s.jobs.ListUnpaidForProfile(ctx, profileID, p.Take, p.Skip)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &models.JobPage{
		Jobs:       jobs,
		Pagination: pagination.New(total, p.Take, p.Skip),
	}, nil
}

// PayForJob переводит цену работы от клиента подрядчику и помечает работу оплаченной.
//
// Списание, зачисление и отметка об оплате выполняются в одной SERIALIZABLE транзакции.
// Отметка об оплате защищена версией строки, прочитанной до транзакции: если другой
// платёж успел завершиться, обновление не затронет ни одной строки и вся транзакция откатится.
func (s *JobService) PayForJob(ctx context.Context, jobID, clientID int64) (_ *models.Profile, err error) {
	ctx, span := s.tracer.Start(ctx, "JobService.PayForJob", trace.WithAttributes(
		attribute.Int64("job.id", jobID),
		attribute.Int64("client.id", clientID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	job, err := s.jobs.GetPayable(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrJobNotFoundOrPaid
		}
		return nil, apperror.Internal(err)
	}
	if job.ClientID != clientID {
		return nil, apperror.ErrNotJobClient
	}

	paidAt := s.now().UTC()
	var client, contractor *models.Profile
	err = s.tx.WithTx(ctx, func(tx db.Querier) error {
		debited, err := s.profiles.AdjustBalance(ctx, tx, job.ClientID, job.Price.Neg())
		if err != nil {
			return err
		}
		if debited.Balance.IsNegative() {
			return apperror.ErrInsufficientBalance
		}

		credited, err := s.profiles.AdjustBalance(ctx, tx, job.ContractorID, job.Price)
		if err != nil {
			return err
		}

		updated, err := s.jobs.MarkPaid(ctx, tx, job.ID, job.Version, paidAt)
		if err != nil {
			return err
		}
		if !updated {
			return apperror.ErrJobAlreadyPaid
		}

		client, contractor = debited, credited
		return nil
	})
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("job_id", jobID).Warn("job payment failed")
		if db.IsNumericOverflow(err) {
			return nil, apperror.ErrBalanceLimitExceeded
		}
		return nil, apperror.From(err)
	}

	logger.WithContext(ctx).WithFields(logrus.Fields{
		"job_id":        job.ID,
		"contractor_id": job.ContractorID,
		"amount":        job.Price.StringFixed(moneyScale),
	}).Info("job paid")

	publishBalance(ctx, s.notifier, client)
	publishBalance(ctx, s.notifier, contractor)
	publish(ctx, s.notifier, contractor.ID, models.EventJobPaid, models.JobPaid{
		JobID:      job.ID,
		ContractID: job.ContractID,
		Price:      job.Price,
		PaidDate:   paidAt,
	})

	return client, nil
}
