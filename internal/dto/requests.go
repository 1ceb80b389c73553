package dto

import "github.com/shopspring/decimal"

// CreateProfileRequest - тело POST /profiles.
type CreateProfileRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Profession string `json:"profession" binding:"required"`
	Role       string `json:"role" binding:"required,oneof=client contractor"`
}

// CreateContractRequest - тело POST /contracts. Клиентом становится автор запроса.
type CreateContractRequest struct {
	Terms        string `json:"terms" binding:"required"`
	Status       string `json:"status" binding:"omitempty,oneof=new in_progress terminated"`
	ContractorID int64  `json:"contractor_id" binding:"required,gt=0"`
}

// CreateJobRequest - тело POST /jobs. Цена принимается строкой или числом.
type CreateJobRequest struct {
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	ContractID  int64           `json:"contract_id" binding:"required,gt=0"`
}

// DepositRequest - тело POST /balances/deposit/:user_id.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
