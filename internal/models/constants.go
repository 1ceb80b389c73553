package models

// ProfileRole роль профиля
type ProfileRole string

const (
	RoleClient     ProfileRole = "client"
	RoleContractor ProfileRole = "contractor"
)

// Valid сообщает, что роль входит в допустимый набор.
func (r ProfileRole) Valid() bool {
	return r == RoleClient || r == RoleContractor
}

// ContractStatus статус контракта
type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

// ValidContractStatuses список валидных статусов контракта
var ValidContractStatuses = map[ContractStatus]struct{}{
	ContractStatusNew:        {},
	ContractStatusInProgress: {},
	ContractStatusTerminated: {},
}

// Valid сообщает, что статус входит в допустимый набор.
func (s ContractStatus) Valid() bool {
	_, ok := ValidContractStatuses[s]
	return ok
}

// События, которые уходят клиентам по WebSocket
const (
	EventBalanceUpdated = "balance.updated"
	EventJobPaid        = "job.paid"
)
