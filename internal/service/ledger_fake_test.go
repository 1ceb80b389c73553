package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/repository/common"
)

// memLedger - хранилище в памяти для тестов сервисов.
// WithTx выполняет транзакции строго по очереди и откатывает состояние при ошибке,
// что соответствует гарантиям SERIALIZABLE для одного узла.
type memLedger struct {
	txMu sync.Mutex
	mu   sync.Mutex

	profiles  map[int64]models.Profile
	contracts map[int64]models.Contract
	jobs      map[int64]models.Job
	nextID    int64

	calls       []string
	markPaidErr error
	commits     int
	rollbacks   int
}

func newMemLedger() *memLedger {
	return &memLedger{
		profiles:  make(map[int64]models.Profile),
		contracts: make(map[int64]models.Contract),
		jobs:      make(map[int64]models.Job),
	}
}

type ledgerSnapshot struct {
	profiles  map[int64]models.Profile
	contracts map[int64]models.Contract
	jobs      map[int64]models.Job
	nextID    int64
}

func (l *memLedger) snapshot() ledgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := ledgerSnapshot{
		profiles:  make(map[int64]models.Profile, len(l.profiles)),
		contracts: make(map[int64]models.Contract, len(l.contracts)),
		jobs:      make(map[int64]models.Job, len(l.jobs)),
		nextID:    l.nextID,
	}
	for k, v := range l.profiles {
		s.profiles[k] = v
	}
	for k, v := range l.contracts {
		s.contracts[k] = v
	}
	for k, v := range l.jobs {
		s.jobs[k] = v
	}
	return s
}

func (l *memLedger) restore(s ledgerSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profiles, l.contracts, l.jobs, l.nextID = s.profiles, s.contracts, s.jobs, s.nextID
}

func (l *memLedger) WithTx(_ context.Context, fn func(tx db.Querier) error) error {
	l.txMu.Lock()
	defer l.txMu.Unlock()

	snap := l.snapshot()
	if err := fn(nil); err != nil {
		l.restore(snap)
		l.rollbacks++
		return err
	}
	l.commits++
	return nil
}

func (l *memLedger) call(name string) {
	l.calls = append(l.calls, name)
}

func (l *memLedger) id() int64 {
	l.nextID++
	return l.nextID
}

// --- наполнение ---

func (l *memLedger) addProfile(role models.ProfileRole, profession string, balance string) models.Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := models.Profile{
		ID:         l.id(),
		FirstName:  "First",
		LastName:   "Last",
		Profession: profession,
		Role:       role,
		Balance:    decimal.RequireFromString(balance),
	}
	l.profiles[p.ID] = p
	return p
}

func (l *memLedger) addContract(clientID, contractorID int64, status models.ContractStatus) models.Contract {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := models.Contract{ID: l.id(), ClientID: clientID, ContractorID: contractorID, Status: status, Terms: "terms"}
	l.contracts[c.ID] = c
	return c
}

func (l *memLedger) addJob(contractID int64, price string) models.Job {
	l.mu.Lock()
	defer l.mu.Unlock()
	j := models.Job{ID: l.id(), ContractID: contractID, Description: "work", Price: decimal.RequireFromString(price), Version: 1}
	l.jobs[j.ID] = j
	return j
}

func (l *memLedger) profile(id int64) models.Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.profiles[id]
}

func (l *memLedger) job(id int64) models.Job {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.jobs[id]
}

// --- ProfileRepository ---

func (l *memLedger) Create(_ context.Context, p *models.Profile) (*models.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	created := *p
	created.ID = l.id()
	created.Balance = decimal.Zero
	l.profiles[created.ID] = created
	return &created, nil
}

func (l *memLedger) GetByID(_ context.Context, id int64) (*models.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (l *memLedger) List(_ context.Context, role *models.ProfileRole) ([]models.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.Profile
	for _, p := range l.profiles {
		if role == nil || p.Role == *role {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *memLedger) GetByIDAndRole(_ context.Context, _ db.Querier, id int64, role models.ProfileRole) (*models.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.profiles[id]
	if !ok || p.Role != role {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (l *memLedger) LockByID(_ context.Context, _ db.Querier, id int64) (*models.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.call("LockByID")
	p, ok := l.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (l *memLedger) AdjustBalance(_ context.Context, _ db.Querier, id int64, delta decimal.Decimal) (*models.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.call("AdjustBalance")
	p, ok := l.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	balance := p.Balance.Add(delta)
	if balance.Abs().GreaterThan(MaxAmount) {
		return nil, &pq.Error{Code: "22003", Message: "numeric field overflow"}
	}
	p.Balance = balance
	l.profiles[id] = p
	return &p, nil
}

// --- ContractRepository (через обёртку, чтобы не пересекаться по именам методов) ---

type memContracts struct{ *memLedger }

func (c memContracts) Create(_ context.Context, _ db.Querier, contract *models.Contract) (*models.Contract, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	created := *contract
	created.ID = c.id()
	c.contracts[created.ID] = created
	return &created, nil
}

func (c memContracts) GetByID(_ context.Context, id int64) (*models.Contract, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	contract, ok := c.contracts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &contract, nil
}

func (c memContracts) ListJobs(_ context.Context, contractID int64) ([]models.ContractJob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []models.ContractJob{}
	for _, j := range c.jobs {
		if j.ContractID == contractID {
			out = append(out, models.ContractJob{ID: j.ID, Description: j.Description, Price: j.Price, IsPaid: j.IsPaid})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c memContracts) ListActiveForProfile(_ context.Context, profileID int64, take, skip int) ([]models.Contract, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var all []models.Contract
	for _, contract := range c.contracts {
		if contract.HasParticipant(profileID) && contract.Status != models.ContractStatusTerminated {
			all = append(all, contract)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, take, skip), len(all), nil
}

// --- JobRepository ---

type memJobs struct{ *memLedger }

func (m memJobs) Create(_ context.Context, j *models.Job) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contracts[j.ContractID]; !ok {
		return nil, common.ErrNotFound
	}
	created := *j
	created.ID = m.id()
	created.Version = 1
	m.jobs[created.ID] = created
	return &created, nil
}

func (m memJobs) ListUnpaidForProfile(_ context.Context, profileID int64, take, skip int) ([]models.Job, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Job
	for _, j := range m.jobs {
		c := m.contracts[j.ContractID]
		if !j.IsPaid && c.Status == models.ContractStatusInProgress && c.HasParticipant(profileID) {
			all = append(all, j)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, take, skip), len(all), nil
}

func (m memJobs) GetPayable(_ context.Context, jobID int64) (*models.PayableJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok || j.IsPaid {
		return nil, common.ErrNotFound
	}
	c := m.contracts[j.ContractID]
	return &models.PayableJob{Job: j, ClientID: c.ClientID, ContractorID: c.ContractorID}, nil
}

func (m memJobs) MarkPaid(_ context.Context, _ db.Querier, jobID, version int64, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("MarkPaid")
	if m.markPaidErr != nil {
		return false, m.markPaidErr
	}
	j, ok := m.jobs[jobID]
	if !ok || j.IsPaid || j.Version != version {
		return false, nil
	}
	j.IsPaid = true
	j.PaidDate = &paidAt
	j.Version++
	m.jobs[jobID] = j
	return true, nil
}

func (m memJobs) SumOutstandingForClient(_ context.Context, _ db.Querier, clientID int64) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("SumOutstandingForClient")
	total := decimal.Zero
	for _, j := range m.jobs {
		c := m.contracts[j.ContractID]
		if !j.IsPaid && c.ClientID == clientID && c.Status == models.ContractStatusInProgress {
			total = total.Add(j.Price)
		}
	}
	return total, nil
}

func window[T any](items []T, take, skip int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := skip + take
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// recordingNotifier запоминает отправленные события.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

type notification struct {
	profileID int64
	event     string
	data      any
}

func (n *recordingNotifier) BroadcastToUser(profileID int64, event string, data any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{profileID: profileID, event: event, data: data})
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}
