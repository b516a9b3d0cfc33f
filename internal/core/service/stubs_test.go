package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// --- customers ---

type stubCustomerRepo struct {
	byID      map[string]*domain.Customer
	seq       int
	createErr error
	cascade   *[]string
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{byID: make(map[string]*domain.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("c%d", r.seq)
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCustomerRepo) List(_ context.Context, page, limit int) ([]*domain.Customer, int64, error) {
	var all []*domain.Customer
	for _, c := range r.byID {
		clone := *c
		all = append(all, &clone)
	}
	total := int64(len(all))
	skip := (page - 1) * limit
	if skip >= len(all) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], total, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, id, name, phone, address string) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	c.Name, c.Phone, c.Address = name, phone, address
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.byID, id)
	if r.cascade != nil {
		*r.cascade = append(*r.cascade, "customer")
	}
	return nil
}

func (r *stubCustomerRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, c := range r.byID {
		if within(c.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (r *stubCustomerRepo) FindCreatedBetween(_ context.Context, from, to time.Time) ([]*domain.Customer, error) {
	var out []*domain.Customer
	for _, c := range r.byID {
		if within(c.CreatedAt, from, to) {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

// --- stbs ---

type stubSTBRepo struct {
	byID    map[string]*domain.STB
	seq     int
	deleted []string
	cascade *[]string
}

func newStubSTBRepo() *stubSTBRepo {
	return &stubSTBRepo{byID: make(map[string]*domain.STB)}
}

func (r *stubSTBRepo) Create(_ context.Context, s *domain.STB) (*domain.STB, error) {
	r.seq++
	clone := *s
	clone.ID = fmt.Sprintf("s%d", r.seq)
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubSTBRepo) FindByID(_ context.Context, id string) (*domain.STB, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSTBNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSTBRepo) List(_ context.Context) ([]*domain.STB, error) {
	var out []*domain.STB
	for _, s := range r.byID {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubSTBRepo) ListByCustomer(_ context.Context, customerID string) ([]*domain.STB, error) {
	var out []*domain.STB
	for _, s := range r.byID {
		if s.CustomerID == customerID {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubSTBRepo) CountByCustomers(_ context.Context, customerIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, id := range customerIDs {
		for _, s := range r.byID {
			if s.CustomerID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (r *stubSTBRepo) Update(_ context.Context, id, deviceID, customerCode string, amount float64, note string) error {
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrSTBNotFound
	}
	s.DeviceID, s.CustomerCode, s.Amount, s.Note = deviceID, customerCode, amount, note
	return nil
}

func (r *stubSTBRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrSTBNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubSTBRepo) DeleteByCustomer(_ context.Context, customerID string) error {
	for id, s := range r.byID {
		if s.CustomerID == customerID {
			delete(r.byID, id)
		}
	}
	if r.cascade != nil {
		*r.cascade = append(*r.cascade, "stbs")
	}
	return nil
}

func (r *stubSTBRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, s := range r.byID {
		if within(s.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (r *stubSTBRepo) SumAmountBetween(_ context.Context, from, to time.Time) (float64, error) {
	var sum float64
	for _, s := range r.byID {
		if within(s.CreatedAt, from, to) {
			sum += s.Amount
		}
	}
	return sum, nil
}

func (r *stubSTBRepo) FindCreatedBetween(_ context.Context, from, to time.Time) ([]*domain.STB, error) {
	var out []*domain.STB
	for _, s := range r.byID {
		if within(s.CreatedAt, from, to) {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

// --- transactions ---

type stubTransactionRepo struct {
	byID      map[string]*domain.Transaction
	seq       int
	createErr error
	cascade   *[]string
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{byID: make(map[string]*domain.Transaction)}
}

func (r *stubTransactionRepo) Create(_ context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *t
	clone.ID = fmt.Sprintf("t%d", r.seq)
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTransactionRepo) List(_ context.Context) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, t := range r.byID {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubTransactionRepo) ListByCustomer(_ context.Context, customerID string) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, t := range r.byID {
		if t.CustomerID == customerID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) SumByCustomer(_ context.Context, customerID string) (float64, error) {
	var sum float64
	for _, t := range r.byID {
		if t.CustomerID == customerID {
			sum += t.Amount
		}
	}
	return sum, nil
}

func (r *stubTransactionRepo) SumByCustomers(_ context.Context, customerIDs []string) (map[string]float64, error) {
	sums := make(map[string]float64)
	for _, id := range customerIDs {
		for _, t := range r.byID {
			if t.CustomerID == id {
				sums[id] += t.Amount
			}
		}
	}
	return sums, nil
}

func (r *stubTransactionRepo) Update(_ context.Context, id string, amount float64, note string) error {
	t, ok := r.byID[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	t.Amount, t.Note = amount, note
	return nil
}

func (r *stubTransactionRepo) UpdateBySTB(_ context.Context, stbID string, amount float64, note string) error {
	for _, t := range r.byID {
		if t.STBID == stbID {
			t.Amount, t.Note = amount, note
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

func (r *stubTransactionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubTransactionRepo) DeleteBySTB(_ context.Context, stbID string) error {
	for id, t := range r.byID {
		if t.STBID == stbID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *stubTransactionRepo) DeleteByCustomer(_ context.Context, customerID string) error {
	for id, t := range r.byID {
		if t.CustomerID == customerID {
			delete(r.byID, id)
		}
	}
	if r.cascade != nil {
		*r.cascade = append(*r.cascade, "transactions")
	}
	return nil
}

func (r *stubTransactionRepo) SumAddFundsBetween(_ context.Context, from, to time.Time) (float64, error) {
	var sum float64
	for _, t := range r.byID {
		if t.Type == domain.TxAddFund && within(t.CreatedAt, from, to) {
			sum += t.Amount
		}
	}
	return sum, nil
}

func (r *stubTransactionRepo) FindAddFundsBetween(_ context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, t := range r.byID {
		if t.Type == domain.TxAddFund && within(t.CreatedAt, from, to) {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

// --- users ---

type stubUserRepo struct {
	byID map[string]*domain.User
	seq  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := *u
	clone.ID = fmt.Sprintf("u%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id, name, email, role, passwordHash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Name, u.Email, u.Role = name, email, role
	if passwordHash != "" {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// --- settings ---

type stubSettingsRepo struct {
	doc         *domain.Settings
	ensureCalls int
	updateErr   error
	lastUpdated *domain.Settings
}

func (r *stubSettingsRepo) EnsureSingleton(_ context.Context) (*domain.Settings, error) {
	r.ensureCalls++
	if r.doc == nil {
		r.doc = &domain.Settings{ID: "settings1", UpdatedAt: time.Now().UTC()}
	}
	clone := *r.doc
	return &clone, nil
}

func (r *stubSettingsRepo) Find(_ context.Context) (*domain.Settings, error) {
	if r.doc == nil {
		return nil, domain.ErrSettingsNotFound
	}
	clone := *r.doc
	return &clone, nil
}

func (r *stubSettingsRepo) Update(_ context.Context, s *domain.Settings) (*domain.Settings, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	clone := *s
	r.doc = &clone
	r.lastUpdated = &clone
	out := clone
	return &out, nil
}

// --- notifier ---

type notifierCall struct {
	customer *domain.Customer
	deviceID string
	amount   float64
	addedBy  string
}

type stubNotifier struct {
	fundsAdded  []notifierCall
	stbAssigned []notifierCall
}

func (n *stubNotifier) FundsAdded(_ context.Context, customer *domain.Customer, amount float64, addedBy string) {
	n.fundsAdded = append(n.fundsAdded, notifierCall{customer: customer, amount: amount, addedBy: addedBy})
}

func (n *stubNotifier) STBAssigned(_ context.Context, customer *domain.Customer, deviceID string, amount float64, addedBy string) {
	n.stbAssigned = append(n.stbAssigned, notifierCall{customer: customer, deviceID: deviceID, amount: amount, addedBy: addedBy})
}

// --- report cache ---

type stubReportCache struct {
	store  map[string]*ports.Report
	getErr error
	setErr error
	gets   int
	sets   int
}

func newStubReportCache() *stubReportCache {
	return &stubReportCache{store: make(map[string]*ports.Report)}
}

func (c *stubReportCache) Get(_ context.Context, key string) (*ports.Report, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.store[key], nil
}

func (c *stubReportCache) Set(_ context.Context, key string, r *ports.Report) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.store[key] = r
	return nil
}

// --- actors ---

var (
	adminActor    = domain.Actor{ID: "u1", Name: "Root", Role: domain.RoleAdmin}
	editorActor   = domain.Actor{ID: "u2", Name: "Ed", Role: domain.RoleEditor}
	inactiveActor = domain.Actor{ID: "u3", Name: "Gone", Role: domain.RoleInactive}
)
