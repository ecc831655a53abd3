package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/securevote/app-verify/internal/models"
)

// Memory keeps every record in process. Transactions are serialized and
// undo only the records they wrote when fn fails.
type Memory struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	voters       map[string]models.Voter
	cases        map[string]models.VerificationCase
	invalidVotes []models.InvalidVote
}

// memoryTx journals the prior state of every record written inside a
// transaction. A nil prior value means the record did not exist.
type memoryTx struct {
	voters       map[string]*models.Voter
	cases        map[string]*models.VerificationCase
	invalidVotes []int
}

type memoryTxKey struct{}

func txFromContext(ctx context.Context) *memoryTx {
	tx, _ := ctx.Value(memoryTxKey{}).(*memoryTx)
	return tx
}

// NewMemory returns empty in-memory stores.
func NewMemory() *Memory {
	return &Memory{
		voters: make(map[string]models.Voter),
		cases:  make(map[string]models.VerificationCase),
	}
}

// Stores exposes m through the store interfaces.
func (m *Memory) Stores() Stores {
	return Stores{
		Voters:       memoryVoters{m},
		Cases:        memoryCases{m},
		InvalidVotes: memoryInvalidVotes{m},
		Tx:           m,
	}
}

// WithTransaction implements Transactor.
func (m *Memory) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &memoryTx{
		voters: make(map[string]*models.Voter),
		cases:  make(map[string]*models.VerificationCase),
	}
	if err := fn(context.WithValue(ctx, memoryTxKey{}, tx)); err != nil {
		m.rollback(tx)
		return err
	}
	return nil
}

func (m *Memory) rollback(tx *memoryTx) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, prior := range tx.voters {
		if prior == nil {
			delete(m.voters, id)
			continue
		}
		m.voters[id] = *prior
	}
	for id, prior := range tx.cases {
		if prior == nil {
			delete(m.cases, id)
			continue
		}
		m.cases[id] = *prior
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tx.invalidVotes)))
	for _, i := range tx.invalidVotes {
		m.invalidVotes = append(m.invalidVotes[:i], m.invalidVotes[i+1:]...)
	}
}

// journalVoter records the voter's state before its first write in tx. m.mu must be held.
func (m *Memory) journalVoter(ctx context.Context, id string) {
	tx := txFromContext(ctx)
	if tx == nil {
		return
	}
	if _, seen := tx.voters[id]; seen {
		return
	}
	if v, ok := m.voters[id]; ok {
		tx.voters[id] = &v
		return
	}
	tx.voters[id] = nil
}

// journalCase records the case's state before its first write in tx. m.mu must be held.
func (m *Memory) journalCase(ctx context.Context, id string) {
	tx := txFromContext(ctx)
	if tx == nil {
		return
	}
	if _, seen := tx.cases[id]; seen {
		return
	}
	if c, ok := m.cases[id]; ok {
		tx.cases[id] = &c
		return
	}
	tx.cases[id] = nil
}

type memoryVoters struct{ m *Memory }

func (s memoryVoters) Create(ctx context.Context, voter *models.Voter) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.voters[voter.VoterID]; ok {
		return models.ErrVoterExists
	}
	s.m.journalVoter(ctx, voter.VoterID)
	now := time.Now().UTC()
	voter.CreatedAt, voter.UpdatedAt = now, now
	s.m.voters[voter.VoterID] = *voter
	return nil
}

func (s memoryVoters) Find(_ context.Context, voterID string) (*models.Voter, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	v, ok := s.m.voters[voterID]
	if !ok {
		return nil, models.ErrVoterNotFound
	}
	return &v, nil
}

func (s memoryVoters) Update(ctx context.Context, voterID string, update models.VoterUpdate) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	v, ok := s.m.voters[voterID]
	if !ok {
		return models.ErrVoterNotFound
	}
	s.m.journalVoter(ctx, voterID)
	update.Apply(&v)
	v.UpdatedAt = time.Now().UTC()
	s.m.voters[voterID] = v
	return nil
}

type memoryCases struct{ m *Memory }

func (s memoryCases) Create(ctx context.Context, c *models.VerificationCase) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.cases[c.CaseID]; ok {
		return models.ErrCaseAlreadyOpen
	}
	if c.Status == models.CaseStatusPending {
		for _, existing := range s.m.cases {
			if existing.VoterID == c.VoterID && existing.Status == models.CaseStatusPending {
				return models.ErrCaseAlreadyOpen
			}
		}
	}
	s.m.journalCase(ctx, c.CaseID)
	s.m.cases[c.CaseID] = *c
	return nil
}

func (s memoryCases) Find(_ context.Context, caseID string) (*models.VerificationCase, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	c, ok := s.m.cases[caseID]
	if !ok {
		return nil, models.ErrCaseNotFound
	}
	return &c, nil
}

func (s memoryCases) FindPendingByVoter(_ context.Context, voterID string) (*models.VerificationCase, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, c := range s.m.cases {
		if c.VoterID == voterID && c.Status == models.CaseStatusPending {
			found := c
			return &found, nil
		}
	}
	return nil, models.ErrCaseNotFound
}

func (s memoryCases) Decide(ctx context.Context, caseID string, status models.CaseStatus, review models.AdminReview) (*models.VerificationCase, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	c, ok := s.m.cases[caseID]
	if !ok {
		return nil, models.ErrCaseNotFound
	}
	if c.Status != models.CaseStatusPending {
		return nil, models.ErrCaseAlreadyDecided
	}
	s.m.journalCase(ctx, caseID)
	c.Status = status
	c.AdminReview = &review
	c.UpdatedAt = time.Now().UTC()
	s.m.cases[caseID] = c
	return &c, nil
}

func (s memoryCases) List(_ context.Context, filter models.CaseFilter) ([]models.VerificationCase, int64, error) {
	filter.Normalize()

	s.m.mu.RLock()
	matched := make([]models.VerificationCase, 0, len(s.m.cases))
	for _, c := range s.m.cases {
		if filter.Status == "" || c.Status == filter.Status {
			matched = append(matched, c)
		}
	}
	s.m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CaseID > matched[j].CaseID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []models.VerificationCase{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s memoryCases) Statistics(_ context.Context) (models.CaseStatistics, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var stats models.CaseStatistics
	for _, c := range s.m.cases {
		stats.Total++
		switch c.Status {
		case models.CaseStatusPending:
			stats.Pending++
		case models.CaseStatusApproved:
			stats.Approved++
		case models.CaseStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

type memoryInvalidVotes struct{ m *Memory }

func (s memoryInvalidVotes) Create(ctx context.Context, vote *models.InvalidVote) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if tx := txFromContext(ctx); tx != nil {
		tx.invalidVotes = append(tx.invalidVotes, len(s.m.invalidVotes))
	}
	s.m.invalidVotes = append(s.m.invalidVotes, *vote)
	return nil
}

func (s memoryInvalidVotes) ListByVoter(_ context.Context, voterID string) ([]models.InvalidVote, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	votes := []models.InvalidVote{}
	for _, v := range s.m.invalidVotes {
		if v.VoterID == voterID {
			votes = append(votes, v)
		}
	}
	sort.SliceStable(votes, func(i, j int) bool { return votes[i].Timestamp.After(votes[j].Timestamp) })
	return votes, nil
}
