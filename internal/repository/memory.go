package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"fifa-tracker/internal/domain"
)

// MemoryStore is the process-local fallback used when the primary
// backend rejects an operation. Contents are lost on restart; that is
// the accepted cost of keeping the app usable during an outage.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	matches     []domain.Match
	stats       map[string]domain.PlayerStats
	nextMatchID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]domain.User),
		stats:       make(map[string]domain.PlayerStats),
		nextMatchID: 1,
	}
}

func (m *MemoryStore) SaveUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *user
	if existing, ok := m.users[user.WalletAddress]; ok {
		saved.CreatedAt = existing.CreatedAt
	} else if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}
	m.users[user.WalletAddress] = saved
	return nil
}

func (m *MemoryStore) GetUserByWallet(_ context.Context, address string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[address]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, address)
	return nil
}

func (m *MemoryStore) CreateMatch(_ context.Context, match *domain.Match) (*domain.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *match
	created.ID = m.nextMatchID
	m.nextMatchID++
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	m.matches = append(m.matches, created)
	return &created, nil
}

func (m *MemoryStore) GetMatch(_ context.Context, id int64) (*domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, match := range m.matches {
		if match.ID == id {
			found := match
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListMatches(_ context.Context, limit int) ([]domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]domain.Match, len(m.matches))
	copy(matches, m.matches)
	sortMatchesNewestFirst(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MemoryStore) ListMatchesForPlayer(_ context.Context, address string) ([]domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []domain.Match
	for _, match := range m.matches {
		if match.Involves(address) {
			matches = append(matches, match)
		}
	}
	sortMatchesNewestFirst(matches)
	return matches, nil
}

func (m *MemoryStore) SetMatchWinner(_ context.Context, id int64, winner string) (*domain.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.matches {
		if m.matches[i].ID == id {
			m.matches[i].Winner = winner
			updated := m.matches[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) DeleteMatch(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.matches {
		if m.matches[i].ID == id {
			m.matches = append(m.matches[:i], m.matches[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) UpsertStats(_ context.Context, stats *domain.PlayerStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats[stats.UserID] = *stats
	return nil
}

func (m *MemoryStore) GetStats(_ context.Context, userID string) (*domain.PlayerStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, ok := m.stats[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &stats, nil
}

func (m *MemoryStore) ListStats(_ context.Context) ([]domain.PlayerStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]domain.PlayerStats, 0, len(m.stats))
	for _, stats := range m.stats {
		all = append(all, stats)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Wins != all[j].Wins {
			return all[i].Wins > all[j].Wins
		}
		if all[i].GoalsFor != all[j].GoalsFor {
			return all[i].GoalsFor > all[j].GoalsFor
		}
		return all[i].UserID < all[j].UserID
	})
	return all, nil
}

func (m *MemoryStore) Participants(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for address := range m.users {
		seen[address] = struct{}{}
	}
	for userID := range m.stats {
		seen[userID] = struct{}{}
	}
	for _, match := range m.matches {
		seen[match.Player1] = struct{}{}
		seen[match.Player2] = struct{}{}
	}

	participants := make([]string, 0, len(seen))
	for address := range seen {
		participants = append(participants, address)
	}
	sort.Strings(participants)
	return participants, nil
}

func sortMatchesNewestFirst(matches []domain.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
}
