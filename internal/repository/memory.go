package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

// MemStore is an in-memory implementation of the portal storage ports with
// the same error contract as the Postgres store. It backs the test suites
// and is safe for concurrent use.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[string]model.Account
	content  map[string]model.ContentItem
	streams  map[string]model.ClassStream
	subjects map[string]model.Subject
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: make(map[string]model.Account),
		content:  make(map[string]model.ContentItem),
		streams:  make(map[string]model.ClassStream),
		subjects: make(map[string]model.Subject),
	}
}

// ---- accounts ----

func (m *MemStore) CreateAccount(ctx context.Context, account model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return &portal.ConflictError{Message: "email is already registered"}
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MemStore) GetAccountByID(ctx context.Context, id string) (model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[id]
	if !ok {
		return model.Account{}, &portal.NotFoundError{Message: "account not found"}
	}
	return account, nil
}

func (m *MemStore) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, account := range m.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return model.Account{}, &portal.NotFoundError{Message: "account not found"}
}

func (m *MemStore) UpdateAccount(ctx context.Context, account model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.accounts[account.ID]
	if !ok {
		return &portal.NotFoundError{Message: "account not found"}
	}
	for id, existing := range m.accounts {
		if id != account.ID && existing.Email == account.Email {
			return &portal.ConflictError{Message: "email is already registered"}
		}
	}
	// Placement is immutable after creation; preserve it across updates.
	account.Placement = current.Placement
	account.Role = current.Role
	m.accounts[account.ID] = account
	return nil
}

func (m *MemStore) DeleteAccount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return &portal.NotFoundError{Message: "account not found"}
	}
	delete(m.accounts, id)
	return nil
}

func (m *MemStore) ListAccounts(ctx context.Context, filter portal.AccountFilter) ([]model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []model.Account
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, account := range m.accounts {
		if filter.Role != "" && account.Role != filter.Role {
			continue
		}
		if filter.Level != "" && account.Placement.Level != filter.Level {
			continue
		}
		if filter.Class != "" && account.Placement.Class != filter.Class {
			continue
		}
		if filter.Confirmed != nil && account.Confirmed != *filter.Confirmed {
			continue
		}
		if filter.Active != nil && account.Active != *filter.Active {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(account.Name), search) &&
			!strings.Contains(strings.ToLower(account.Email), search) {
			continue
		}
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return paginate(accounts, filter.Limit, filter.Offset), nil
}

func (m *MemStore) AccountStats(ctx context.Context) (model.AccountStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var stats model.AccountStats
	for _, account := range m.accounts {
		stats.Total++
		if account.Role == model.RoleStudent {
			stats.Students++
		}
		if account.Role == model.RoleAdmin {
			stats.Admins++
		}
		if account.Active {
			stats.Active++
		} else {
			stats.Inactive++
		}
		if account.Confirmed {
			stats.Confirmed++
		} else {
			stats.Pending++
		}
		if account.Placement.Level == model.LevelOLevel {
			stats.OLevel++
		}
		if account.Placement.Level == model.LevelALevel {
			stats.ALevel++
		}
	}
	return stats, nil
}

// ---- content ----

func (m *MemStore) CreateContent(ctx context.Context, item model.ContentItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[item.ID] = item
	return nil
}

func (m *MemStore) GetContentByID(ctx context.Context, id string) (model.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.content[id]
	if !ok {
		return model.ContentItem{}, &portal.NotFoundError{Message: "content item not found"}
	}
	return item, nil
}

func (m *MemStore) UpdateContent(ctx context.Context, item model.ContentItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.content[item.ID]; !ok {
		return &portal.NotFoundError{Message: "content item not found"}
	}
	m.content[item.ID] = item
	return nil
}

func (m *MemStore) DeleteContent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.content[id]; !ok {
		return &portal.NotFoundError{Message: "content item not found"}
	}
	delete(m.content, id)
	return nil
}

func (m *MemStore) ListContent(ctx context.Context, filter portal.ContentFilter) ([]model.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []model.ContentItem
	for _, item := range m.content {
		if !item.Active {
			continue
		}
		if filter.Kind != "" && item.Kind != filter.Kind {
			continue
		}
		if filter.Level != "" && item.Visibility.Level != filter.Level {
			continue
		}
		if filter.Class != "" && item.Visibility.Class != filter.Class {
			continue
		}
		if filter.Subject != "" && item.Subject != filter.Subject {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return paginate(items, filter.Limit, filter.Offset), nil
}

func (m *MemStore) IncrementContentViews(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.content[id]
	if !ok {
		return nil
	}
	item.Views++
	m.content[id] = item
	return nil
}

func (m *MemStore) IncrementContentDownloads(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.content[id]
	if !ok {
		return nil
	}
	item.Downloads++
	m.content[id] = item
	return nil
}

// ---- class streams ----

func (m *MemStore) CreateClassStream(ctx context.Context, stream model.ClassStream) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.streams {
		if existing.Class == stream.Class && strings.EqualFold(existing.Name, stream.Name) {
			return &portal.ConflictError{Message: "stream already exists for this class"}
		}
	}
	m.streams[stream.ID] = stream
	return nil
}

func (m *MemStore) GetClassStreamByID(ctx context.Context, id string) (model.ClassStream, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stream, ok := m.streams[id]
	if !ok {
		return model.ClassStream{}, &portal.NotFoundError{Message: "class stream not found"}
	}
	return stream, nil
}

func (m *MemStore) UpdateClassStream(ctx context.Context, stream model.ClassStream) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.streams[stream.ID]; !ok {
		return &portal.NotFoundError{Message: "class stream not found"}
	}
	m.streams[stream.ID] = stream
	return nil
}

func (m *MemStore) DeleteClassStream(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.streams[id]; !ok {
		return &portal.NotFoundError{Message: "class stream not found"}
	}
	delete(m.streams, id)
	return nil
}

func (m *MemStore) ListClassStreams(ctx context.Context, class model.Class) ([]model.ClassStream, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var streams []model.ClassStream
	for _, stream := range m.streams {
		if !stream.Active {
			continue
		}
		if class != "" && stream.Class != class {
			continue
		}
		streams = append(streams, stream)
	}
	sort.Slice(streams, func(i, j int) bool {
		if streams[i].Class != streams[j].Class {
			return streams[i].Class < streams[j].Class
		}
		return streams[i].Name < streams[j].Name
	})
	return streams, nil
}

// ---- subjects ----

func (m *MemStore) CreateSubject(ctx context.Context, subject model.Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.subjects {
		if existing.Level == subject.Level && existing.Class == subject.Class &&
			strings.EqualFold(existing.Name, subject.Name) {
			return &portal.ConflictError{Message: "subject already exists"}
		}
	}
	m.subjects[subject.ID] = subject
	return nil
}

func (m *MemStore) GetSubjectByID(ctx context.Context, id string) (model.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subject, ok := m.subjects[id]
	if !ok {
		return model.Subject{}, &portal.NotFoundError{Message: "subject not found"}
	}
	return subject, nil
}

func (m *MemStore) UpdateSubject(ctx context.Context, subject model.Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[subject.ID]; !ok {
		return &portal.NotFoundError{Message: "subject not found"}
	}
	m.subjects[subject.ID] = subject
	return nil
}

func (m *MemStore) DeleteSubject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[id]; !ok {
		return &portal.NotFoundError{Message: "subject not found"}
	}
	delete(m.subjects, id)
	return nil
}

func (m *MemStore) ListSubjects(ctx context.Context, level model.Level, class model.Class, stream model.Stream) ([]model.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var subjects []model.Subject
	for _, subject := range m.subjects {
		if level != "" && subject.Level != level {
			continue
		}
		if class != "" && subject.Class != class {
			continue
		}
		if stream != "" && subject.Stream != stream {
			continue
		}
		subjects = append(subjects, subject)
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Level != subjects[j].Level {
			return subjects[i].Level < subjects[j].Level
		}
		if subjects[i].Class != subjects[j].Class {
			return subjects[i].Class < subjects[j].Class
		}
		return subjects[i].Name < subjects[j].Name
	})
	return subjects, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
