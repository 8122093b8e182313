package service

import (
	"context"
	"sync"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/model"
	"github.com/cleberrangel/houseforge-api/internal/repository"
)

type memoryProjectStore struct {
	mu       sync.Mutex
	projects map[string]model.Project
	reads    int
}

func newMemoryProjectStore() *memoryProjectStore {
	return &memoryProjectStore{projects: make(map[string]model.Project)}
}

func (m *memoryProjectStore) Create(ctx context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.projects[p.ID] = *p
	return nil
}

func (m *memoryProjectStore) GetByID(ctx context.Context, id string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	p, ok := m.projects[id]
	if !ok {
		return nil, model.ErrProjectNotFound
	}
	return &p, nil
}

func (m *memoryProjectStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []model.Project{}
	for _, p := range m.projects {
		if p.OwnerID == ownerID {
			p.Estimate = nil
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *memoryProjectStore) Update(ctx context.Context, p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return model.ErrProjectNotFound
	}
	p.UpdatedAt = time.Now()
	m.projects[p.ID] = *p
	return nil
}

func (m *memoryProjectStore) UpdateStatus(ctx context.Context, id string, from, to model.ProjectStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || p.Status != from {
		return model.ErrInvalidStatusTransition
	}
	p.Status = to
	m.projects[id] = p
	return nil
}

func (m *memoryProjectStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return model.ErrProjectNotFound
	}
	delete(m.projects, id)
	return nil
}

type sentEvent struct {
	owner, eventType, projectID string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) NotifyProject(ownerID, eventType, projectID string, data interface{}) {
	n.mu.Lock()
	n.events = append(n.events, sentEvent{ownerID, eventType, projectID})
	n.mu.Unlock()
}

func (n *recordingNotifier) last() sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return sentEvent{}
	}
	return n.events[len(n.events)-1]
}

type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]string
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]string)}
}

func (m *memoryUserStore) GetByUsername(ctx context.Context, username string) (*repository.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	return &repository.User{Username: username, PasswordHash: hash}, nil
}

func (m *memoryUserStore) Create(ctx context.Context, username, passwordHash string) (*repository.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = passwordHash
	return &repository.User{Username: username, PasswordHash: passwordHash}, nil
}

func (m *memoryUserStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = passwordHash
	return nil
}

func (m *memoryUserStore) Delete(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, username)
	return nil
}

func (m *memoryUserStore) Credentials(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	creds := make(map[string]string, len(m.users))
	for u, h := range m.users {
		creds[u] = h
	}
	return creds, nil
}
