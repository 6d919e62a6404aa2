package main

import (
	"sort"
	"sync"
	"time"
)

// Todo is an item of the demo store.
type Todo struct {
	ID      int
	Title   string
	Tags    []string
	Done    bool
	Created time.Time
}

// Store is an in-memory todo store.
type Store struct {
	mu     sync.RWMutex
	todos  map[int]*Todo
	nextID int
}

// NewStore creates a store with sample data.
func NewStore() *Store {
	s := &Store{
		todos:  make(map[int]*Todo),
		nextID: 1,
	}

	s.Add("Buy groceries", "personal")
	s.Add("Review pull request", "work", "urgent")
	s.Add("Write documentation", "work")
	s.Add("Call dentist", "personal", "later")
	s.Add("Fix login bug", "work", "urgent")

	return s
}

// Add creates a todo and returns its ID.
func (s *Store) Add(title string, tags ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.todos[id] = &Todo{
		ID:      id,
		Title:   title,
		Tags:    tags,
		Created: time.Now(),
	}
	return id
}

// Get returns a copy of the todo with id.
func (s *Store) Get(id int) (Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.todos[id]
	if !ok {
		return Todo{}, false
	}
	return *t, true
}

// Toggle flips the done flag of a todo.
func (s *Store) Toggle(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return false
	}
	t.Done = !t.Done
	return true
}

// Delete removes a todo.
func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return false
	}
	delete(s.todos, id)
	return true
}

// List returns copies of the todos ordered by ID. Done todos are included
// only with includeDone.
func (s *Store) List(includeDone bool) []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if t.Done && !includeDone {
			continue
		}
		res = append(res, *t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}
