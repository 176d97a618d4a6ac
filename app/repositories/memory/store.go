// Package memory is the in-memory Store used by tests and `serve --in-memory`.
package memory

import (
	"sort"
	"sync"

	"modboard/app/models"
	"modboard/app/repositories"
)

type data struct {
	posts    map[int]models.Post
	comments map[int]models.Comment
	reports  map[int]models.Report
	users    map[int]models.User
	seq      map[string]int
}

func newData() *data {
	return &data{
		posts:    make(map[int]models.Post),
		comments: make(map[int]models.Comment),
		reports:  make(map[int]models.Report),
		users:    make(map[int]models.User),
		seq:      make(map[string]int),
	}
}

// clone copies every collection. Report target pointers are copied by value.
func (d *data) clone() *data {
	c := newData()
	for k, v := range d.posts {
		c.posts[k] = v
	}
	for k, v := range d.comments {
		c.comments[k] = v
	}
	for k, v := range d.reports {
		c.reports[k] = copyReport(v)
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.seq {
		c.seq[k] = v
	}
	return c
}

func (d *data) nextID(key string) int {
	d.seq[key]++
	return d.seq[key]
}

func copyReport(r models.Report) models.Report {
	if r.PostID != nil {
		id := *r.PostID
		r.PostID = &id
	}
	if r.CommentID != nil {
		id := *r.CommentID
		r.CommentID = &id
	}
	return r
}

// Store implements repositories.Store with maps. Update works on a copy of
// the data and swaps it in only when fn succeeds, so a failed cascade leaves
// nothing behind.
type Store struct {
	mutex sync.RWMutex
	data  *data
}

func NewStore() *Store {
	return &Store{data: newData()}
}

func (s *Store) View(fn func(tx repositories.Tx) error) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return fn(&tx{d: s.data, readOnly: true})
}

func (s *Store) Update(fn func(tx repositories.Tx) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	work := s.data.clone()
	if err := fn(&tx{d: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Clear drops every entity and resets the id sequences.
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = newData()
}

type tx struct {
	d        *data
	readOnly bool
}

func (t *tx) Posts() repositories.PostRepository       { return &postRepo{t} }
func (t *tx) Comments() repositories.CommentRepository { return &commentRepo{t} }
func (t *tx) Reports() repositories.ReportRepository   { return &reportRepo{t} }
func (t *tx) Users() repositories.UserRepository       { return &userRepo{t} }

func (t *tx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
