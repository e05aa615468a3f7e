// Package store holds the whole application domain state in process memory.
// Nothing here survives a restart; durability is out of scope. Mutations are
// whole-record replacements keyed by stable IDs so that concurrent in-flight
// workflows stay last-writer-wins safe, and every multi-step workflow
// re-reads the latest record by ID instead of holding a stale copy across a
// suspension point.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"creativesuite/internal/domain"
)

// ActivityLogCapacity bounds the audit log; the oldest entry is evicted once
// the capacity is reached.
const ActivityLogCapacity = 200

// Store is the in-memory domain state container. All access goes through its
// methods; collections are never handed out by reference.
type Store struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	projects  map[string]domain.Project
	documents map[string]domain.StudioDocument
	sessions  map[string]domain.ChatSession
	gallery   map[string]domain.GalleryItem
	posts     map[string]domain.BlogPost
	tickets   map[string]domain.SupportTicket
	quizzes   map[string]domain.Quiz
	faqs      []domain.FAQ
	settings  domain.GlobalSettings
	activity  *activityRing
	now       func() time.Time
}

// New constructs an empty store. Callers normally follow up with Seed.
func New() *Store {
	return &Store{
		users:     make(map[string]domain.User),
		projects:  make(map[string]domain.Project),
		documents: make(map[string]domain.StudioDocument),
		sessions:  make(map[string]domain.ChatSession),
		gallery:   make(map[string]domain.GalleryItem),
		posts:     make(map[string]domain.BlogPost),
		tickets:   make(map[string]domain.SupportTicket),
		quizzes:   make(map[string]domain.Quiz),
		activity:  newActivityRing(ActivityLogCapacity),
		now:       time.Now,
	}
}

// SetClock overrides the store's time source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Now reports the store's current time.
func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

// NewID mints a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// --- users ---

func (s *Store) UserByID(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// UserByEmail resolves a user case-insensitively. At most one user exists per
// unique email.
func (s *Store) UserByEmail(email string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return domain.User{}, false
}

// SaveUser inserts or replaces a user record wholesale.
func (s *Store) SaveUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// MutateUser applies fn to the latest user record under the store lock and
// replaces it. Reports false if the user does not exist.
func (s *Store) MutateUser(id string, fn func(*domain.User)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	fn(&u)
	s.users[id] = u
	return true
}

func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- projects ---

func (s *Store) ProjectByID(id string) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	return p, ok
}

func (s *Store) SaveProject(p domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
}

func (s *Store) DeleteProject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, id)
}

func (s *Store) ProjectsByUser(userID string) []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Project
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) CountProjectsByUser(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.projects {
		if p.UserID == userID {
			n++
		}
	}
	return n
}

// MutateProject applies fn to the latest project record under the store lock.
func (s *Store) MutateProject(id string, fn func(*domain.Project)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return false
	}
	fn(&p)
	s.projects[id] = p
	return true
}

// --- studio documents ---

func (s *Store) DocumentByID(id string) (domain.StudioDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	return d, ok
}

func (s *Store) SaveDocument(d domain.StudioDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[d.ID] = d
}

func (s *Store) DeleteDocument(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
}

func (s *Store) DocumentsByUser(userID string) []domain.StudioDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.StudioDocument
	for _, d := range s.documents {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	return out
}

func (s *Store) CountDocumentsByUser(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.documents {
		if d.UserID == userID {
			n++
		}
	}
	return n
}

func (s *Store) MutateDocument(id string, fn func(*domain.StudioDocument)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok {
		return false
	}
	fn(&d)
	s.documents[id] = d
	return true
}

// --- chat sessions ---

func (s *Store) ChatSessionByID(id string) (domain.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.sessions[id]
	return c, ok
}

func (s *Store) SaveChatSession(c domain.ChatSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[c.ID] = c
}

func (s *Store) ChatSessionsByUser(userID string) []domain.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ChatSession
	for _, c := range s.sessions {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// MutateChatSession applies fn to the latest transcript under the store lock.
// Streaming folds chunks through here so each fold sees current state.
func (s *Store) MutateChatSession(id string, fn func(*domain.ChatSession)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[id]
	if !ok {
		return false
	}
	fn(&c)
	s.sessions[id] = c
	return true
}

// --- gallery ---

func (s *Store) GalleryItemByID(id string) (domain.GalleryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gallery[id]
	return g, ok
}

func (s *Store) SaveGalleryItem(g domain.GalleryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gallery[g.ID] = g
}

func (s *Store) GalleryItems() []domain.GalleryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GalleryItem, 0, len(s.gallery))
	for _, g := range s.gallery {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// LikeGalleryItem bumps the like counter. Reports false for unknown items.
func (s *Store) LikeGalleryItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gallery[id]
	if !ok {
		return false
	}
	g.Likes++
	s.gallery[id] = g
	return true
}

// --- blog ---

func (s *Store) BlogPostByID(id string) (domain.BlogPost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	return p, ok
}

func (s *Store) SaveBlogPost(p domain.BlogPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[p.ID] = p
}

func (s *Store) MutateBlogPost(id string, fn func(*domain.BlogPost)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false
	}
	fn(&p)
	s.posts[id] = p
	return true
}

func (s *Store) DeleteBlogPost(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
}

func (s *Store) BlogPosts() []domain.BlogPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BlogPost, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- support tickets ---

func (s *Store) SaveTicket(t domain.SupportTicket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[t.ID] = t
}

func (s *Store) TicketByID(id string) (domain.SupportTicket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	return t, ok
}

func (s *Store) Tickets() []domain.SupportTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SupportTicket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- quizzes ---

func (s *Store) SaveQuiz(q domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[q.ID] = q
}

func (s *Store) QuizzesByUser(userID string) []domain.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Quiz
	for _, q := range s.quizzes {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- FAQs ---

func (s *Store) FAQs() []domain.FAQ {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.FAQ, len(s.faqs))
	copy(out, s.faqs)
	return out
}

func (s *Store) SetFAQs(faqs []domain.FAQ) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faqs = make([]domain.FAQ, len(faqs))
	copy(s.faqs, faqs)
}

// --- settings ---

func (s *Store) Settings() domain.GlobalSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) SetSettings(gs domain.GlobalSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = gs
}

func (s *Store) MutateSettings(fn func(*domain.GlobalSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := s.settings
	fn(&gs)
	s.settings = gs
}

// --- activity log ---

// LogActivity appends one audit entry snapshotting the acting user's identity.
func (s *Store) LogActivity(user domain.User, action, details string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity.append(domain.ActivityEntry{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
		Action:    action,
		Details:   details,
		Timestamp: s.now(),
	})
}

// Activity returns the retained audit entries, newest first.
func (s *Store) Activity() []domain.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activity.snapshot()
}

// ActivityLen reports how many audit entries are currently retained.
func (s *Store) ActivityLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activity.len()
}
