package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"portfolio-admin/internal/model"
	"portfolio-admin/internal/storage"
)

type fakeStore struct {
	messages map[string]*model.ContactMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]*model.ContactMessage)}
}

func (s *fakeStore) CreateContactMessage(_ context.Context, m *model.ContactMessage) error {
	cp := *m
	s.messages[m.ID] = &cp
	return nil
}

func (s *fakeStore) ListContactMessages(_ context.Context, read *bool) ([]*model.ContactMessage, error) {
	var out []*model.ContactMessage
	for _, m := range s.messages {
		if read != nil && m.IsRead != *read {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) MarkContactMessageRead(_ context.Context, id string) (*model.ContactMessage, error) {
	m, ok := s.messages[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	now := time.Now()
	m.IsRead = true
	m.ReadAt = &now
	cp := *m
	return &cp, nil
}

func (s *fakeStore) DeleteContactMessage(_ context.Context, id string) error {
	if _, ok := s.messages[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.messages, id)
	return nil
}

// fakeNotifier 记录收到的推送
type fakeNotifier struct {
	notified []*model.ContactMessage
}

func (n *fakeNotifier) NotifyContactMessage(m *model.ContactMessage) {
	n.notified = append(n.notified, m)
}

func newMux(s *fakeStore, n Notifier) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(s, n).RegisterRoutes(mux)
	return mux
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func do(t *testing.T, mux *http.ServeMux, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	var env envelope
	if w.Body.Len() > 0 {
		if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
			t.Fatalf("decode envelope: %v (body: %s)", err, w.Body.String())
		}
	}
	return w, env
}

func TestSubmit(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	mux := newMux(store, notifier)

	w, env := do(t, mux, "POST", "/api/contact",
		`{"name":"Visitor","email":"visitor@example.com","subject":"Hi","message":"hello"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var m model.ContactMessage
	json.Unmarshal(env.Data, &m)
	if !strings.HasPrefix(m.ID, "msg-") {
		t.Errorf("id = %q", m.ID)
	}
	if m.IsRead {
		t.Error("new message should be unread")
	}
	if len(notifier.notified) != 1 || notifier.notified[0].ID != m.ID {
		t.Errorf("notifier calls = %d", len(notifier.notified))
	}
}

func TestSubmitNilNotifier(t *testing.T) {
	mux := newMux(newFakeStore(), nil)
	w, _ := do(t, mux, "POST", "/api/contact",
		`{"name":"V","email":"v@e.com","message":"hi"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSubmitValidation(t *testing.T) {
	mux := newMux(newFakeStore(), nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"v@e.com","message":"hi"}`},
		{"missing email", `{"name":"V","message":"hi"}`},
		{"missing message", `{"name":"V","email":"v@e.com"}`},
		{"email without @", `{"name":"V","email":"nope","message":"hi"}`},
		{"malformed json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, mux, "POST", "/api/contact", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestListWithReadFilter(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	store.messages["msg-1"] = &model.ContactMessage{ID: "msg-1", Name: "A", Email: "a@e.com", Message: "x", IsRead: true, CreatedAt: now.Add(-time.Hour)}
	store.messages["msg-2"] = &model.ContactMessage{ID: "msg-2", Name: "B", Email: "b@e.com", Message: "y", CreatedAt: now}
	mux := newMux(store, nil)

	_, env := do(t, mux, "GET", "/api/contact", "")
	var list []*model.ContactMessage
	json.Unmarshal(env.Data, &list)
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	// created_at 降序
	if list[0].ID != "msg-2" {
		t.Errorf("order: first = %s, want msg-2", list[0].ID)
	}

	_, env = do(t, mux, "GET", "/api/contact?read=false", "")
	json.Unmarshal(env.Data, &list)
	if len(list) != 1 || list[0].ID != "msg-2" {
		t.Errorf("unread filter: got %d", len(list))
	}

	_, env = do(t, mux, "GET", "/api/contact?read=true", "")
	json.Unmarshal(env.Data, &list)
	if len(list) != 1 || list[0].ID != "msg-1" {
		t.Errorf("read filter: got %d", len(list))
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	store := newFakeStore()
	store.messages["msg-1"] = &model.ContactMessage{ID: "msg-1", Name: "A", Email: "a@e.com", Message: "x", CreatedAt: time.Now()}
	mux := newMux(store, nil)

	w, env := do(t, mux, "PATCH", "/api/contact/msg-1/read", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var m model.ContactMessage
	json.Unmarshal(env.Data, &m)
	if !m.IsRead || m.ReadAt == nil {
		t.Errorf("isRead = %v, readAt = %v", m.IsRead, m.ReadAt)
	}
	firstReadAt := *m.ReadAt

	time.Sleep(10 * time.Millisecond)
	w, env = do(t, mux, "PATCH", "/api/contact/msg-1/read", "")
	if w.Code != http.StatusOK {
		t.Fatalf("second mark: status = %d, want 200", w.Code)
	}
	json.Unmarshal(env.Data, &m)
	if !m.IsRead {
		t.Error("second mark: isRead = false")
	}
	if !m.ReadAt.After(firstReadAt) {
		t.Error("second mark should refresh readAt")
	}
}

func TestMarkReadNotFound(t *testing.T) {
	mux := newMux(newFakeStore(), nil)
	w, _ := do(t, mux, "PATCH", "/api/contact/msg-ghost/read", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteMessage(t *testing.T) {
	store := newFakeStore()
	store.messages["msg-1"] = &model.ContactMessage{ID: "msg-1", Name: "A", Email: "a@e.com", Message: "x"}
	mux := newMux(store, nil)

	w, _ := do(t, mux, "DELETE", "/api/contact/msg-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w, _ = do(t, mux, "DELETE", "/api/contact/msg-1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}
