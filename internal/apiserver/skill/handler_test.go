package skill

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-admin/internal/model"
	"portfolio-admin/internal/storage"
)

type fakeStore struct {
	skills map[string]*model.Skill
}

func newFakeStore() *fakeStore {
	return &fakeStore{skills: make(map[string]*model.Skill)}
}

func (s *fakeStore) ListSkills(_ context.Context, category string) ([]*model.Skill, error) {
	var out []*model.Skill
	for _, sk := range s.skills {
		if category != "" && category != "all" && sk.Category != category {
			continue
		}
		cp := *sk
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) GetSkill(_ context.Context, id string) (*model.Skill, error) {
	sk, ok := s.skills[id]
	if !ok {
		return nil, nil
	}
	cp := *sk
	return &cp, nil
}

func (s *fakeStore) CreateSkill(_ context.Context, sk *model.Skill) error {
	cp := *sk
	s.skills[sk.ID] = &cp
	return nil
}

func (s *fakeStore) ReplaceSkill(_ context.Context, sk *model.Skill) error {
	if _, ok := s.skills[sk.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *sk
	s.skills[sk.ID] = &cp
	return nil
}

func (s *fakeStore) DeleteSkill(_ context.Context, id string) error {
	if _, ok := s.skills[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.skills, id)
	return nil
}

func newMux(s *fakeStore) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(s).RegisterRoutes(mux)
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

func TestCreateSkill(t *testing.T) {
	store := newFakeStore()
	mux := newMux(store)

	w, env := do(t, mux, "POST", "/api/skills", `{"name":"Go","level":90,"category":"backend"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var sk model.Skill
	json.Unmarshal(env.Data, &sk)
	if !strings.HasPrefix(sk.ID, "skill-") {
		t.Errorf("id = %q", sk.ID)
	}
	if sk.Level != 90 {
		t.Errorf("level = %d", sk.Level)
	}
}

// 超出范围的 level 必须被拒绝，而不是截断
func TestCreateSkillLevelOutOfRangeRejected(t *testing.T) {
	store := newFakeStore()
	mux := newMux(store)

	for _, body := range []string{
		`{"name":"Go","level":150,"category":"backend"}`,
		`{"name":"Go","level":-1,"category":"backend"}`,
	} {
		w, _ := do(t, mux, "POST", "/api/skills", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
	if len(store.skills) != 0 {
		t.Error("out-of-range skill was persisted")
	}
}

func TestCreateSkillValidation(t *testing.T) {
	mux := newMux(newFakeStore())

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"level":50}`},
		{"bad category", `{"name":"Go","level":50,"category":"cooking"}`},
		{"malformed json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, mux, "POST", "/api/skills", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestListSkillsCategoryFilter(t *testing.T) {
	store := newFakeStore()
	store.skills["skill-1"] = &model.Skill{ID: "skill-1", Name: "Go", Level: 90, Category: "backend", CreatedAt: time.Now()}
	store.skills["skill-2"] = &model.Skill{ID: "skill-2", Name: "React", Level: 80, Category: "frontend", CreatedAt: time.Now()}
	mux := newMux(store)

	_, env := do(t, mux, "GET", "/api/skills?category=backend", "")
	var list []*model.Skill
	json.Unmarshal(env.Data, &list)
	if len(list) != 1 || list[0].Name != "Go" {
		t.Errorf("filter: got %d results", len(list))
	}

	_, env = do(t, mux, "GET", "/api/skills?category=all", "")
	json.Unmarshal(env.Data, &list)
	if len(list) != 2 {
		t.Errorf("all: got %d results, want 2", len(list))
	}
}

func TestUpdateSkillPartialMerge(t *testing.T) {
	store := newFakeStore()
	store.skills["skill-1"] = &model.Skill{ID: "skill-1", Name: "Go", Level: 90, Category: "backend", Order: 3, CreatedAt: time.Now()}
	mux := newMux(store)

	w, env := do(t, mux, "PUT", "/api/skills/skill-1", `{"level":95}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var sk model.Skill
	json.Unmarshal(env.Data, &sk)
	if sk.Level != 95 {
		t.Errorf("level = %d", sk.Level)
	}
	if sk.Name != "Go" || sk.Category != "backend" || sk.Order != 3 {
		t.Errorf("omitted fields changed: %+v", sk)
	}
}

func TestUpdateSkillOutOfRangeRejected(t *testing.T) {
	store := newFakeStore()
	store.skills["skill-1"] = &model.Skill{ID: "skill-1", Name: "Go", Level: 90, Category: "backend"}
	mux := newMux(store)

	w, _ := do(t, mux, "PUT", "/api/skills/skill-1", `{"level":101}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if store.skills["skill-1"].Level != 90 {
		t.Error("rejected update mutated the store")
	}
}

func TestUpdateSkillNotFound(t *testing.T) {
	mux := newMux(newFakeStore())
	w, _ := do(t, mux, "PUT", "/api/skills/skill-ghost", `{"level":50}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteSkill(t *testing.T) {
	store := newFakeStore()
	store.skills["skill-1"] = &model.Skill{ID: "skill-1", Name: "Go"}
	mux := newMux(store)

	w, _ := do(t, mux, "DELETE", "/api/skills/skill-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w, _ = do(t, mux, "DELETE", "/api/skills/skill-1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}
