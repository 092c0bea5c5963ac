package mongostore

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"portfolio-admin/internal/model"
	"portfolio-admin/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// testStore 创建测试用 Store，使用独立数据库避免污染
func testStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	dbName := "portfolio_test"
	s, err := NewStore(uri, dbName)
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	// 清空测试数据库
	ctx := context.Background()
	if err := s.db.Drop(ctx); err != nil {
		t.Fatalf("Failed to drop test database: %v", err)
	}
	// 重新创建索引
	if err := s.ensureIndexes(ctx); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		s.db.Drop(context.Background())
		s.Close()
	})

	return s
}

// Compile-time interface check
var _ storage.Store = (*Store)(nil)

func TestAdminCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	admin := &model.Admin{
		ID:           "adm-001",
		Email:        "Admin@Example.COM",
		PasswordHash: "$2a$12$fakehash",
		Name:         "Admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	// 邮箱统一转小写存储
	got, err := s.GetAdminByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}
	if got == nil {
		t.Fatal("admin not found by lowercased email")
	}
	if got.Email != "admin@example.com" {
		t.Errorf("Email = %q, want lowercase", got.Email)
	}

	// 邮箱唯一索引
	dup := &model.Admin{ID: "adm-002", Email: "admin@example.com", PasswordHash: "x", Name: "Dup"}
	if err := s.CreateAdmin(ctx, dup); err != storage.ErrDuplicate {
		t.Errorf("duplicate email: err = %v, want ErrDuplicate", err)
	}

	if err := s.UpdateAdminPassword(ctx, "adm-001", "$2a$12$newhash"); err != nil {
		t.Fatalf("UpdateAdminPassword: %v", err)
	}
	got, _ = s.GetAdminByID(ctx, "adm-001")
	if got.PasswordHash != "$2a$12$newhash" {
		t.Errorf("PasswordHash not updated")
	}

	if err := s.UpdateAdminPassword(ctx, "adm-missing", "x"); err != storage.ErrNotFound {
		t.Errorf("missing admin: err = %v, want ErrNotFound", err)
	}
}

func TestProjectListFilterAndSort(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	projects := []*model.Project{
		{ID: "proj-a", Title: "A", Description: "d", Categories: []string{"backend"}, Category: "backend", Order: 2, Featured: true, CreatedAt: base},
		{ID: "proj-b", Title: "B", Description: "d", Categories: []string{"frontend", "backend"}, Category: "frontend", Order: 1, CreatedAt: base.Add(-time.Hour)},
		// 只有旧版 category 字段的历史数据
		{ID: "proj-c", Title: "C", Description: "d", Category: "backend", Order: 1, CreatedAt: base},
	}
	for _, p := range projects {
		if err := s.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject(%s): %v", p.ID, err)
		}
	}

	// category 过滤同时命中 categories 数组与旧版字段
	got, err := s.ListProjects(ctx, storage.ProjectFilter{Category: "backend"})
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("backend filter: len = %d, want 3", len(got))
	}

	// 排序：order 升序，同 order 时 created_at 降序
	if got[0].ID != "proj-c" || got[1].ID != "proj-b" || got[2].ID != "proj-a" {
		ids := []string{got[0].ID, got[1].ID, got[2].ID}
		t.Errorf("sort order = %v, want [proj-c proj-b proj-a]", ids)
	}

	// featured 过滤
	got, err = s.ListProjects(ctx, storage.ProjectFilter{Featured: true})
	if err != nil {
		t.Fatalf("ListProjects featured: %v", err)
	}
	if len(got) != 1 || got[0].ID != "proj-a" {
		t.Errorf("featured filter returned %d items", len(got))
	}

	// "all" 等价于不过滤
	got, _ = s.ListProjects(ctx, storage.ProjectFilter{Category: "all"})
	if len(got) != 3 {
		t.Errorf("all filter: len = %d, want 3", len(got))
	}
}

func TestProjectReplaceAndDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p := &model.Project{ID: "proj-001", Title: "T", Description: "d", Categories: []string{"backend"}, Category: "backend", CreatedAt: time.Now()}
	if err := s.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	p.Title = "T2"
	p.Categories = []string{"mobile"}
	p.SyncLegacyCategory()
	if err := s.ReplaceProject(ctx, p); err != nil {
		t.Fatalf("ReplaceProject: %v", err)
	}

	got, _ := s.GetProject(ctx, "proj-001")
	if got.Title != "T2" || got.Category != "mobile" {
		t.Errorf("replace not persisted: %+v", got)
	}

	if err := s.ReplaceProject(ctx, &model.Project{ID: "proj-missing"}); err != storage.ErrNotFound {
		t.Errorf("replace missing: err = %v, want ErrNotFound", err)
	}

	if err := s.DeleteProject(ctx, "proj-001"); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if err := s.DeleteProject(ctx, "proj-001"); err != storage.ErrNotFound {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
	got, err := s.GetProject(ctx, "proj-001")
	if err != nil || got != nil {
		t.Errorf("deleted project still readable: %v %v", got, err)
	}
}

func TestSkillListSort(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	skills := []*model.Skill{
		{ID: "skl-1", Name: "Zig", Level: 40, Category: "language", Order: 1, CreatedAt: time.Now()},
		{ID: "skl-2", Name: "Go", Level: 90, Category: "language", Order: 1, CreatedAt: time.Now()},
		{ID: "skl-3", Name: "React", Level: 70, Category: "frontend", Order: 0, CreatedAt: time.Now()},
	}
	for _, sk := range skills {
		if err := s.CreateSkill(ctx, sk); err != nil {
			t.Fatalf("CreateSkill: %v", err)
		}
	}

	got, err := s.ListSkills(ctx, "")
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	// order 升序，同 order 时 name 升序
	if got[0].ID != "skl-3" || got[1].ID != "skl-2" || got[2].ID != "skl-1" {
		t.Errorf("sort order wrong: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}

	got, _ = s.ListSkills(ctx, "language")
	if len(got) != 2 {
		t.Errorf("language filter: len = %d, want 2", len(got))
	}
}

func TestProfileSingletonConcurrentGetOrCreate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// 并发首次读取只能创建一份单例
	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.GetOrCreateProfile(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("GetOrCreateProfile: %v", err)
	}

	count, err := s.col(ColProfiles).CountDocuments(ctx, bson.D{})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if count != 1 {
		t.Errorf("profile documents = %d, want exactly 1", count)
	}

	p, _ := s.GetProfile(ctx)
	if p == nil || p.ID != model.ProfileID {
		t.Fatalf("singleton profile missing or wrong id: %+v", p)
	}
	if p.Title != "Full Stack Developer" {
		t.Errorf("default title = %q", p.Title)
	}
}

func TestProfileSaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// 空库时 GetProfile 不触发创建
	p, err := s.GetProfile(ctx)
	if err != nil || p != nil {
		t.Fatalf("empty store GetProfile = %v, %v", p, err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	saved := &model.Profile{Name: "Owner", Email: "o@example.com", Title: "Dev", CreatedAt: now, UpdatedAt: now}
	if err := s.SaveProfile(ctx, saved); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	p, _ = s.GetProfile(ctx)
	if p == nil || p.Name != "Owner" || p.ID != model.ProfileID {
		t.Fatalf("saved profile mismatch: %+v", p)
	}
}

func TestContactMessageLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	msgs := []*model.ContactMessage{
		{ID: "msg-1", Name: "A", Email: "a@x.com", Message: "hello", CreatedAt: base.Add(-time.Hour)},
		{ID: "msg-2", Name: "B", Email: "b@x.com", Message: "hi", CreatedAt: base},
	}
	for _, m := range msgs {
		if err := s.CreateContactMessage(ctx, m); err != nil {
			t.Fatalf("CreateContactMessage: %v", err)
		}
	}

	// created_at 降序
	got, err := s.ListContactMessages(ctx, nil)
	if err != nil {
		t.Fatalf("ListContactMessages: %v", err)
	}
	if len(got) != 2 || got[0].ID != "msg-2" {
		t.Errorf("list order wrong: %+v", got)
	}

	// 标记已读
	m, err := s.MarkContactMessageRead(ctx, "msg-1")
	if err != nil {
		t.Fatalf("MarkContactMessageRead: %v", err)
	}
	if !m.IsRead || m.ReadAt == nil {
		t.Errorf("message not marked read: %+v", m)
	}
	firstReadAt := *m.ReadAt

	// 幂等：重复标记成功且 read_at 刷新
	time.Sleep(5 * time.Millisecond)
	m2, err := s.MarkContactMessageRead(ctx, "msg-1")
	if err != nil {
		t.Fatalf("second MarkContactMessageRead: %v", err)
	}
	if !m2.IsRead || m2.ReadAt == nil || !m2.ReadAt.After(firstReadAt) {
		t.Errorf("readAt not refreshed: %v -> %v", firstReadAt, m2.ReadAt)
	}

	if _, err := s.MarkContactMessageRead(ctx, "msg-missing"); err != storage.ErrNotFound {
		t.Errorf("missing message: err = %v, want ErrNotFound", err)
	}

	// 已读过滤
	read := true
	got, _ = s.ListContactMessages(ctx, &read)
	if len(got) != 1 || got[0].ID != "msg-1" {
		t.Errorf("read filter: %+v", got)
	}
	unread := false
	got, _ = s.ListContactMessages(ctx, &unread)
	if len(got) != 1 || got[0].ID != "msg-2" {
		t.Errorf("unread filter: %+v", got)
	}

	if err := s.DeleteContactMessage(ctx, "msg-1"); err != nil {
		t.Fatalf("DeleteContactMessage: %v", err)
	}
	if err := s.DeleteContactMessage(ctx, "msg-1"); err != storage.ErrNotFound {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
}
