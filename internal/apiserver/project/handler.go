// Package project 作品集项目领域 - HTTP 处理
package project

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"portfolio-admin/internal/apiserver/respond"
	"portfolio-admin/internal/model"
	"portfolio-admin/internal/storage"
)

// Store 项目存储接口
type Store interface {
	ListProjects(ctx context.Context, filter storage.ProjectFilter) ([]*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	CreateProject(ctx context.Context, p *model.Project) error
	ReplaceProject(ctx context.Context, p *model.Project) error
	DeleteProject(ctx context.Context, id string) error
}

// Handler 项目领域 HTTP 处理器
type Handler struct {
	store Store
}

// NewHandler 创建项目处理器
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册项目相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/projects", h.List)
	mux.HandleFunc("GET /api/projects/{id}", h.Get)
	mux.HandleFunc("POST /api/projects", h.Create)
	mux.HandleFunc("PUT /api/projects/{id}", h.Update)
	mux.HandleFunc("DELETE /api/projects/{id}", h.Delete)
}

// List 项目列表
//
// 查询参数: category（同时匹配 categories 数组和旧版 category 字段）、
// featured=true（只返回精选）。排序: order 升序，再按 created_at 降序。
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := storage.ProjectFilter{
		Category: r.URL.Query().Get("category"),
		Featured: r.URL.Query().Get("featured") == "true",
	}
	projects, err := h.store.ListProjects(r.Context(), filter)
	if err != nil {
		log.Printf("[project] ListProjects error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to fetch projects")
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	respond.Data(w, http.StatusOK, projects)
}

// Get 获取单个项目
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		log.Printf("[project] GetProject error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to fetch project")
		return
	}
	if p == nil {
		respond.Fail(w, http.StatusNotFound, "project not found")
		return
	}
	respond.Data(w, http.StatusOK, p)
}

// Create 创建项目
//
// categories 中的每个条目都必须在固定词汇表内。旧版 category 字段
// 在持久化前由 SyncLegacyCategory 重新同步，与写入属于同一次原子操作。
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p model.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateProject(&p); msg != "" {
		respond.Fail(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now()
	p.ID = generateID("proj")
	p.CreatedAt = now
	p.UpdatedAt = now
	p.SyncLegacyCategory()

	if err := h.store.CreateProject(r.Context(), &p); err != nil {
		log.Printf("[project] CreateProject error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to create project")
		return
	}
	respond.DataMessage(w, http.StatusCreated, &p, "project created successfully")
}

// Update 部分更新项目
//
// 合并语义: 载荷中省略的字段保持不变，出现的字段（包括空串/空数组）覆盖。
// 合并后整体校验并重新同步旧版 category，再以单次替换写入。
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		log.Printf("[project] GetProject error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to update project")
		return
	}
	if p == nil {
		respond.Fail(w, http.StatusNotFound, "project not found")
		return
	}

	p.Apply(patch)
	if msg := validateProject(p); msg != "" {
		respond.Fail(w, http.StatusBadRequest, msg)
		return
	}
	p.SyncLegacyCategory()
	p.UpdatedAt = time.Now()

	if err := h.store.ReplaceProject(r.Context(), p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "project not found")
			return
		}
		log.Printf("[project] ReplaceProject error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to update project")
		return
	}
	respond.DataMessage(w, http.StatusOK, p, "project updated successfully")
}

// Delete 删除项目
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "project not found")
			return
		}
		log.Printf("[project] DeleteProject error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	respond.Message(w, http.StatusOK, "project deleted successfully")
}

// validateProject 校验项目字段，返回空串表示通过
func validateProject(p *model.Project) string {
	if p.Title == "" {
		return "title is required"
	}
	if p.Description == "" {
		return "description is required"
	}
	for _, c := range p.Categories {
		if !model.IsProjectCategory(c) {
			return fmt.Sprintf("invalid category: %s", c)
		}
	}
	// categories 为空时旧版 category 字段直接透传，同样要过枚举
	if p.Category != "" && !model.IsProjectCategory(p.Category) {
		return fmt.Sprintf("invalid category: %s", p.Category)
	}
	return ""
}

// generateID 生成带前缀的唯一标识符
func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
