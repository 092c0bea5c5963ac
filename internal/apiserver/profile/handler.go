// Package profile 个人资料领域 - HTTP 处理
//
// Profile 是全库单例：公开 GET 在资料不存在时自动创建默认文档，
// 并发首次访问的竞态由存储层的固定 _id + upsert 保证只产生一份。
package profile

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"portfolio-admin/internal/apiserver/respond"
	"portfolio-admin/internal/model"
)

// Store 个人资料存储接口
type Store interface {
	GetOrCreateProfile(ctx context.Context) (*model.Profile, error)
	SaveProfile(ctx context.Context, p *model.Profile) error
}

// Handler 个人资料 HTTP 处理器
type Handler struct {
	store Store
}

// NewHandler 创建个人资料处理器
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册个人资料相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/profile", h.Get)
	mux.HandleFunc("PUT /api/profile", h.Update)
}

// Get 获取个人资料，不存在时自动创建默认资料（公开接口）
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetOrCreateProfile(r.Context())
	if err != nil {
		log.Printf("[profile] GetOrCreateProfile error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	respond.Data(w, http.StatusOK, p)
}

// Update 部分更新个人资料
//
// 浅合并: social/about/seo 等嵌套区块在载荷中出现即整体替换，不做深合并。
// updatedAt 无条件刷新，即使载荷没有改变任何字段。
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if patch.Email != nil && !strings.Contains(*patch.Email, "@") {
		respond.Fail(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if patch.Name != nil && *patch.Name == "" {
		respond.Fail(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	p, err := h.store.GetOrCreateProfile(r.Context())
	if err != nil {
		log.Printf("[profile] GetOrCreateProfile error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	p.Apply(patch, time.Now())

	if err := h.store.SaveProfile(r.Context(), p); err != nil {
		log.Printf("[profile] SaveProfile error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	respond.DataMessage(w, http.StatusOK, p, "profile updated successfully")
}
