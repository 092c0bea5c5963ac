// Package education 教育经历领域 - HTTP 处理
package education

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"portfolio-admin/internal/apiserver/respond"
	"portfolio-admin/internal/model"
	"portfolio-admin/internal/storage"
)

// Store 教育经历存储接口
type Store interface {
	ListEducation(ctx context.Context) ([]*model.Education, error)
	GetEducation(ctx context.Context, id string) (*model.Education, error)
	CreateEducation(ctx context.Context, e *model.Education) error
	ReplaceEducation(ctx context.Context, e *model.Education) error
	DeleteEducation(ctx context.Context, id string) error
}

// Handler 教育经历领域 HTTP 处理器
type Handler struct {
	store Store
}

// NewHandler 创建教育经历处理器
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册教育经历相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/education", h.List)
	mux.HandleFunc("POST /api/education", h.Create)
	mux.HandleFunc("PUT /api/education/{id}", h.Update)
	mux.HandleFunc("DELETE /api/education/{id}", h.Delete)
}

// List 教育经历列表，排序: order 升序再按 created_at 降序
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListEducation(r.Context())
	if err != nil {
		log.Printf("[education] ListEducation error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to fetch education")
		return
	}
	if entries == nil {
		entries = []*model.Education{}
	}
	respond.Data(w, http.StatusOK, entries)
}

// Create 创建教育经历
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var e model.Education
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateEducation(&e); msg != "" {
		respond.Fail(w, http.StatusBadRequest, msg)
		return
	}

	e.ID = generateID("edu")
	e.CreatedAt = time.Now()

	if err := h.store.CreateEducation(r.Context(), &e); err != nil {
		log.Printf("[education] CreateEducation error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to create education")
		return
	}
	respond.DataMessage(w, http.StatusCreated, &e, "education created successfully")
}

// Update 部分更新教育经历
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.EducationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.store.GetEducation(r.Context(), id)
	if err != nil {
		log.Printf("[education] GetEducation error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to update education")
		return
	}
	if e == nil {
		respond.Fail(w, http.StatusNotFound, "education not found")
		return
	}

	e.Apply(patch)
	if msg := validateEducation(e); msg != "" {
		respond.Fail(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.ReplaceEducation(r.Context(), e); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "education not found")
			return
		}
		log.Printf("[education] ReplaceEducation error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to update education")
		return
	}
	respond.DataMessage(w, http.StatusOK, e, "education updated successfully")
}

// Delete 删除教育经历
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteEducation(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "education not found")
			return
		}
		log.Printf("[education] DeleteEducation error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to delete education")
		return
	}
	respond.Message(w, http.StatusOK, "education deleted successfully")
}

// validateEducation 校验教育经历字段，返回空串表示通过
func validateEducation(e *model.Education) string {
	if e.Degree == "" {
		return "degree is required"
	}
	if e.Institution == "" {
		return "institution is required"
	}
	return ""
}

// generateID 生成带前缀的唯一标识符
func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
