// Package skill 技能领域 - HTTP 处理
package skill

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

// Store 技能存储接口
type Store interface {
	ListSkills(ctx context.Context, category string) ([]*model.Skill, error)
	GetSkill(ctx context.Context, id string) (*model.Skill, error)
	CreateSkill(ctx context.Context, s *model.Skill) error
	ReplaceSkill(ctx context.Context, s *model.Skill) error
	DeleteSkill(ctx context.Context, id string) error
}

// Handler 技能领域 HTTP 处理器
type Handler struct {
	store Store
}

// NewHandler 创建技能处理器
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册技能相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/skills", h.List)
	mux.HandleFunc("POST /api/skills", h.Create)
	mux.HandleFunc("PUT /api/skills/{id}", h.Update)
	mux.HandleFunc("DELETE /api/skills/{id}", h.Delete)
}

// List 技能列表，可选 category 过滤，排序: order 升序再按 name 升序
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	skills, err := h.store.ListSkills(r.Context(), category)
	if err != nil {
		log.Printf("[skill] ListSkills error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to fetch skills")
		return
	}
	if skills == nil {
		skills = []*model.Skill{}
	}
	respond.Data(w, http.StatusOK, skills)
}

// Create 创建技能
//
// level 超出 [0,100] 直接拒绝，不做静默截断。
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var s model.Skill
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateSkill(&s); msg != "" {
		respond.Fail(w, http.StatusBadRequest, msg)
		return
	}

	s.ID = generateID("skill")
	s.CreatedAt = time.Now()

	if err := h.store.CreateSkill(r.Context(), &s); err != nil {
		log.Printf("[skill] CreateSkill error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to create skill")
		return
	}
	respond.DataMessage(w, http.StatusCreated, &s, "skill created successfully")
}

// Update 部分更新技能
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.SkillPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.store.GetSkill(r.Context(), id)
	if err != nil {
		log.Printf("[skill] GetSkill error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to update skill")
		return
	}
	if s == nil {
		respond.Fail(w, http.StatusNotFound, "skill not found")
		return
	}

	s.Apply(patch)
	if msg := validateSkill(s); msg != "" {
		respond.Fail(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.ReplaceSkill(r.Context(), s); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "skill not found")
			return
		}
		log.Printf("[skill] ReplaceSkill error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to update skill")
		return
	}
	respond.DataMessage(w, http.StatusOK, s, "skill updated successfully")
}

// Delete 删除技能
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteSkill(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "skill not found")
			return
		}
		log.Printf("[skill] DeleteSkill error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to delete skill")
		return
	}
	respond.Message(w, http.StatusOK, "skill deleted successfully")
}

// validateSkill 校验技能字段，返回空串表示通过
func validateSkill(s *model.Skill) string {
	if s.Name == "" {
		return "name is required"
	}
	if s.Level < 0 || s.Level > 100 {
		return "level must be between 0 and 100"
	}
	if s.Category != "" && !model.IsSkillCategory(s.Category) {
		return fmt.Sprintf("invalid category: %s", s.Category)
	}
	return ""
}

// generateID 生成带前缀的唯一标识符
func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
