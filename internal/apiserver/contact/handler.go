// Package contact 联系消息领域 - HTTP 处理
//
// 提交入口是公开的；收件箱查询、已读标记和删除都要求管理员身份。
// 新消息到达时通过 Notifier 推送给已连接的管理端（WebSocket 网关）。
package contact

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"portfolio-admin/internal/apiserver/respond"
	"portfolio-admin/internal/model"
	"portfolio-admin/internal/storage"
)

// Store 联系消息存储接口
type Store interface {
	CreateContactMessage(ctx context.Context, m *model.ContactMessage) error
	ListContactMessages(ctx context.Context, read *bool) ([]*model.ContactMessage, error)
	MarkContactMessageRead(ctx context.Context, id string) (*model.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id string) error
}

// Notifier 新消息推送接口，nil 表示不推送
type Notifier interface {
	NotifyContactMessage(m *model.ContactMessage)
}

// Handler 联系消息 HTTP 处理器
type Handler struct {
	store    Store
	notifier Notifier
}

// NewHandler 创建联系消息处理器，notifier 可以为 nil
func NewHandler(store Store, notifier Notifier) *Handler {
	return &Handler{store: store, notifier: notifier}
}

// RegisterRoutes 注册联系消息相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/contact", h.Submit)
	mux.HandleFunc("GET /api/contact", h.List)
	mux.HandleFunc("PATCH /api/contact/{id}/read", h.MarkRead)
	mux.HandleFunc("DELETE /api/contact/{id}", h.Delete)
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit 公开联系表单提交
//
// 邮箱只做"非空且含 @"级别的边界检查，严格格式校验不在服务端做。
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		respond.Fail(w, http.StatusBadRequest, "name, email and message are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respond.Fail(w, http.StatusBadRequest, "invalid email address")
		return
	}

	m := &model.ContactMessage{
		ID:        generateID("msg"),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := h.store.CreateContactMessage(r.Context(), m); err != nil {
		log.Printf("[contact] CreateContactMessage error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	if h.notifier != nil {
		h.notifier.NotifyContactMessage(m)
	}

	log.Printf("[contact] New message from %s <%s>", m.Name, m.Email)
	respond.DataMessage(w, http.StatusCreated, m, "message sent successfully")
}

// List 收件箱列表，可选 read=true|false 过滤，按 created_at 降序
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var read *bool
	switch r.URL.Query().Get("read") {
	case "true":
		v := true
		read = &v
	case "false":
		v := false
		read = &v
	}

	messages, err := h.store.ListContactMessages(r.Context(), read)
	if err != nil {
		log.Printf("[contact] ListContactMessages error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}
	if messages == nil {
		messages = []*model.ContactMessage{}
	}
	respond.Data(w, http.StatusOK, messages)
}

// MarkRead 标记消息已读，幂等：重复标记成功并刷新 readAt
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	m, err := h.store.MarkContactMessageRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "message not found")
			return
		}
		log.Printf("[contact] MarkContactMessageRead error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to mark message as read")
		return
	}
	respond.DataMessage(w, http.StatusOK, m, "message marked as read")
}

// Delete 删除消息
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteContactMessage(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "message not found")
			return
		}
		log.Printf("[contact] DeleteContactMessage error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to delete message")
		return
	}
	respond.Message(w, http.StatusOK, "message deleted successfully")
}

// generateID 生成带前缀的唯一标识符
func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
