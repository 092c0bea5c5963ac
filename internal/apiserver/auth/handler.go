package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"portfolio-admin/internal/apiserver/respond"
	"portfolio-admin/internal/model"
	"portfolio-admin/internal/storage"
)

// AdminStore 管理员存储接口
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
	UpdateAdminPassword(ctx context.Context, id, passwordHash string) error
}

// Handler 认证 HTTP 处理器
type Handler struct {
	store AdminStore
	cfg   Config
}

// NewHandler 创建认证处理器
func NewHandler(store AdminStore, cfg Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/change-password", h.ChangePassword)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type adminSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginResponse struct {
	Token string       `json:"token"`
	Admin adminSummary `json:"admin"`
}

// ============================================================================
// Handlers
// ============================================================================

// Login 管理员登录
//
// 路由: POST /api/auth/login
//
// 管理员账户由启动引导（EnsureAdmin）预先创建，登录不再隐式建号。
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respond.Fail(w, http.StatusBadRequest, "please provide email and password")
		return
	}

	admin, err := h.store.GetAdminByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		log.Printf("[auth.login] GetAdminByEmail error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "server error during login")
		return
	}
	if admin == nil || !CheckPassword(req.Password, admin.PasswordHash) {
		respond.Fail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := GenerateToken(h.cfg, admin.ID, admin.Email)
	if err != nil {
		log.Printf("[auth.login] GenerateToken error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "server error during login")
		return
	}

	log.Printf("[auth] Admin logged in: %s", admin.Email)
	respond.DataMessage(w, http.StatusOK, loginResponse{
		Token: token,
		Admin: adminSummary{ID: admin.ID, Email: admin.Email, Name: admin.Name},
	}, "login successful")
}

// ChangePassword 修改管理员密码
//
// 路由: POST /api/auth/change-password（需要 Bearer）
//
// 修改成功后不会吊销已签发的令牌：旧令牌继续有效直到自然过期。
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	authAdmin := GetAuthAdmin(r.Context())
	if authAdmin == nil {
		respond.Fail(w, http.StatusUnauthorized, "access denied")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		respond.Fail(w, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}
	if len(req.NewPassword) < 8 {
		respond.Fail(w, http.StatusBadRequest, "new password must be at least 8 characters")
		return
	}

	admin, err := h.store.GetAdminByID(r.Context(), authAdmin.ID)
	if err != nil {
		log.Printf("[auth.change-password] GetAdminByID error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "server error")
		return
	}
	if admin == nil {
		respond.Fail(w, http.StatusNotFound, "admin not found")
		return
	}
	if !CheckPassword(req.CurrentPassword, admin.PasswordHash) {
		respond.Fail(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, "server error")
		return
	}
	if err := h.store.UpdateAdminPassword(r.Context(), admin.ID, hash); err != nil {
		log.Printf("[auth.change-password] UpdateAdminPassword error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to update password")
		return
	}

	log.Printf("[auth] Password changed for: %s", admin.Email)
	respond.Message(w, http.StatusOK, "password changed successfully")
}

// ============================================================================
// Admin Bootstrap
// ============================================================================

// EnsureAdmin 确保管理员账户存在（启动时调用一次）
//
// 幂等引导：按小写邮箱查找，不存在则创建。并发启动的竞态由
// admins.email 唯一索引兜底，撞到 ErrDuplicate 视为已由他方创建。
func EnsureAdmin(store AdminStore, adminEmail, adminPassword string) error {
	if adminEmail == "" || adminPassword == "" {
		return fmt.Errorf("admin email and password are required")
	}

	ctx := context.Background()
	email := strings.ToLower(adminEmail)

	existing, err := store.GetAdminByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if existing != nil {
		log.Printf("[auth] Admin already exists: %s (%s)", email, existing.ID)
		return nil
	}

	hash, err := HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now()
	admin := &model.Admin{
		ID:           generateID("adm"),
		Email:        email,
		PasswordHash: hash,
		Name:         "Admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			log.Printf("[auth] Admin created concurrently: %s", email)
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("[auth] Created admin: %s (%s)", email, admin.ID)
	return nil
}

// generateID 生成带前缀的唯一标识符
func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
