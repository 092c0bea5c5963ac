// Package server 路由配置与网关横切策略
//
// 本包组装各领域 handler 包并应用横切中间件：
//   - handler.go: Handler 定义与路由组装
//   - middleware.go: panic 兜底、CORS、请求体限制
//   - ratelimit.go: 固定窗口限流（内存/Redis 计数器）
//   - metrics.go: Prometheus 指标
//   - notify.go: WebSocket 管理端通知网关
package server

import (
	"context"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"portfolio-admin/internal/apiserver/auth"
	"portfolio-admin/internal/apiserver/contact"
	"portfolio-admin/internal/apiserver/education"
	"portfolio-admin/internal/apiserver/profile"
	"portfolio-admin/internal/apiserver/project"
	"portfolio-admin/internal/apiserver/respond"
	"portfolio-admin/internal/apiserver/skill"
	"portfolio-admin/internal/apiserver/upload"
	"portfolio-admin/internal/config"
	"portfolio-admin/internal/storage"
)

// Handler API 网关处理器
//
// 持有存储层和上传后端，按依赖注入组装各领域 handler。
type Handler struct {
	store   storage.Store
	blobs   upload.BlobStore
	cfg     *config.Config
	metrics *Metrics
	notify  *NotifyGateway
	limiter *RateLimiter
}

// NewHandler 创建网关处理器
//
// counters 为 nil 时限流计数退回进程内存。
func NewHandler(store storage.Store, blobs upload.BlobStore, cfg *config.Config, counters CounterStore) *Handler {
	metrics := NewMetrics("portfolio")
	if counters == nil {
		counters = NewMemoryCounterStore()
	}
	return &Handler{
		store:   store,
		blobs:   blobs,
		cfg:     cfg,
		metrics: metrics,
		notify:  NewNotifyGateway(auth.DefaultConfig(cfg.JWTSecret), metrics),
		limiter: NewRateLimiter(counters, metrics),
	}
}

// GetMetrics 返回指标实例
func (h *Handler) GetMetrics() *Metrics {
	return h.metrics
}

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 认证:
//   - POST   /api/auth/login            - 管理员登录
//   - POST   /api/auth/change-password  - 修改密码（Bearer）
//
// 内容资源（GET 公开，写操作需要 Bearer）:
//   - GET|POST        /api/projects[?category=&featured=]
//   - GET|PUT|DELETE  /api/projects/{id}
//   - GET|POST        /api/skills[?category=]
//   - PUT|DELETE      /api/skills/{id}
//   - GET|POST        /api/education
//   - PUT|DELETE      /api/education/{id}
//   - GET|PUT         /api/profile
//
// 联系消息:
//   - POST   /api/contact               - 公开提交
//   - GET    /api/contact[?read=]       - 收件箱（Bearer）
//   - PATCH  /api/contact/{id}/read     - 标记已读（Bearer）
//   - DELETE /api/contact/{id}          - 删除（Bearer）
//
// 文件上传（Bearer）:
//   - POST   /api/upload/single    - 单文件（字段 "file"）
//   - POST   /api/upload/multiple  - 批量（字段 "files"，最多 5 个）
//   - DELETE /api/upload/{filename}
//
// 其他:
//   - GET /api/health              - 健康检查
//   - GET /uploads/{filename}      - 上传文件静态服务
//   - GET /metrics                 - Prometheus 指标
//   - GET /ws/admin/notifications  - 管理端实时通知（token 查询参数）
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("GET /metrics", MetricsHandler())
	mux.HandleFunc("GET /uploads/{filename}", h.ServeUpload)

	authCfg := auth.DefaultConfig(h.cfg.JWTSecret)
	auth.NewHandler(h.store, authCfg).RegisterRoutes(mux)

	project.NewHandler(h.store).RegisterRoutes(mux)
	skill.NewHandler(h.store).RegisterRoutes(mux)
	education.NewHandler(h.store).RegisterRoutes(mux)
	profile.NewHandler(h.store).RegisterRoutes(mux)
	contact.NewHandler(h.store, h.notify).RegisterRoutes(mux)
	upload.NewHandler(h.blobs, h.metrics).RegisterRoutes(mux)

	// 未匹配路由和方法不匹配交给 ServeMux 自己判定（404/405），
	// muxErrorMiddleware 把它的纯文本响应改写为统一信封。注册方法全
	// 匹配的 "/" 兜底会吞掉 ServeMux 的 405 判定，这里刻意不注册。
	// 中间件由内向外：404/405 改写 → 指标 → 认证 → 限流 → 请求体限制 → CORS → panic 兜底
	handler := muxErrorMiddleware(mux)
	handler = h.metrics.MetricsMiddleware(handler)
	handler = auth.Middleware(authCfg)(handler)
	handler = h.limiter.Middleware(handler)
	handler = bodyLimitMiddleware(handler)
	handler = corsMiddleware(h.cfg.AllowedOrigins)(handler)
	handler = recoveryMiddleware(handler)

	// WebSocket 绕过 REST 中间件（避免 http.Hijacker 包装问题）
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /ws/admin/notifications", h.notify.HandleWebSocket)
	topMux.Handle("/", handler)

	return topMux
}

// Health 健康检查接口
//
// 路由: GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	mongoState := "connected"
	if err := h.store.Ping(ctx); err != nil {
		mongoState = "disconnected"
	}

	respond.Data(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"mongodb":   mongoState,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeUpload 上传文件静态服务
//
// 路由: GET /uploads/{filename}
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" || filename != filepath.Base(filename) {
		respond.Fail(w, http.StatusBadRequest, "invalid filename")
		return
	}

	rc, err := h.blobs.Open(r.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "file not found")
			return
		}
		log.Printf("[server] open upload %s error: %v", filename, err)
		respond.Fail(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("[server] stream upload %s error: %v", filename, err)
	}
}
