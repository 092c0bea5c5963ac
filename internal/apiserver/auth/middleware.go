package auth

import (
	"log"
	"net/http"
	"strings"

	"portfolio-admin/internal/apiserver/respond"
)

// isPublicRoute 判断是否为免认证路由
//
// 公开面（无需 Bearer）：
//   - 内容读取：GET projects/skills/education/profile
//   - 联系表单提交：POST /api/contact
//   - 登录、健康检查
//   - /api 之外的路径（静态上传文件、/metrics、WebSocket 在网关层各自校验）
//
// 注意 GET /api/contact 是管理端收件箱，不在白名单内。
func isPublicRoute(method, path string) bool {
	if !strings.HasPrefix(path, "/api/") {
		return true
	}

	if method == http.MethodGet || method == http.MethodHead {
		switch {
		case path == "/api/projects" || strings.HasPrefix(path, "/api/projects/"):
			return true
		case path == "/api/skills":
			return true
		case path == "/api/education":
			return true
		case path == "/api/profile":
			return true
		case path == "/api/health":
			return true
		}
	}

	if method == http.MethodPost {
		switch path {
		case "/api/auth/login", "/api/contact":
			return true
		}
	}

	return false
}

// Middleware 创建 JWT 认证中间件
//
// 公开路由直接放行；其余请求必须携带合法的
// "Authorization: Bearer <token>"，解析后将管理员信息注入 context。
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// 提取 Bearer Token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.Fail(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respond.Fail(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			claims, err := ParseToken(cfg, parts[1])
			if err != nil {
				log.Printf("[auth] token parse error: %v", err)
				respond.Fail(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			admin := &AuthAdmin{
				ID:    claims.Subject,
				Email: claims.Email,
			}
			next.ServeHTTP(w, r.WithContext(WithAuthAdmin(r.Context(), admin)))
		})
	}
}
