// 网关横切中间件：panic 兜底、CORS、请求体大小限制
package server

import (
	"log"
	"net/http"
	"runtime/debug"
	"strings"

	"portfolio-admin/internal/apiserver/respond"
)

// MaxBodySize 非上传接口的请求体上限
const MaxBodySize = 10 << 20 // 10 MiB

// recoveryMiddleware panic 兜底，统一转成 500 信封
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[server] panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				respond.Fail(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware 按配置的来源列表添加 CORS 头
//
// 无 Origin 头的请求（同源、curl、服务器间调用）直接放行。
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[strings.TrimRight(origin, "/")] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// muxErrorMiddleware 把 ServeMux 自己生成的纯文本 404/405 改写为 JSON 信封
//
// ServeMux 对未匹配路由和"路径命中但方法不匹配"的请求直接用 http.Error
// 写纯文本，绕不开注册的 handler，只能在 ResponseWriter 层拦截改写。
// 领域 handler 的错误响应先写 application/json 再写状态码，不会被误改。
// 405 的 Allow 头保留。
func muxErrorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&muxErrorWriter{ResponseWriter: w}, r)
	})
}

type muxErrorWriter struct {
	http.ResponseWriter
	rewritten bool
}

func (w *muxErrorWriter) WriteHeader(code int) {
	if (code == http.StatusNotFound || code == http.StatusMethodNotAllowed) &&
		strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		w.rewritten = true
		msg := "route not found"
		if code == http.StatusMethodNotAllowed {
			msg = "method not allowed"
		}
		respond.Fail(w.ResponseWriter, code, msg)
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *muxErrorWriter) Write(b []byte) (int, error) {
	if w.rewritten {
		// 丢弃 ServeMux 的纯文本 body
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

// bodyLimitMiddleware 限制请求体大小，上传接口走 multipart 自己的限制
func bodyLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/upload/") {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}
