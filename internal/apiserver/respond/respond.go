// Package respond 统一 JSON 响应信封
//
// 所有 HTTP 响应（成功、校验失败、未匹配路由、panic 兜底）都收敛为同一结构：
//
//	{"success": bool, "data"?: ..., "message"?: "...", "error"?: "..."}
//
// Error 字段只在非生产诊断模式下携带底层错误细节，默认省略。
package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope 标准响应信封
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON 写出任意信封
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// Data 成功响应，携带数据
func Data(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, Envelope{Success: true, Data: data})
}

// DataMessage 成功响应，携带数据和提示信息
func DataMessage(w http.ResponseWriter, status int, data interface{}, message string) {
	JSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

// Message 成功响应，只携带提示信息
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: true, Message: message})
}

// Fail 失败响应
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}
