package upload

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"portfolio-admin/internal/apiserver/respond"
	"portfolio-admin/internal/storage"
)

// MaxFileSize 单文件大小上限
const MaxFileSize = 10 << 20 // 10 MiB

// MaxBatchFiles 批量上传单次最多文件数
const MaxBatchFiles = 5

// 扩展名 → 允许的 MIME 类型。扩展名和声明的 MIME 必须同时命中。
var allowedTypes = map[string][]string{
	".jpeg": {"image/jpeg"},
	".jpg":  {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
}

// UsageRecorder 上传指标回调
type UsageRecorder interface {
	// RecordUpload 记录一次上传结果（success/rejected/error）及接收的字节数
	RecordUpload(outcome string, size int64)
}

// Handler 上传 HTTP 处理器
type Handler struct {
	store   BlobStore
	metrics UsageRecorder
}

// NewHandler 创建上传处理器，metrics 可以为 nil
func NewHandler(store BlobStore, metrics UsageRecorder) *Handler {
	return &Handler{store: store, metrics: metrics}
}

func (h *Handler) record(outcome string, size int64) {
	if h.metrics != nil {
		h.metrics.RecordUpload(outcome, size)
	}
}

// RegisterRoutes 注册上传相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/upload/single", h.Single)
	mux.HandleFunc("POST /api/upload/multiple", h.Multiple)
	mux.HandleFunc("DELETE /api/upload/{filename}", h.Delete)
}

type fileInfo struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

// Single 单文件上传（multipart 字段 "file"）
func (h *Handler) Single(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxFileSize); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	info, status, msg := h.saveOne(r, header, file)
	if msg != "" {
		respond.Fail(w, status, msg)
		return
	}
	respond.DataMessage(w, http.StatusOK, info, "file uploaded successfully")
}

// Multiple 批量上传（multipart 字段 "files"，最多 5 个）
//
// 全有或全无：任一文件校验或写入失败即中止整批，并清理已写入的文件。
func (h *Handler) Multiple(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxFileSize * MaxBatchFiles); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		respond.Fail(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	if len(headers) > MaxBatchFiles {
		respond.Fail(w, http.StatusBadRequest, fmt.Sprintf("too many files: maximum is %d", MaxBatchFiles))
		return
	}

	var saved []fileInfo
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			h.rollback(r, saved)
			respond.Fail(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		info, status, msg := h.saveOne(r, header, file)
		file.Close()
		if msg != "" {
			h.rollback(r, saved)
			respond.Fail(w, status, msg)
			return
		}
		saved = append(saved, *info)
	}
	respond.DataMessage(w, http.StatusOK, saved, fmt.Sprintf("%d files uploaded successfully", len(saved)))
}

// Delete 删除已上传文件
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		respond.Fail(w, http.StatusBadRequest, "invalid filename")
		return
	}

	if err := h.store.Delete(r.Context(), filename); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "file not found")
			return
		}
		log.Printf("[upload] Delete error: %v", err)
		respond.Fail(w, http.StatusInternalServerError, "failed to delete file")
		return
	}
	log.Printf("[upload] Deleted file: %s", filename)
	respond.Message(w, http.StatusOK, "file deleted successfully")
}

// saveOne 校验并写入单个文件，失败时返回 (nil, 状态码, 错误消息)
func (h *Handler) saveOne(r *http.Request, header *multipart.FileHeader, file multipart.File) (*fileInfo, int, string) {
	if header.Size > MaxFileSize {
		h.record("rejected", 0)
		return nil, http.StatusBadRequest, fmt.Sprintf("file %s exceeds the 10MB limit", header.Filename)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if !typeAllowed(ext, contentType) {
		h.record("rejected", 0)
		return nil, http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s (%s)", ext, contentType)
	}

	filename := generateFilename(header.Filename)
	if err := h.store.Save(r.Context(), filename, file, header.Size, contentType); err != nil {
		log.Printf("[upload] Save %s error: %v", filename, err)
		h.record("error", 0)
		return nil, http.StatusInternalServerError, "failed to store file"
	}

	h.record("success", header.Size)
	log.Printf("[upload] Stored file: %s (%d bytes)", filename, header.Size)
	return &fileInfo{
		Filename:     filename,
		OriginalName: header.Filename,
		Mimetype:     contentType,
		Size:         header.Size,
		URL:          "/uploads/" + filename,
	}, 0, ""
}

// rollback 清理批量上传中已写入的文件
func (h *Handler) rollback(r *http.Request, saved []fileInfo) {
	for _, info := range saved {
		if err := h.store.Delete(r.Context(), info.Filename); err != nil {
			log.Printf("[upload] rollback %s error: %v", info.Filename, err)
		}
	}
}

// typeAllowed 扩展名与声明的 MIME 类型必须同时命中允许列表
func typeAllowed(ext, contentType string) bool {
	mimes, ok := allowedTypes[ext]
	if !ok {
		return false
	}
	for _, m := range mimes {
		if contentType == m {
			return true
		}
	}
	return false
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// generateFilename 生成抗碰撞文件名: <basename>-<纳秒时间戳>-<随机后缀><ext>
func generateFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = unsafeChars.ReplaceAllString(base, "-")
	if base == "" {
		base = "file"
	}

	b := make([]byte, 6)
	rand.Read(b)
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixNano(), hex.EncodeToString(b), ext)
}
