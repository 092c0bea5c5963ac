// WebSocket 管理端通知网关
//
// 管理面板通过 /ws/admin/notifications 建立长连接，新联系消息到达时
// 实时收到推送，不需要轮询收件箱。浏览器 WebSocket 无法携带自定义
// 请求头，令牌通过 token 查询参数传递。
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"portfolio-admin/internal/apiserver/auth"
	"portfolio-admin/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsMessage 推送消息格式
type wsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// wsClient 单个管理端连接
//
// gorilla/websocket 同一连接同时只允许一个写入方，广播和心跳
// 响应都必须经过 send 串行化。
type wsClient struct {
	conn *websocket.Conn

	mu sync.Mutex // 串行化所有写操作
}

func (c *wsClient) send(msg wsMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(msg)
}

// NotifyGateway WebSocket 通知网关
type NotifyGateway struct {
	authCfg auth.Config
	metrics *Metrics

	mu      sync.RWMutex
	clients map[*wsClient]bool
}

// NewNotifyGateway 创建通知网关，metrics 可以为 nil
func NewNotifyGateway(authCfg auth.Config, metrics *Metrics) *NotifyGateway {
	return &NotifyGateway{
		authCfg: authCfg,
		clients: make(map[*wsClient]bool),
		metrics: metrics,
	}
}

// HandleWebSocket 处理管理端通知连接
//
// 路由: GET /ws/admin/notifications?token=<jwt>
//
// 推送消息格式：
//
//	新消息：{"type": "contact_message", "data": {...}}
//	心跳响应：{"type": "pong"}
func (g *NotifyGateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token required", http.StatusUnauthorized)
		return
	}
	claims, err := auth.ParseToken(g.authCfg, token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn}
	g.addClient(client)
	defer g.removeClient(client)
	log.Printf("[ws] Admin connected: %s", claims.Email)

	// 读循环：处理心跳并感知连接关闭
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg wsMessage
		if json.Unmarshal(raw, &msg) == nil && msg.Type == "ping" {
			if err := client.send(wsMessage{Type: "pong"}); err != nil {
				break
			}
			if g.metrics != nil {
				g.metrics.WSMessagesTotal.WithLabelValues("out", "pong").Inc()
			}
		}
	}
	log.Printf("[ws] Admin disconnected: %s", claims.Email)
}

// NotifyContactMessage 向所有已连接的管理端广播新消息
func (g *NotifyGateway) NotifyContactMessage(m *model.ContactMessage) {
	g.mu.RLock()
	clients := make([]*wsClient, 0, len(g.clients))
	for c := range g.clients {
		clients = append(clients, c)
	}
	g.mu.RUnlock()

	msg := wsMessage{Type: "contact_message", Data: m}
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			log.Printf("[ws] broadcast error: %v", err)
			g.removeClient(c)
			c.conn.Close()
			continue
		}
		if g.metrics != nil {
			g.metrics.WSMessagesTotal.WithLabelValues("out", "contact_message").Inc()
		}
	}
}

func (g *NotifyGateway) addClient(c *wsClient) {
	g.mu.Lock()
	g.clients[c] = true
	g.mu.Unlock()
	if g.metrics != nil {
		g.metrics.WSConnectionsActive.Inc()
	}
}

func (g *NotifyGateway) removeClient(c *wsClient) {
	g.mu.Lock()
	if _, ok := g.clients[c]; ok {
		delete(g.clients, c)
		if g.metrics != nil {
			g.metrics.WSConnectionsActive.Dec()
		}
	}
	g.mu.Unlock()
}
