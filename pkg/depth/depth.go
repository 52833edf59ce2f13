package depth

import (
	"NutriVisionAI/internal/entity"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// IDepth is the optional monocular-depth provider. When the provider is not
// configured the orchestrator simply runs without the volumetric signal.
type IDepth interface {
	EstimateDepth(frame []byte) (*entity.DepthMap, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type depthResponse struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Depth  []float64 `json:"depth"`
	Error  string    `json:"error,omitempty"`
}

type depthClient struct {
	url          string
	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// New returns an error when AI_DEPTH_ESTIMATION_URL is unset: depth is a
// capability the deployment may not carry.
func New() (IDepth, error) {
	url := os.Getenv("AI_DEPTH_ESTIMATION_URL")
	if url == "" {
		return nil, errors.New("depth estimation service not configured")
	}

	client := &depthClient{
		url:          url,
		pingInterval: 30 * time.Second,
		readTimeout:  30 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go func() {
		if err := client.Reconnect(); err != nil {
			log.Printf("Initial connection to depth estimation service failed: %v. Will retry on demand.", err)
		} else {
			log.Printf("Successfully connected to depth estimation service")
		}
	}()

	return client, nil
}

func (c *depthClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *depthClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	log.Printf("Connecting to depth estimation service at %s", c.url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn

	go c.keepAlive()

	return nil
}

func (c *depthClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *depthClient) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		conn := c.conn

		if conn == nil {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(
			websocket.PingMessage,
			[]byte{},
			time.Now().Add(c.writeTimeout),
		)

		if err != nil {
			log.Printf("Ping failed for depth estimation service, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

func (c *depthClient) EstimateDepth(frame []byte) (*entity.DepthMap, error) {
	base64Frame := base64.StdEncoding.EncodeToString(frame)

	log.Printf("Sending depth frame of size: %d bytes", len(base64Frame))

	message, err := c.exchange([]byte(base64Frame))
	if err != nil {
		return nil, err
	}

	var result depthResponse
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling depth response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("depth estimation service error: %s", result.Error)
	}

	if result.Width <= 0 || result.Height <= 0 || len(result.Depth) != result.Width*result.Height {
		return nil, fmt.Errorf("depth map shape mismatch: %dx%d with %d values", result.Width, result.Height, len(result.Depth))
	}

	return &entity.DepthMap{
		Width:  result.Width,
		Height: result.Height,
		Values: result.Depth,
	}, nil
}

// exchange performs one request/response round trip. The mutex is held for
// the whole write+read pair: the connection allows at most one concurrent
// reader and writer, and responses carry no correlation id, so concurrent
// callers must not interleave on the wire.
func (c *depthClient) exchange(payload []byte) ([]byte, error) {
	c.mu.Lock()

	if c.conn == nil {
		c.mu.Unlock()
		if err := c.Reconnect(); err != nil {
			return nil, fmt.Errorf("cannot connect to depth estimation service: %w", err)
		}
		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("not connected to depth estimation service")
		}
	}

	conn := c.conn
	defer c.mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error sending depth frame: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error reading depth response: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	return message, nil
}
