package detector

import (
	"NutriVisionAI/internal/entity"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// IDetector is the object-detection provider consumed by the analysis
// pipeline. The model itself runs in a remote inference sidecar; this client
// only speaks its frame-in/detections-out contract.
type IDetector interface {
	Detect(frame []byte, confidenceThreshold float64) ([]entity.ProviderDetection, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type detectRequest struct {
	Image               string  `json:"image"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

type detectResponse struct {
	Detections []entity.ProviderDetection `json:"detections"`
	Error      string                     `json:"error,omitempty"`
}

type detectorClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New() IDetector {
	client := &detectorClient{
		pingInterval: 30 * time.Second,
		readTimeout:  30 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go func() {
		if err := client.Reconnect(); err != nil {
			log.Printf("Initial connection to food detection service failed: %v. Will retry on demand.", err)
		} else {
			log.Printf("Successfully connected to food detection service")
		}
	}()

	return client
}

func (c *detectorClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *detectorClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := os.Getenv("AI_FOOD_DETECTION_URL")
	if url == "" {
		url = "ws://localhost:8500/api/v1/detect/ws"
	}

	log.Printf("Connecting to food detection service at %s", url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
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

func (c *detectorClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *detectorClient) keepAlive() {
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
			log.Printf("Ping failed for food detection service, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

func (c *detectorClient) Detect(frame []byte, confidenceThreshold float64) ([]entity.ProviderDetection, error) {
	request := detectRequest{
		Image:               base64.StdEncoding.EncodeToString(frame),
		ConfidenceThreshold: confidenceThreshold,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error encoding detection request: %w", err)
	}

	log.Printf("Sending detection frame of size: %d bytes", len(frame))

	message, err := c.exchange(payload)
	if err != nil {
		return nil, err
	}

	var result detectResponse
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling detection response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("detection service error: %s", result.Error)
	}

	log.Printf("Received %d detections from food detection service", len(result.Detections))

	return result.Detections, nil
}

// exchange performs one request/response round trip. The mutex is held for
// the whole write+read pair: the connection allows at most one concurrent
// reader and writer, and responses carry no correlation id, so concurrent
// callers must not interleave on the wire.
func (c *detectorClient) exchange(payload []byte) ([]byte, error) {
	c.mu.Lock()

	if c.conn == nil {
		c.mu.Unlock()
		if err := c.Reconnect(); err != nil {
			return nil, fmt.Errorf("cannot connect to food detection service: %w", err)
		}
		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("not connected to food detection service")
		}
	}

	conn := c.conn
	defer c.mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error sending detection frame: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error reading detection response: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	return message, nil
}
