package detector

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"NutriVisionAI/internal/entity"

	"github.com/gorilla/websocket"
)

// startFakeInferenceServer answers every frame with a single detection whose
// class label echoes the decoded frame bytes, so callers can verify they got
// the response to their own request.
func startFakeInferenceServer(t *testing.T) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var req detectRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				return
			}

			frame, err := base64.StdEncoding.DecodeString(req.Image)
			if err != nil {
				return
			}

			resp := detectResponse{
				Detections: []entity.ProviderDetection{
					{ClassLabel: string(frame), Confidence: 0.9, BBox: [4]float64{1, 1, 2, 2}},
				},
			}

			payload, err := json.Marshal(resp)
			if err != nil {
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}))
}

func newConnectedClient(t *testing.T, serverURL string) *detectorClient {
	t.Helper()

	t.Setenv("AI_FOOD_DETECTION_URL", "ws"+strings.TrimPrefix(serverURL, "http"))

	client := &detectorClient{
		pingInterval: 30 * time.Second,
		readTimeout:  5 * time.Second,
		writeTimeout: 5 * time.Second,
	}
	if err := client.Reconnect(); err != nil {
		t.Fatalf("connecting to fake inference server: %v", err)
	}

	return client
}

func TestDetectRoundTrip(t *testing.T) {
	server := startFakeInferenceServer(t)
	defer server.Close()

	client := newConnectedClient(t, server.URL)
	defer client.Close()

	detections, err := client.Detect([]byte("apple-frame"), 0.5)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(detections) != 1 || detections[0].ClassLabel != "apple-frame" {
		t.Fatalf("unexpected detections: %+v", detections)
	}
}

// Two analyses may run at once under the default inference admission limit,
// so the client must keep each caller's write+read pair atomic on the shared
// connection and hand every caller its own response.
func TestDetectConcurrentCallersGetOwnResponses(t *testing.T) {
	server := startFakeInferenceServer(t)
	defer server.Close()

	client := newConnectedClient(t, server.URL)
	defer client.Close()

	const rounds = 25

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	for _, frame := range []string{"frame-left", "frame-right"} {
		frame := frame
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				detections, err := client.Detect([]byte(frame), 0.5)
				if err != nil {
					errCh <- fmt.Errorf("%s round %d: %v", frame, i, err)
					return
				}
				if len(detections) != 1 || detections[0].ClassLabel != frame {
					errCh <- fmt.Errorf("%s round %d got a stranger's response: %+v", frame, i, detections)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Fatal(err)
	}
}

func TestDetectPropagatesProviderError(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		payload, _ := json.Marshal(detectResponse{Error: "model not loaded"})
		conn.WriteMessage(websocket.TextMessage, payload)
	}))
	defer server.Close()

	client := newConnectedClient(t, server.URL)
	defer client.Close()

	if _, err := client.Detect([]byte("frame"), 0.5); err == nil {
		t.Fatal("expected an error from the provider, got nil")
	}
}
