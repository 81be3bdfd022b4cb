package display

import (
	"bytes"
	"image"
	"image/jpeg"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// writeWait is how long a frame write may take before the client is dropped.
	writeWait = 5 * time.Second

	// pongWait is how long to wait for a pong before giving up on a client.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// clientBuffer is the number of frames queued per client. Frames beyond
	// it are dropped for that client only.
	clientBuffer = 4

	// jpegQuality is used for every encoded frame.
	jpegQuality = 80
)

const indexPage = `<!DOCTYPE html>
<html>
<head><title>colordetect</title></head>
<body style="margin:0;background:#222">
<img id="frame" alt="waiting for frames">
<script>
const img = document.getElementById("frame");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/frames");
ws.binaryType = "blob";
ws.onmessage = (e) => {
  const url = URL.createObjectURL(e.data);
  img.onload = () => URL.revokeObjectURL(url);
  img.src = url;
};
document.addEventListener("keydown", (e) => {
  if (e.key.length === 1) ws.send(e.key);
});
</script>
</body>
</html>
`

// Web serves annotated frames over HTTP.
//
// GET /frame.jpg returns the latest frame. GET /ws/frames streams every frame
// as a binary JPEG message; a single-character text message from a client is
// reported by PollKey as that key, so sending "q" stops the loop.
type Web struct {
	app    *fiber.App
	logger *zap.Logger
	keys   chan int

	mu       sync.RWMutex
	latest   []byte
	clients  map[*webClient]struct{}
	listener net.Listener
	closed   bool
}

type webClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewWeb builds the server. Call Start to begin listening, or drive App
// directly in tests.
func NewWeb(logger *zap.Logger) *Web {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Web{
		logger:  logger,
		keys:    make(chan int, 16),
		clients: make(map[*webClient]struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "colordetect",
		DisableStartupMessage: true,
	})
	app.Get("/", w.handleIndex)
	app.Get("/frame.jpg", w.handleFrame)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/frames", websocket.New(w.handleFramesWS))

	w.app = app
	return w
}

// App exposes the fiber application.
func (w *Web) App() *fiber.App { return w.app }

// Start listens on addr and serves in the background. Listen errors are
// returned directly.
func (w *Web) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", addr)
	}

	w.mu.Lock()
	w.listener = ln
	w.mu.Unlock()

	go func() {
		if err := w.app.Listener(ln); err != nil {
			w.logger.Error("web display stopped", zap.Error(err))
		}
	}()
	w.logger.Info("web display listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the listen address, or nil before Start.
func (w *Web) Addr() net.Addr {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.listener == nil {
		return nil
	}
	return w.listener.Addr()
}

// Clients returns the number of connected websocket clients.
func (w *Web) Clients() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.clients)
}

// Show encodes frame as JPEG, keeps it for /frame.jpg and pushes it to every
// connected client. The name is only logged; the web view has a single stream.
func (w *Web) Show(name string, frame image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return errors.Wrapf(err, "encoding frame for %q", name)
	}
	data := buf.Bytes()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("web display closed")
	}
	w.latest = data
	for c := range w.clients {
		select {
		case c.send <- data:
		default:
			w.logger.Debug("dropping frame for slow client", zap.String("view", name))
		}
	}
	return nil
}

// PollKey waits up to wait for a key sent by a client.
func (w *Web) PollKey(wait time.Duration) int {
	if wait <= 0 {
		select {
		case k := <-w.keys:
			return k
		default:
			return NoKey
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case k := <-w.keys:
		return k
	case <-timer.C:
		return NoKey
	}
}

// Close disconnects every client and stops the server.
func (w *Web) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for c := range w.clients {
		delete(w.clients, c)
		close(c.send)
	}
	started := w.listener != nil
	w.mu.Unlock()

	if !started {
		return nil
	}
	if err := w.app.ShutdownWithTimeout(2 * time.Second); err != nil {
		return errors.Wrap(err, "stopping web display")
	}
	w.logger.Info("web display stopped")
	return nil
}

func (w *Web) handleIndex(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(indexPage)
}

func (w *Web) handleFrame(c *fiber.Ctx) error {
	w.mu.RLock()
	data := w.latest
	w.mu.RUnlock()

	if data == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no frame yet")
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("jpg")
	return c.Send(data)
}

func (w *Web) handleFramesWS(conn *websocket.Conn) {
	client := &webClient{conn: conn, send: make(chan []byte, clientBuffer)}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		conn.Close()
		return
	}
	w.clients[client] = struct{}{}
	if w.latest != nil {
		client.send <- w.latest
	}
	count := len(w.clients)
	w.mu.Unlock()
	w.logger.Info("web client connected", zap.Int("clients", count))

	done := make(chan struct{})
	go func() {
		w.writePump(client)
		close(done)
	}()
	w.readPump(client)
	<-done
}

// readPump reads key messages until the connection drops, then unregisters
// the client.
func (w *Web) readPump(c *webClient) {
	defer func() {
		w.mu.Lock()
		if _, ok := w.clients[c]; ok {
			delete(w.clients, c)
			close(c.send)
		}
		count := len(w.clients)
		w.mu.Unlock()
		c.conn.Close()
		w.logger.Info("web client disconnected", zap.Int("clients", count))
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage || len(msg) != 1 {
			continue
		}
		select {
		case w.keys <- int(msg[0]):
		default:
		}
	}
}

// writePump is the only writer on the connection.
func (w *Web) writePump(c *webClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
