package web

import (
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vrushalikudande/portfolio/internal/particles"
)

const (
	defaultSurfaceWidth  = 1280
	defaultSurfaceHeight = 720
	maxSurfaceDim        = 8192
	maxSnapshotSteps     = 1000
	frameWriteWait       = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 8192,
}

// backgroundMessage is sent by the page's canvas painter.
type backgroundMessage struct {
	Type   string  `json:"type"` // "resize"
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// surfaceSize reads w and h query parameters, falling back to defaults for
// missing or unusable values.
func surfaceSize(c *gin.Context) (float64, float64) {
	return queryDim(c, "w", defaultSurfaceWidth), queryDim(c, "h", defaultSurfaceHeight)
}

func queryDim(c *gin.Context, key string, def float64) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v <= 0 || v > maxSurfaceDim {
		return def
	}
	return v
}

// handleBackground runs one animator per connection and streams every frame
// as JSON. Closing the socket tears the animation down. The page's view is
// kept alive while the socket is open.
func (s *Server) handleBackground(c *gin.Context) {
	w, h := surfaceSize(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Background websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	if v, ok := s.lookupView(c); ok {
		release := v.Attach()
		defer release()
	}

	surface := particles.NewRecorder(w, h, func(f particles.Frame) error {
		conn.SetWriteDeadline(time.Now().Add(frameWriteWait))
		return conn.WriteJSON(f)
	})
	anim := particles.New(surface, particles.WithCount(s.opts.ParticleCount))

	resize := make(chan struct{}, 1)
	loop := anim.Start(particles.Ticker(s.opts.FrameInterval), resize)
	defer loop.Stop()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			var msg backgroundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("Background websocket read: %v", err)
				}
				return
			}
			if msg.Type != "resize" {
				continue
			}
			surface.SetSize(msg.Width, msg.Height)
			select {
			case resize <- struct{}{}:
			default:
			}
		}
	}()

	select {
	case <-readDone:
	case <-loop.Done():
		if err := loop.Err(); err != nil && !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			log.Printf("Background websocket write: %v", err)
		}
	}
}

// handleBackgroundSVG renders a still of the particle field after a number of
// steps. A seed makes the still reproducible.
func (s *Server) handleBackgroundSVG(c *gin.Context) {
	w, h := surfaceSize(c)
	steps, err := strconv.Atoi(c.DefaultQuery("steps", "1"))
	if err != nil || steps < 1 {
		steps = 1
	}
	if steps > maxSnapshotSteps {
		steps = maxSnapshotSteps
	}
	seed, err := strconv.ParseInt(c.Query("seed"), 10, 64)
	if err != nil {
		seed = time.Now().UnixNano()
	}

	surface := particles.NewRecorder(w, h, nil)
	anim := particles.New(surface,
		particles.WithCount(s.opts.ParticleCount),
		particles.WithRand(rand.New(rand.NewSource(seed))),
	)
	for i := 0; i < steps; i++ {
		if err := anim.Frame(); err != nil {
			log.Printf("Error rendering background still: %v", err)
			c.Status(http.StatusInternalServerError)
			return
		}
	}

	c.Header("Content-Type", "image/svg+xml")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := particles.WriteSVG(c.Writer, surface.Frame()); err != nil {
		log.Printf("Error writing background still: %v", err)
	}
}
