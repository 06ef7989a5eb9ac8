package attendance

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"staffhub.io/staffhub/attendance"
	"staffhub.io/staffhub/face"
	"staffhub.io/staffhub/model"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
}

type FaceDTO struct {
	Action     string    `json:"action"`
	Descriptor []float64 `json:"descriptor" binding:"required"`
	Score      float64   `json:"score"`
}

type FaceResultDTO struct {
	Match  *face.Match             `json:"match"`
	Record *model.AttendanceRecord `json:"record"`
}

// Stream message types.
const (
	MessageAttempt = "attempt"
	MessageMatched = "matched"
	MessageFailed  = "failed"
)

type StreamMessage struct {
	Type     string                  `json:"type"`
	Error    string                  `json:"error,omitempty"`
	TimedOut bool                    `json:"timedOut,omitempty"`
	Match    *face.Match             `json:"match,omitempty"`
	Record   *model.AttendanceRecord `json:"record,omitempty"`
}

// RecognizeFace makes one recognition attempt against the caller's registered face.
func (ep *Endpoint) RecognizeFace(c *gin.Context) {
	var dto FaceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	if !model.ValidAction(dto.Action) {
		web.Fail(c, http.StatusBadRequest, attendance.ErrInvalidAction)
		return
	}

	ctx := c.Request.Context()
	identity := middlewares.CurrentIdentity(c)
	match, err := ep.recognizer.Recognize(ctx, &face.Probe{Descriptor: dto.Descriptor, Score: dto.Score}, identity.ID)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}

	rec, err := ep.attendance.RecordFace(ctx, identity.ID, dto.Action, match.Confidence)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusCreated, web.NewSuccessResponse(FaceResultDTO{Match: match, Record: rec}))
}

// Stream reads probes pushed by the browser and keeps matching the newest one
// until the caller is recognized or the recognition window closes.
func (ep *Endpoint) Stream(c *gin.Context) {
	action := c.Query("action")
	if !model.ValidAction(action) {
		web.Fail(c, http.StatusBadRequest, attendance.ErrInvalidAction)
		return
	}
	identity := middlewares.CurrentIdentity(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WARN] face stream upgrade for %s: %v", identity.ID, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	frames := &face.LatestFrame{}
	go func() {
		defer cancel()
		for {
			var probe face.Probe
			if err := conn.ReadJSON(&probe); err != nil {
				return
			}
			frames.Push(&probe)
		}
	}()

	send := func(msg StreamMessage) {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			cancel()
		}
	}

	match, err := ep.recognizer.Watch(ctx, frames, identity.ID, func(err error) {
		send(StreamMessage{Type: MessageAttempt, Error: err.Error()})
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		send(StreamMessage{Type: MessageFailed, Error: err.Error(), TimedOut: errors.Is(err, face.ErrTimeout)})
		closeNormally(conn)
		return
	}

	rec, err := ep.attendance.RecordFace(ctx, identity.ID, action, match.Confidence)
	if err != nil {
		if status(err) >= http.StatusInternalServerError {
			log.Printf("[ERROR] face attendance for %s: %v", identity.ID, err)
		}
		send(StreamMessage{Type: MessageFailed, Error: err.Error()})
		closeNormally(conn)
		return
	}
	send(StreamMessage{Type: MessageMatched, Match: match, Record: rec})
	closeNormally(conn)
}

func closeNormally(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
