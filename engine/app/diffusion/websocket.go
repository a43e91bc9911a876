package diffusion

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	engine "vodhub.fr/portal/engine/app"
	"vodhub.fr/portal/vodutil"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const liveStatusInterval = 20 * time.Second

type liveStatusRequest struct {
	Event  string `json:"event"`
	Logins string `json:"logins"`
}

// LiveStatusSocket pushes live-status snapshots for a set of channel
// logins. The client sends {"event":"watch","logins":"a,b,c"} and gets
// a live_status frame immediately, then on every tick; sending a new
// watch frame replaces the set.
func LiveStatusSocket(ctx *gin.Context, app *engine.App) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		app.Log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	watched := make(chan []string, 1)
	go func() {
		defer close(watched)
		for {
			var req liveStatusRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if req.Event != "watch" {
				vodutil.SendWebsocketResponse(conn, "error", nil, errors.New("unknown event: "+req.Event))
				continue
			}
			logins := strings.Split(req.Logins, ",")
			select {
			case <-watched:
			default:
			}
			watched <- logins
		}
	}()

	ticker := time.NewTicker(liveStatusInterval)
	defer ticker.Stop()

	var logins []string
	for {
		select {
		case next, ok := <-watched:
			if !ok {
				return
			}
			logins = next
		case <-ticker.C:
		}
		if len(logins) == 0 {
			continue
		}
		status := app.Twitch.FetchLiveStatusByLogins(ctx.Request.Context(), logins)
		if err := vodutil.SendWebsocketResponse(conn, "live_status", status, nil); err != nil {
			return
		}
	}
}
