package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/devaloi/postboard/internal/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeLive upgrades to a websocket that receives a frame for every
// change of the posts collection.
func ServeLive(h *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("ws upgrade error", "err", err)
			return
		}

		c := live.NewConn(h, conn, uuid.NewString())
		h.Register(c)
		go c.ReadPump()
		go c.WritePump()
	}
}
