package http

import (
	"log/slog"
	"net/http"
	"time"

	"marketplace/internal/adapters/out/notify"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Realtime handles GET /realtime. The connection receives the change signals
// addressed to the caller's role until either side closes it. Signals carry no
// order data; clients refetch the listing they are showing.
func (s *Server) Realtime(ctx echo.Context) error {
	p, _ := principal(ctx)

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// the upgrader has already written the handshake error
		s.logger.WarnContext(ctx.Request().Context(), "websocket upgrade failed", slog.Any("error", err))
		return nil
	}
	defer conn.Close()

	signals, cancel := s.realtime.Subscribe(notify.FilterFor(p.Role, p.ID))
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return nil
		case <-ctx.Request().Context().Done():
			return nil
		case signal, ok := <-signals:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return nil
			}
			if err := conn.WriteJSON(signal); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		}
	}
}
