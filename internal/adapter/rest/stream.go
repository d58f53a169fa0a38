package rest

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const streamWriteTimeout = 5 * time.Second

// handleStream handles GET /api/stream.
// Every published portfolio snapshot is pushed to the client as JSON; the
// first frame is the current snapshot. Client messages are ignored.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		// Accept has already written the HTTP error
		s.log.Warn().Err(err).Msg("Websocket handshake failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	updates, unsubscribe := s.store.Subscribe(1)
	defer unsubscribe()

	ctx := conn.CloseRead(r.Context())
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("Stream client connected")

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Str("remote", r.RemoteAddr).Msg("Stream client disconnected")
			return
		case st, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if !st.Ready() {
				continue
			}
			if err := s.writeFrame(ctx, conn, s.toPortfolio(st)); err != nil {
				s.log.Debug().Err(err).Msg("Stream write failed")
				return
			}
		}
	}
}

func (s *Server) writeFrame(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
