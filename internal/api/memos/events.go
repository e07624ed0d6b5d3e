package memos

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"

	"github.com/evgeniy-krivenko/memos/pkg/logger/slogx"
)

// handleEvents pushes one frame per created or updated memo so list screens
// can refresh without polling.
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slogx.Warn(r.Context(), "ws accept", slogx.Err(err))
		return
	}
	defer conn.CloseNow()

	// the client never sends; CloseRead cancels ctx once it goes away
	ctx := conn.CloseRead(r.Context())

	events, err := s.usecase.SubscribeToEvents(ctx)
	if err != nil {
		slogx.Error(ctx, "subscribe to memo events", slogx.Err(err))
		conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}

	for ev := range events {
		data, err := json.Marshal(eventResponse{Kind: ev.Kind, Memo: toMemoResponse(ev.Memo)})
		if err != nil {
			slogx.Error(ctx, "marshal memo event", slogx.Err(err))
			continue
		}

		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			slogx.Debug(ctx, "ws write", slogx.Err(err))
			return
		}
	}

	conn.Close(websocket.StatusNormalClosure, "")
}
