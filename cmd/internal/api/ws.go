package api

import (
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"sorthub/cmd/internal/history"
)

// handleHistoryWatch streams history snapshots for one login over a
// WebSocket. Every frame carries the full sequence, so a client can join at
// any time and drop frames without losing state.
func (h *Handler) handleHistoryWatch(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		writeError(w, http.StatusServiceUnavailable, "watch_unavailable", "live history feed not enabled")
		return
	}
	login := r.PathValue("login")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Debug("api.watch.accept.fail", "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	ctx := r.Context()

	ch, cancel := h.feed.Subscribe(login)
	defer cancel()

	// Initial snapshot so the client does not wait for the next mutation.
	snapshot := history.Event{Login: login, History: [][]int{}, At: time.Now().UTC()}
	if entries, err := h.arrays.History(ctx, login); err == nil {
		snapshot.History = entries
	}
	if err := wsjson.Write(ctx, conn, snapshot); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case ev, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
		}
	}
}
