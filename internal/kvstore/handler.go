package kvstore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/saulo-duarte/quizzical/internal/config"
)

type Handler struct {
	keys      []string
	keepAlive time.Duration
}

// NewHandler streams changes to keys made by other tabs of the same client.
func NewHandler(keys []string) *Handler {
	return &Handler{keys: keys, keepAlive: 25 * time.Second}
}

type event struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	sc := ScopeFromContext(r.Context())
	if sc == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusNotImplemented)
		return
	}

	keys := h.keys
	if q := r.URL.Query().Get("keys"); q != "" {
		keys = strings.Split(q, ",")
	}

	events := make(chan event, 16)
	for _, key := range keys {
		key := strings.TrimSpace(key)
		if key == "" {
			continue
		}
		cancel := sc.Subscribe(key, func(v json.RawMessage) {
			select {
			case events <- event{Key: key, Value: v}:
			default:
				log.WithField("key", key).Warn("Change stream is behind, dropping event")
			}
		})
		defer cancel()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, ": subscribed tab=%s\n\n", sc.Origin())
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev := <-events:
			payload, err := json.Marshal(ev)
			if err != nil {
				log.WithError(err).Warn("Failed to encode change event")
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
