package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// LokiHook ships log entries to a Loki push endpoint. Delivery is
// fire-and-forget: a slow or unreachable sink never blocks the caller.
type LokiHook struct {
	url    string
	job    string
	client *http.Client
}

// NewLokiHook creates a hook pushing to host's /loki/api/v1/push endpoint.
func NewLokiHook(host, job string) *LokiHook {
	return &LokiHook{
		url: host + "/loki/api/v1/push",
		job: job,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Levels registers the hook for all levels at or above the logger level.
func (h *LokiHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire pushes the entry asynchronously.
func (h *LokiHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"streams": []map[string]interface{}{
			{
				"stream": map[string]string{
					"job":   h.job,
					"level": entry.Level.String(),
				},
				"values": [][]string{
					{strconv.FormatInt(entry.Time.UnixNano(), 10), line},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode loki payload: %w", err)
	}

	go func() {
		resp, err := h.client.Post(h.url, "application/json", bytes.NewReader(body))
		if err != nil {
			return
		}
		resp.Body.Close()
	}()

	return nil
}
