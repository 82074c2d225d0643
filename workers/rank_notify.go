package workers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"word-duel-service/utils"
)

// RankNotifier pings the rank service after a claim changes a user's
// balances so standings get recomputed. Fire-and-forget: a failed notify
// is logged and dropped, never rolled back into the claim.
type RankNotifier struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewRankNotifier returns nil when RANK_SERVICE_URL is unset; claims then
// simply skip the notification.
func NewRankNotifier() *RankNotifier {
	baseURL := os.Getenv("RANK_SERVICE_URL")
	if baseURL == "" {
		log.Println("⚠️  RANK_SERVICE_URL not set, rank recalculation notifications disabled")
		return nil
	}
	return &RankNotifier{
		BaseURL:    baseURL,
		Token:      os.Getenv("WORD_SERVICE_TOKEN"),
		HTTPClient: utils.HTTPClient,
	}
}

func (n *RankNotifier) NotifyRankChanged(userID string) {
	body, _ := json.Marshal(map[string]string{
		"user_id":    userID,
		"changed_at": time.Now().UTC().Format(time.RFC3339),
	})

	url := fmt.Sprintf("%s/api/v1/internal/rank/recalculate", n.BaseURL)
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		log.Printf("❌ rank notify: failed to build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", n.Token)

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		log.Printf("❌ rank notify for %s failed: %v", userID, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("❌ rank notify for %s returned status %d", userID, resp.StatusCode)
	}
}
