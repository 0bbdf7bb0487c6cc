package reviewControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/senara-eco/senara-api/models"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// sentimentClient keeps the classifier call bounded; a slow classifier must
// never hold up review creation.
var sentimentClient = &http.Client{Timeout: 5 * time.Second}

type sentimentRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

type sentimentResponse struct {
	Sentiment string `json:"sentiment"`
}

// ClassifySentiment asks the external classifier for a coarse label. Any
// failure (unset URL, timeout, bad status, unknown label) degrades to Neutral.
func ClassifySentiment(comment string, rating int) models.Sentiment {
	apiURL := os.Getenv("SENTIMENT_API_URL")
	if apiURL == "" {
		return models.SentimentNeutral
	}

	body, err := json.Marshal(sentimentRequest{Text: comment, Rating: rating})
	if err != nil {
		return models.SentimentNeutral
	}

	resp, err := sentimentClient.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Warn().Err(err).Msg("Sentiment classifier unreachable, defaulting to Neutral")
		return models.SentimentNeutral
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn().Int("status", resp.StatusCode).Msg("Sentiment classifier error, defaulting to Neutral")
		return models.SentimentNeutral
	}

	var result sentimentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.SentimentNeutral
	}

	switch models.Sentiment(result.Sentiment) {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
		return models.Sentiment(result.Sentiment)
	default:
		return models.SentimentNeutral
	}
}
