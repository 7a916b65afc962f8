package model

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
)

type Prediction struct {
	ID         int64   `json:"-" ddb:"id"`
	Text       string  `json:"text" ddb:"text"`
	Sentiment  string  `json:"sentiment" ddb:"sentiment"`
	Confidence float64 `json:"confidence" ddb:"confidence"`
	Ctime      int64   `json:"-" ddb:"ctime"`
}
