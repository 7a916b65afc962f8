package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NIKHIL-58/AI-ML/internal/ai"
	"github.com/NIKHIL-58/AI-ML/internal/config"
	"github.com/NIKHIL-58/AI-ML/internal/filestore"
	"github.com/NIKHIL-58/AI-ML/internal/model"
	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
	"github.com/NIKHIL-58/AI-ML/internal/sentiment"
)

const testCorpus = "Machine learning is a subset of artificial intelligence. Cats sleep for most of the day. Paris is the capital of France."

type memoryMessages struct {
	mu    sync.Mutex
	items []model.ChatMessage
	err   error
}

func (m *memoryMessages) Save(ctx context.Context, role, content string) (*model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	msg := model.ChatMessage{ID: int64(len(m.items) + 1), Role: role, Content: content, Timestamp: time.Now()}
	m.items = append(m.items, msg)
	return &msg, nil
}

func (m *memoryMessages) List(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.items
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}
	return append([]model.ChatMessage(nil), items...), nil
}

type memoryPredictions struct {
	items []*model.Prediction
	err   error
}

func (m *memoryPredictions) Save(ctx context.Context, p *model.Prediction) error {
	if m.err != nil {
		return m.err
	}
	p.ID = int64(len(m.items) + 1)
	m.items = append(m.items, p)
	return nil
}

func (m *memoryPredictions) List(ctx context.Context, limit int) ([]model.Prediction, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Prediction, 0, len(m.items))
	for i := len(m.items) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, *m.items[i])
	}
	return out, nil
}

type fixedGenerator struct {
	text string
	err  error
}

func (g fixedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.text, g.err
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return nil, ai.ErrUnavailable
}

func (failingEmbedder) ModelName() string { return "failing" }

func newManager(gen ai.IGenerator) *ai.Manager {
	embedder := ai.NewEmbedder(ai.NewLocalEmbedProvider(64), "hashing")
	return ai.NewManager(gen, embedder, ai.ManagerConfig{Timeout: 5, BatchConcurrency: 2})
}

func newRetrieval(t *testing.T, gen ai.IGenerator) *RetrievalService {
	t.Helper()
	manager := newManager(gen)
	idx, err := BuildIndex(context.Background(), manager, testCorpus, 10)
	require.NoError(t, err)
	require.Equal(t, 3, idx.Len())
	return NewRetrievalService(manager, idx, config.TopK)
}

func TestExtractAnswer(t *testing.T) {
	passages := "Deep learning uses layers. Machine learning is a subset of AI. More machine learning here."
	if got := ExtractAnswer("MACHINE LEARNING", passages); got != "Machine learning is a subset of AI." {
		t.Fatalf("unexpected answer: %q", got)
	}
	if got := ExtractAnswer("quantum", passages); got != NoAnswerText {
		t.Fatalf("unexpected answer: %q", got)
	}
	if got := ExtractAnswer("x", ""); got != NoAnswerText {
		t.Fatalf("unexpected answer: %q", got)
	}
}

func TestBuildIndexRejectsEmptyCorpus(t *testing.T) {
	_, err := BuildIndex(context.Background(), newManager(nil), " . . ", 300)
	require.True(t, appErr.IsInvalid(err))
}

func TestAnswerFallsBackWithoutGenerator(t *testing.T) {
	svc := newRetrieval(t, nil)
	answer, err := svc.Answer(context.Background(), "machine learning")
	require.NoError(t, err)
	require.Equal(t, "Machine learning is a subset of artificial intelligence.", answer.Answer)
	require.Len(t, answer.RetrievedChunks, 3)
	for i := 1; i < len(answer.RetrievedChunks); i++ {
		require.LessOrEqual(t, answer.RetrievedChunks[i-1].Score, answer.RetrievedChunks[i].Score)
	}
}

func TestAnswerFallsBackOnGeneratorError(t *testing.T) {
	svc := newRetrieval(t, fixedGenerator{err: errors.New("quota exceeded")})
	answer, err := svc.Answer(context.Background(), "something unrelated")
	require.NoError(t, err)
	require.Equal(t, NoAnswerText, answer.Answer)
}

func TestAnswerUsesGenerator(t *testing.T) {
	svc := newRetrieval(t, fixedGenerator{text: "Generated."})
	answer, err := svc.Answer(context.Background(), "paris")
	require.NoError(t, err)
	require.Equal(t, "Generated.", answer.Answer)
}

func TestAnswerEmbeddingFailureIsError(t *testing.T) {
	svc := newRetrieval(t, nil)
	svc.manager = ai.NewManager(nil, failingEmbedder{}, ai.ManagerConfig{})
	_, err := svc.Answer(context.Background(), "paris")
	require.True(t, appErr.IsUnavailable(err))
}

func TestAnswerDimensionMismatchIsError(t *testing.T) {
	svc := newRetrieval(t, nil)
	svc.manager = ai.NewManager(nil, ai.NewEmbedder(ai.NewLocalEmbedProvider(8), "small"), ai.ManagerConfig{})
	_, err := svc.Answer(context.Background(), "paris")
	require.Error(t, err)
	require.False(t, appErr.IsUnavailable(err))
}

func TestChatPersistsBothMessages(t *testing.T) {
	messages := &memoryMessages{}
	chat := NewChatService(newRetrieval(t, nil), messages)

	answer, err := chat.Chat(context.Background(), "machine learning")
	require.NoError(t, err)

	history, err := chat.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, model.RoleUser, history[0].Role)
	require.Equal(t, "machine learning", history[0].Content)
	require.Equal(t, model.RoleSystem, history[1].Role)
	require.Equal(t, answer.Answer, history[1].Content)
	require.Equal(t, 3, chat.IndexSize())
}

func TestChatRejectsEmptyQuery(t *testing.T) {
	messages := &memoryMessages{}
	chat := NewChatService(newRetrieval(t, nil), messages)
	_, err := chat.Chat(context.Background(), "   ")
	require.True(t, appErr.IsInvalid(err))
	require.Empty(t, messages.items)
}

func TestChatStoreFailure(t *testing.T) {
	messages := &memoryMessages{err: appErr.Unavailablef("db down")}
	chat := NewChatService(newRetrieval(t, nil), messages)
	_, err := chat.Chat(context.Background(), "paris")
	require.True(t, appErr.IsUnavailable(err))
}

func newModelSource(t *testing.T) ModelSource {
	t.Helper()
	store, err := filestore.New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	return ModelSource{Store: store, Key: "sentiment.json.zst"}
}

func TestLoadOrTrainModelTrainsThenLoads(t *testing.T) {
	ctx := context.Background()
	src := newModelSource(t)

	trained, err := LoadOrTrainModel(ctx, src)
	require.NoError(t, err)
	rc, err := src.Store.Open(ctx, src.Key)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	loaded, err := LoadOrTrainModel(ctx, src)
	require.NoError(t, err)
	require.Equal(t, trained.TrainedAt, loaded.TrainedAt)
	require.Equal(t, trained.Weights, loaded.Weights)
}

func TestLoadOrTrainModelReplacesCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	src := newModelSource(t)
	garbage := []byte("garbage")
	require.NoError(t, src.Store.Save(ctx, src.Key, bytes.NewReader(garbage), int64(len(garbage))))

	m, err := LoadOrTrainModel(ctx, src)
	require.NoError(t, err)
	require.NotNil(t, m)

	rc, err := src.Store.Open(ctx, src.Key)
	require.NoError(t, err)
	defer rc.Close()
	_, err = sentiment.Decode(rc)
	require.NoError(t, err)
}

func TestTrainAndStoreModelMissingDataset(t *testing.T) {
	src := newModelSource(t)
	src.TrainData = "/nonexistent/reviews.tsv"
	_, err := TrainAndStoreModel(context.Background(), src)
	require.Error(t, err)
}

func TestSentimentPredict(t *testing.T) {
	m, err := LoadOrTrainModel(context.Background(), newModelSource(t))
	require.NoError(t, err)
	store := &memoryPredictions{}
	svc := NewSentimentService(m, store)

	p, err := svc.Predict(context.Background(), "This movie was wonderful and inspiring")
	require.NoError(t, err)
	require.Equal(t, model.SentimentPositive, p.Sentiment)
	require.GreaterOrEqual(t, p.Confidence, 0.5)
	require.Len(t, store.items, 1)
	require.EqualValues(t, 1, store.items[0].ID)

	_, err = svc.Predict(context.Background(), "")
	require.True(t, appErr.IsInvalid(err))
	require.Len(t, store.items, 1)

	store.err = appErr.Unavailablef("db down")
	_, err = svc.Predict(context.Background(), "fine")
	require.True(t, appErr.IsUnavailable(err))

	info := svc.ModelInfo()
	require.Equal(t, 60, info["samples"])
}

func TestSentimentRecent(t *testing.T) {
	m, err := LoadOrTrainModel(context.Background(), newModelSource(t))
	require.NoError(t, err)
	store := &memoryPredictions{}
	svc := NewSentimentService(m, store)
	for i := 0; i < maxRecentLimit+5; i++ {
		_, err := svc.Predict(context.Background(), fmt.Sprintf("review number %d was great", i))
		require.NoError(t, err)
	}

	recent, err := svc.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.EqualValues(t, maxRecentLimit+5, recent[0].ID)

	recent, err = svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, defaultRecentLimit)

	recent, err = svc.Recent(context.Background(), 1000)
	require.NoError(t, err)
	require.Len(t, recent, maxRecentLimit)
}
