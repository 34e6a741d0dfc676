package usecase

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"motive-archive/internal/search/domain/model"
	"motive-archive/internal/shared/logger"
)

type stubResearchRepo struct {
	files   []*model.ResearchFile
	keyword []*model.SearchResult
	created *model.ResearchFile
}

func (s *stubResearchRepo) Create(ctx context.Context, file *model.ResearchFile) error {
	file.ID = primitive.NewObjectID()
	s.created = file
	return nil
}

func (s *stubResearchRepo) GetByID(ctx context.Context, id string) (*model.ResearchFile, error) {
	for _, f := range s.files {
		if f.ID.Hex() == id {
			return f, nil
		}
	}
	return nil, nil
}

func (s *stubResearchRepo) ListByCar(ctx context.Context, carID string) ([]*model.ResearchFile, error) {
	return s.files, nil
}

func (s *stubResearchRepo) KeywordSearch(ctx context.Context, carID, query string, limit int) ([]*model.SearchResult, error) {
	return s.keyword, nil
}

func (s *stubResearchRepo) Delete(ctx context.Context, id string) error { return nil }

type stubEmbedder struct {
	vectors  [][]float64
	received [][]string
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	s.received = append(s.received, texts)
	if s.vectors != nil {
		return s.vectors, nil
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

type stubSynthesizer struct {
	answer   string
	question string
	context  string
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, question, contextBlock string) (string, error) {
	s.question = question
	s.context = contextBlock
	return s.answer, nil
}

func TestChunkText(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := ChunkText("hello world", 2000)
		assert.Equal(t, []string{"hello world"}, chunks)
	})

	t.Run("splits on paragraph boundaries", func(t *testing.T) {
		para := strings.Repeat("a", 60)
		text := para + "\n\n" + para + "\n\n" + para
		chunks := ChunkText(text, 150)

		require.Len(t, chunks, 2)
		assert.Equal(t, para+"\n\n"+para, chunks[0])
		assert.Equal(t, para, chunks[1])
	})

	t.Run("oversized paragraph is hard split", func(t *testing.T) {
		text := strings.Repeat("b", 250)
		chunks := ChunkText(text, 100)

		require.Len(t, chunks, 3)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 100)
		}
	})

	t.Run("hard split never severs a multibyte rune", func(t *testing.T) {
		// multibyte runes with 10-byte chunks: a naive byte split
		// would cut mid-rune
		text := strings.Repeat("é", 2) + strings.Repeat("我", 40)
		chunks := ChunkText(text, 10)

		require.NotEmpty(t, chunks)
		var rebuilt strings.Builder
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c), "chunk %q contains a severed rune", c)
			assert.LessOrEqual(t, len(c), 10)
			rebuilt.WriteString(c)
		}
		assert.Equal(t, text, rebuilt.String())
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		assert.Empty(t, ChunkText("   \n  ", 100))
	})
}

func TestVectorMath(t *testing.T) {
	t.Run("average of chunk vectors", func(t *testing.T) {
		avg := Average([][]float64{{2, 0}, {0, 2}})
		assert.Equal(t, []float64{1, 1}, avg)
	})

	t.Run("normalize produces a unit vector", func(t *testing.T) {
		vec := Normalize([]float64{3, 4})
		assert.InDelta(t, 0.6, vec[0], 1e-9)
		assert.InDelta(t, 0.8, vec[1], 1e-9)
		assert.InDelta(t, 1.0, Dot(vec, vec), 1e-9)
	})

	t.Run("normalize leaves the zero vector alone", func(t *testing.T) {
		assert.Equal(t, []float64{0, 0}, Normalize([]float64{0, 0}))
	})
}

func TestMergeResults(t *testing.T) {
	t.Run("overlapping file averages both scores", func(t *testing.T) {
		keyword := []model.SearchResult{{FileID: "a", Score: 1.0, Snippet: "from keyword"}}
		vector := []model.SearchResult{{FileID: "a", Score: 0.5}}

		merged := MergeResults(keyword, vector)

		require.Len(t, merged, 1)
		assert.InDelta(t, 0.75, merged[0].Score, 1e-9)
		assert.Equal(t, "from keyword", merged[0].Snippet)
	})

	t.Run("single-set files keep their score", func(t *testing.T) {
		keyword := []model.SearchResult{{FileID: "a", Score: 0.9}}
		vector := []model.SearchResult{{FileID: "b", Score: 0.4}}

		merged := MergeResults(keyword, vector)

		require.Len(t, merged, 2)
		assert.Equal(t, "a", merged[0].FileID)
		assert.InDelta(t, 0.9, merged[0].Score, 1e-9)
		assert.Equal(t, "b", merged[1].FileID)
		assert.InDelta(t, 0.4, merged[1].Score, 1e-9)
	})

	t.Run("ordering is descending with stable tiebreak", func(t *testing.T) {
		keyword := []model.SearchResult{
			{FileID: "c", Score: 0.5},
			{FileID: "a", Score: 0.5},
			{FileID: "b", Score: 0.8},
		}

		merged := MergeResults(keyword, nil)

		require.Len(t, merged, 3)
		assert.Equal(t, "b", merged[0].FileID)
		assert.Equal(t, "a", merged[1].FileID)
		assert.Equal(t, "c", merged[2].FileID)
	})

	t.Run("empty inputs produce empty output", func(t *testing.T) {
		assert.Empty(t, MergeResults(nil, nil))
	})
}

func TestSearchNormalizesKeywordScores(t *testing.T) {
	repo := &stubResearchRepo{
		keyword: []*model.SearchResult{
			{FileID: "a", Score: 4.0},
			{FileID: "b", Score: 2.0},
		},
	}
	uc := NewSearchUsecase(repo, nil, nil, logger.NewLogger(), 2000, 5)

	results, err := uc.Search(context.Background(), "car1", "overheating", 5)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.InDelta(t, 0.5, results[1].Score, 1e-9)
}

func TestSearchHybridMerge(t *testing.T) {
	fileA := &model.ResearchFile{
		ID:        primitive.NewObjectID(),
		Filename:  "service-history.md",
		Content:   "full service history",
		Embedding: []float64{1, 0, 0},
	}
	fileB := &model.ResearchFile{
		ID:        primitive.NewObjectID(),
		Filename:  "auction-notes.md",
		Content:   "auction notes",
		Embedding: []float64{0, 1, 0},
	}
	repo := &stubResearchRepo{
		files: []*model.ResearchFile{fileA, fileB},
		keyword: []*model.SearchResult{
			{FileID: fileA.ID.Hex(), Score: 3.0},
		},
	}
	// query embeds to (1,0,0): dot 1.0 with fileA, 0.0 with fileB
	embedder := &stubEmbedder{vectors: [][]float64{{1, 0, 0}}}
	uc := NewSearchUsecase(repo, embedder, nil, logger.NewLogger(), 2000, 5)

	results, err := uc.Search(context.Background(), "car1", "service history", 5)

	require.NoError(t, err)
	require.Len(t, results, 2)
	// fileA: keyword 1.0 (max-normalized) averaged with vector 1.0
	assert.Equal(t, fileA.ID.Hex(), results[0].FileID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	// fileB: vector only
	assert.Equal(t, fileB.ID.Hex(), results[1].FileID)
	assert.InDelta(t, 0.0, results[1].Score, 1e-9)
}

func TestSearchTopKLimit(t *testing.T) {
	repo := &stubResearchRepo{
		keyword: []*model.SearchResult{
			{FileID: "a", Score: 3.0},
			{FileID: "b", Score: 2.0},
			{FileID: "c", Score: 1.0},
		},
	}
	uc := NewSearchUsecase(repo, nil, nil, logger.NewLogger(), 2000, 5)

	results, err := uc.Search(context.Background(), "car1", "engine", 2)

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "a", results[0].FileID)
}

func TestSearchEmptyCorpus(t *testing.T) {
	uc := NewSearchUsecase(&stubResearchRepo{}, nil, nil, logger.NewLogger(), 2000, 5)

	results, err := uc.Search(context.Background(), "car1", "anything", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIngestEmbedsChunks(t *testing.T) {
	repo := &stubResearchRepo{}
	embedder := &stubEmbedder{}
	uc := NewSearchUsecase(repo, embedder, nil, logger.NewLogger(), 100, 5)

	content := strings.Repeat("x", 80) + "\n\n" + strings.Repeat("y", 80)
	file, err := uc.Ingest(context.Background(), "car1", "notes.md", content)

	require.NoError(t, err)
	require.NotNil(t, repo.created)
	// two chunks were embedded in one call
	require.Len(t, embedder.received, 1)
	assert.Len(t, embedder.received[0], 2)
	// stored embedding is unit length
	assert.InDelta(t, 1.0, Dot(file.Embedding, file.Embedding), 1e-9)
}

func TestIngestValidation(t *testing.T) {
	uc := NewSearchUsecase(&stubResearchRepo{}, nil, nil, logger.NewLogger(), 2000, 5)

	_, err := uc.Ingest(context.Background(), "", "notes.md", "content")
	assert.Error(t, err)

	_, err = uc.Ingest(context.Background(), "car1", "notes.md", "   ")
	assert.Error(t, err)
}

func TestAskSynthesizesOverResults(t *testing.T) {
	file := &model.ResearchFile{
		ID:       primitive.NewObjectID(),
		Filename: "service-history.md",
		Content:  "The head gasket was replaced in 2019 at 42000 miles.",
	}
	repo := &stubResearchRepo{
		files:   []*model.ResearchFile{file},
		keyword: []*model.SearchResult{{FileID: file.ID.Hex(), Score: 2.0}},
	}
	synth := &stubSynthesizer{answer: "The head gasket was replaced in 2019."}
	uc := NewSearchUsecase(repo, nil, synth, logger.NewLogger(), 2000, 5)

	answer, err := uc.Ask(context.Background(), "car1", "When was the head gasket replaced?")

	require.NoError(t, err)
	assert.Equal(t, "The head gasket was replaced in 2019.", answer.Text)
	require.Len(t, answer.Sources, 1)
	assert.Contains(t, synth.context, "service-history.md")
	assert.Contains(t, synth.context, "head gasket")
	assert.Equal(t, "When was the head gasket replaced?", synth.question)
}

func TestAskNoMatches(t *testing.T) {
	uc := NewSearchUsecase(&stubResearchRepo{}, nil, &stubSynthesizer{}, logger.NewLogger(), 2000, 5)

	answer, err := uc.Ask(context.Background(), "car1", "anything?")

	require.NoError(t, err)
	assert.Empty(t, answer.Sources)
	assert.NotEmpty(t, answer.Text)
}
