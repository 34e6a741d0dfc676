package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"motive-archive/internal/search/domain/model"
	"motive-archive/internal/search/domain/repository"
	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
)

// SearchUsecase exposes research ingestion and hybrid search
type SearchUsecase interface {
	Ingest(ctx context.Context, carID, filename, content string) (*model.ResearchFile, error)
	Search(ctx context.Context, carID, query string, topK int) ([]model.SearchResult, error)
	Ask(ctx context.Context, carID, question string) (*model.Answer, error)
	ListFiles(ctx context.Context, carID string) ([]*model.ResearchFile, error)
	DeleteFile(ctx context.Context, id string) error
}

type searchUsecase struct {
	files       repository.ResearchRepository
	embedder    repository.Embedder
	synthesizer repository.Synthesizer
	log         logger.Logger
	chunkSize   int
	defaultTopK int
}

// NewSearchUsecase creates the search usecase
func NewSearchUsecase(
	files repository.ResearchRepository,
	embedder repository.Embedder,
	synthesizer repository.Synthesizer,
	log logger.Logger,
	chunkSize, defaultTopK int,
) SearchUsecase {
	if chunkSize <= 0 {
		chunkSize = 2000
	}
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &searchUsecase{
		files:       files,
		embedder:    embedder,
		synthesizer: synthesizer,
		log:         log.WithComponent("search_usecase"),
		chunkSize:   chunkSize,
		defaultTopK: defaultTopK,
	}
}

// Ingest stores a research file with its averaged, unit-normalized
// chunk embedding
func (uc *searchUsecase) Ingest(ctx context.Context, carID, filename, content string) (*model.ResearchFile, error) {
	if carID == "" || filename == "" {
		return nil, apperrors.NewValidationError("carId and filename are required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("content is empty")
	}

	file := &model.ResearchFile{
		CarID:    carID,
		Filename: filename,
		Content:  content,
	}

	if uc.embedder != nil {
		chunks := ChunkText(content, uc.chunkSize)
		vectors, err := uc.embedder.Embed(ctx, chunks)
		if err != nil {
			return nil, err
		}
		file.Embedding = Normalize(Average(vectors))
	}

	if err := uc.files.Create(ctx, file); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Infof("Ingested research file %s for car %s (%d chars)",
		filename, carID, len(content))
	return file, nil
}

// Search runs the hybrid keyword plus vector search for a car
func (uc *searchUsecase) Search(ctx context.Context, carID, query string, topK int) ([]model.SearchResult, error) {
	if query == "" {
		return []model.SearchResult{}, nil
	}
	if topK <= 0 {
		topK = uc.defaultTopK
	}

	keyword, err := uc.files.KeywordSearch(ctx, carID, query, topK*4)
	if err != nil {
		return nil, err
	}

	var vector []model.SearchResult
	if uc.embedder != nil {
		vector, err = uc.vectorSearch(ctx, carID, query)
		if err != nil {
			// vector search degrades to keyword-only instead of failing
			uc.log.WithContext(ctx).Warnf("Vector search failed, keyword only: %v", err)
			vector = nil
		}
	}

	merged := MergeResults(normalizeKeywordScores(keyword), vector)
	if len(merged) > topK {
		merged = merged[:topK]
	}
	return merged, nil
}

// Ask synthesizes an answer over the top search results
func (uc *searchUsecase) Ask(ctx context.Context, carID, question string) (*model.Answer, error) {
	if uc.synthesizer == nil {
		return nil, apperrors.NewInfrastructureError("answer synthesis is not configured")
	}

	results, err := uc.Search(ctx, carID, question, uc.defaultTopK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &model.Answer{Text: "No research files matched the question.", Sources: []model.SearchResult{}}, nil
	}

	var block strings.Builder
	for i, res := range results {
		file, err := uc.files.GetByID(ctx, res.FileID)
		if err != nil || file == nil {
			continue
		}
		fmt.Fprintf(&block, "--- Excerpt %d (%s) ---\n%s\n\n", i+1, file.Filename, excerpt(file.Content, 4000))
	}

	text, err := uc.synthesizer.Synthesize(ctx, question, block.String())
	if err != nil {
		return nil, err
	}
	return &model.Answer{Text: text, Sources: results}, nil
}

func (uc *searchUsecase) ListFiles(ctx context.Context, carID string) ([]*model.ResearchFile, error) {
	return uc.files.ListByCar(ctx, carID)
}

func (uc *searchUsecase) DeleteFile(ctx context.Context, id string) error {
	return uc.files.Delete(ctx, id)
}

// vectorSearch embeds the query and scores every research file for the
// car by dot product. Embeddings are unit vectors, so the dot product
// is the cosine similarity.
func (uc *searchUsecase) vectorSearch(ctx context.Context, carID, query string) ([]model.SearchResult, error) {
	vectors, err := uc.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	queryVec := Normalize(vectors[0])

	files, err := uc.files.ListByCar(ctx, carID)
	if err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(files))
	for _, file := range files {
		if len(file.Embedding) == 0 {
			continue
		}
		results = append(results, model.SearchResult{
			FileID:   file.ID.Hex(),
			Filename: file.Filename,
			Score:    Dot(queryVec, file.Embedding),
			Snippet:  excerpt(file.Content, 240),
		})
	}
	return results, nil
}

// ChunkText splits text into chunks of roughly the given size,
// preferring paragraph boundaries
func ChunkText(text string, size int) []string {
	if size <= 0 {
		size = 2000
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}
	if len(text) <= size {
		return []string{text}
	}

	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, para := range paragraphs {
		// paragraphs larger than a whole chunk get hard-split
		for len(para) > size {
			flush()
			cut := size
			// back off to a rune boundary so a multibyte
			// character is never severed
			for cut > 0 && !utf8.RuneStart(para[cut]) {
				cut--
			}
			if cut == 0 {
				cut = size
			}
			chunks = append(chunks, strings.TrimSpace(para[:cut]))
			para = para[cut:]
		}
		if current.Len() > 0 && current.Len()+len(para)+2 > size {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}

// Average computes the component-wise mean of the vectors
func Average(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	avg := make([]float64, dim)
	for _, vec := range vectors {
		for i := 0; i < dim && i < len(vec); i++ {
			avg[i] += vec[i]
		}
	}
	for i := range avg {
		avg[i] /= float64(len(vectors))
	}
	return avg
}

// Normalize scales a vector to unit length
func Normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}

// Dot computes the dot product of two vectors
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// normalizeKeywordScores maps raw Mongo text scores to [0,1] by
// dividing by the maximum score in the set
func normalizeKeywordScores(results []*model.SearchResult) []model.SearchResult {
	if len(results) == 0 {
		return nil
	}
	max := results[0].Score
	for _, r := range results {
		if r.Score > max {
			max = r.Score
		}
	}

	out := make([]model.SearchResult, len(results))
	for i, r := range results {
		out[i] = *r
		if max > 0 {
			out[i].Score = r.Score / max
		}
	}
	return out
}

// MergeResults unions keyword and vector results by file ID. A file in
// both sets scores the average of its two scores; a file in one set
// keeps its single score. Output is sorted by score descending with
// file ID as the tiebreak so ordering is stable.
func MergeResults(keyword, vector []model.SearchResult) []model.SearchResult {
	type entry struct {
		result model.SearchResult
		both   bool
	}
	byID := make(map[string]*entry, len(keyword)+len(vector))

	for _, r := range keyword {
		r := r
		byID[r.FileID] = &entry{result: r}
	}
	for _, r := range vector {
		if e, ok := byID[r.FileID]; ok {
			e.result.Score = (e.result.Score + r.Score) / 2
			e.both = true
			if e.result.Snippet == "" {
				e.result.Snippet = r.Snippet
			}
		} else {
			r := r
			byID[r.FileID] = &entry{result: r}
		}
	}

	merged := make([]model.SearchResult, 0, len(byID))
	for _, e := range byID {
		merged = append(merged, e.result)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].FileID < merged[j].FileID
	})
	return merged
}

func excerpt(content string, max int) string {
	if len(content) <= max {
		return content
	}
	return content[:max] + "..."
}

var _ SearchUsecase = (*searchUsecase)(nil)
