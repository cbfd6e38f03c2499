package ranker

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
	openai "github.com/ps08022009/Know-Your-Bill/internal/infra/openai"
)

type embeddingClient interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequest) (openai.EmbeddingResponse, error)
}

// Inclusion policy: bills above primaryThreshold always make the cut; when
// fewer than minResults pass, the pool is topped up from bills above
// fallbackThreshold until maxResults.
const (
	primaryThreshold  = 0.15
	fallbackThreshold = 0.10
	minResults        = 6
	maxResults        = 8
)

// SemanticRanker scores bills against a query by embedding cosine similarity.
type SemanticRanker struct {
	client embeddingClient
	model  string
}

var _ domain.Ranker = (*SemanticRanker)(nil)

// NewSemantic creates the ranker.
func NewSemantic(client embeddingClient, model string) *SemanticRanker {
	return &SemanticRanker{client: client, model: model}
}

// Rank embeds the query and every candidate, keeps the topK most similar and
// applies the two-tier threshold. Bills above the primary threshold come first
// in descending score order; fallback bills follow in selection order.
func (r *SemanticRanker) Rank(ctx context.Context, query string, bills []domain.BillSummary, topK int) ([]domain.RankedBill, error) {
	if len(bills) == 0 {
		return nil, nil
	}

	inputs := make([]string, 0, len(bills)+1)
	inputs = append(inputs, query)
	for _, b := range bills {
		inputs = append(inputs, b.Title+" "+b.Description)
	}

	resp, err := r.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{Model: r.model, Input: inputs})
	if err != nil {
		return nil, fmt.Errorf("embed query and bills: %w", err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("embeddings: expected %d vectors, got %d", len(inputs), len(resp.Data))
	}

	queryVec := resp.Data[0].Embedding
	sims := make([]float64, len(bills))
	for i := range bills {
		sims[i] = Cosine(queryVec, resp.Data[i+1].Embedding)
	}

	// Stable sort keeps the fetch order for equal scores.
	order := make([]int, len(bills))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return sims[order[i]] > sims[order[j]] })
	if topK > 0 && len(order) > topK {
		order = order[:topK]
	}

	ranked := make([]domain.RankedBill, 0, len(order))
	taken := make(map[int]struct{}, len(order))
	for _, idx := range order {
		if sims[idx] > primaryThreshold {
			ranked = append(ranked, domain.RankedBill{Bill: bills[idx], Score: sims[idx]})
			taken[idx] = struct{}{}
		}
	}
	if len(ranked) < minResults {
		for _, idx := range order {
			if len(ranked) >= maxResults {
				break
			}
			if _, ok := taken[idx]; ok {
				continue
			}
			if sims[idx] > fallbackThreshold {
				ranked = append(ranked, domain.RankedBill{Bill: bills[idx], Score: sims[idx]})
				taken[idx] = struct{}{}
			}
		}
	}
	return ranked, nil
}

// Ready probes the embeddings endpoint with a trivial input.
func (r *SemanticRanker) Ready(ctx context.Context) error {
	_, err := r.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{Model: r.model, Input: []string{"test"}})
	return err
}

// Cosine computes the cosine similarity of two vectors. Mismatched or
// zero-norm vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
