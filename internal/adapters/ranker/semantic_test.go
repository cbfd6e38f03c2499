package ranker

import (
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/ps08022009/Know-Your-Bill/internal/domain"
	openai "github.com/ps08022009/Know-Your-Bill/internal/infra/openai"
)

// fakeEmbedder returns fixed vectors: the query vector first, then one vector
// per bill text, in input order.
type fakeEmbedder struct {
	vectors [][]float64
	calls   int
}

func (f *fakeEmbedder) CreateEmbeddings(_ context.Context, req openai.EmbeddingRequest) (openai.EmbeddingResponse, error) {
	f.calls++
	data := make([]openai.EmbeddingData, len(req.Input))
	for i := range req.Input {
		data[i] = openai.EmbeddingData{Index: i, Embedding: f.vectors[i]}
	}
	return openai.EmbeddingResponse{Data: data}, nil
}

// vectorsForSimilarities builds a query vector plus bill vectors whose cosine
// similarity to the query equals the given values.
func vectorsForSimilarities(sims ...float64) [][]float64 {
	vecs := [][]float64{{1, 0}}
	for _, s := range sims {
		vecs = append(vecs, []float64{s, math.Sqrt(1 - s*s)})
	}
	return vecs
}

func billFixtures(n int) []domain.BillSummary {
	bills := make([]domain.BillSummary, n)
	for i := range bills {
		bills[i] = domain.BillSummary{Number: strconv.Itoa(i + 1), Title: "bill", Description: "text"}
	}
	return bills
}

func TestRankEmptyCandidatesSkipsEmbedding(t *testing.T) {
	emb := &fakeEmbedder{}
	r := NewSemantic(emb, "test-model")
	ranked, err := r.Rank(context.Background(), "education", nil, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected empty result, got %d", len(ranked))
	}
	if emb.calls != 0 {
		t.Fatalf("expected no embedding call for empty candidates")
	}
}

func TestRankFiltersBelowFallbackThreshold(t *testing.T) {
	emb := &fakeEmbedder{vectors: vectorsForSimilarities(0.9, 0.2, 0.05)}
	r := NewSemantic(emb, "test-model")
	ranked, err := r.Rank(context.Background(), "query", billFixtures(3), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(ranked))
	}
	if math.Abs(ranked[0].Score-0.9) > 1e-9 || math.Abs(ranked[1].Score-0.2) > 1e-9 {
		t.Fatalf("expected scores 0.9 and 0.2, got %v and %v", ranked[0].Score, ranked[1].Score)
	}
	if ranked[0].Bill.Number != "1" || ranked[1].Bill.Number != "2" {
		t.Fatalf("expected bills 1 and 2, got %s and %s", ranked[0].Bill.Number, ranked[1].Bill.Number)
	}
}

func TestRankFallbackTierToppedUp(t *testing.T) {
	// Two bills clear the primary threshold, four only the fallback one.
	emb := &fakeEmbedder{vectors: vectorsForSimilarities(0.5, 0.12, 0.13, 0.4, 0.11, 0.14)}
	r := NewSemantic(emb, "test-model")
	ranked, err := r.Rank(context.Background(), "query", billFixtures(6), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 6 {
		t.Fatalf("expected 6 bills, got %d", len(ranked))
	}
	// Primary bills first, descending by score.
	if ranked[0].Score != 0.5 || ranked[1].Score != 0.4 {
		t.Fatalf("expected primary tier 0.5, 0.4 first, got %v, %v", ranked[0].Score, ranked[1].Score)
	}
	// Fallback bills follow in descending similarity as well (selection order).
	for i := 2; i < 5; i++ {
		if ranked[i].Score < ranked[i+1].Score {
			t.Fatalf("fallback tier out of order at %d: %v < %v", i, ranked[i].Score, ranked[i+1].Score)
		}
	}
}

func TestRankFallbackCappedAtMax(t *testing.T) {
	sims := []float64{0.16, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12}
	emb := &fakeEmbedder{vectors: vectorsForSimilarities(sims...)}
	r := NewSemantic(emb, "test-model")
	ranked, err := r.Rank(context.Background(), "query", billFixtures(len(sims)), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != maxResults {
		t.Fatalf("expected cap of %d bills, got %d", maxResults, len(ranked))
	}
}

func TestRankRespectsTopK(t *testing.T) {
	sims := []float64{0.9, 0.8, 0.7, 0.6, 0.5}
	emb := &fakeEmbedder{vectors: vectorsForSimilarities(sims...)}
	r := NewSemantic(emb, "test-model")
	ranked, err := r.Rank(context.Background(), "query", billFixtures(len(sims)), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected top_k=3 bills, got %d", len(ranked))
	}
}

func TestRankTieBreaksByFetchOrder(t *testing.T) {
	sims := []float64{0.3, 0.3, 0.3}
	emb := &fakeEmbedder{vectors: vectorsForSimilarities(sims...)}
	r := NewSemantic(emb, "test-model")
	ranked, err := r.Rank(context.Background(), "query", billFixtures(len(sims)), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"1", "2", "3"} {
		if ranked[i].Bill.Number != want {
			t.Fatalf("expected fetch order preserved on ties, position %d got %s", i, ranked[i].Bill.Number)
		}
	}
}

func TestCosine(t *testing.T) {
	if got := Cosine([]float64{1, 0}, []float64{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := Cosine([]float64{1, 0}, []float64{0, 1}); math.Abs(got) > 1e-9 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Cosine([]float64{1, 0}, []float64{0, 0}); got != 0 {
		t.Fatalf("expected 0 for zero vector, got %v", got)
	}
	if got := Cosine([]float64{1, 0}, []float64{1}); got != 0 {
		t.Fatalf("expected 0 for mismatched dims, got %v", got)
	}
}
