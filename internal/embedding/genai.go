package embedding

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GenAI generates embeddings with the Gemini API.
type GenAI struct {
	client   *genai.Client
	model    string
	taskType string
}

// NewGenAI creates a GenAI engine. The API key is required.
func NewGenAI(apiKey, model, taskType string) (*GenAI, error) {
	if apiKey == "" {
		return nil, errors.New("genai: API key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: creating client: %w", err)
	}

	return &GenAI{
		client:   client,
		model:    model,
		taskType: parseTaskType(taskType),
	}, nil
}

func parseTaskType(s string) string {
	switch s {
	case "CLASSIFICATION", "CLUSTERING", "RETRIEVAL_QUERY", "RETRIEVAL_DOCUMENT", "SEMANTIC_SIMILARITY":
		return s
	default:
		return "SEMANTIC_SIMILARITY"
	}
}

// Embed generates an embedding for a single text.
func (g *GenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds all texts in a single request.
func (g *GenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	result, err := g.client.Models.EmbedContent(ctx, g.model, contents, &genai.EmbedContentConfig{
		TaskType: g.taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: embed failed: %w", err)
	}
	return embeddingValues(result, len(texts))
}

// embeddingValues unpacks one vector per requested text, rejecting short or
// partially empty responses.
func embeddingValues(result *genai.EmbedContentResponse, n int) ([][]float32, error) {
	if result == nil || len(result.Embeddings) != n {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, fmt.Errorf("genai: %w: got %d vectors for %d texts", ErrEmptyEmbedding, got, n)
	}

	out := make([][]float32, n)
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("genai: %w: text %d", ErrEmptyEmbedding, i)
		}
		out[i] = emb.Values
	}
	return out, nil
}

// Dimensions reports the default output size of gemini-embedding-001.
func (g *GenAI) Dimensions() int { return 3072 }

// Name returns the engine name.
func (g *GenAI) Name() string { return "genai:" + g.model }
