package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/pageza/fridgechef/backend/internal/model"
	pgvector "github.com/pgvector/pgvector-go"
)

// embeddingDims must match the vector column in the recipe_favorites table.
const embeddingDims = 3

// GenerateEmbedding hashes the lowercased words of text into a unit vector.
// Word order, case and punctuation do not affect the result. Text without
// words yields the zero vector.
func GenerateEmbedding(text string) pgvector.Vector {
	vec := make([]float32, embeddingDims)
	for _, word := range searchWords(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		sum := h.Sum32()
		weight := float32(1)
		if sum&0x80000000 != 0 {
			weight = -1
		}
		vec[sum%embeddingDims] += weight
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return pgvector.NewVector(vec)
}

// RecipeEmbedding embeds the name, description and ingredients of a recipe.
func RecipeEmbedding(r model.Recipe) pgvector.Vector {
	parts := append([]string{r.Name, r.Description}, r.Ingredients...)
	return GenerateEmbedding(strings.Join(parts, " "))
}

func searchWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
