package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Per-word USD rates by language tier. The calculator is a plain
// multiplier formula; no real pricing engine sits behind it.
var languageTiers = map[string]float64{
	"spanish":    0.12,
	"french":     0.12,
	"german":     0.14,
	"portuguese": 0.12,
	"italian":    0.13,
	"dutch":      0.14,
	"japanese":   0.18,
	"chinese":    0.18,
	"korean":     0.18,
	"arabic":     0.16,
	"russian":    0.15,
}

const (
	defaultPerWordRate = 0.15
	rushMultiplier     = 1.5
	minimumCharge      = 45.0
)

type quoteRequest struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	WordCount       int      `json:"wordCount" binding:"required,min=1"`
	SourceLanguage  string   `json:"sourceLanguage" binding:"required"`
	TargetLanguages []string `json:"targetLanguages" binding:"required,min=1"`
	Rush            bool     `json:"rush"`
	Notes           string   `json:"notes"`
}

type quoteLine struct {
	Language string  `json:"language"`
	Rate     float64 `json:"ratePerWord"`
	Total    float64 `json:"total"`
}

// TranslationQuote estimates a translation price. Public and
// unauthenticated, which is why it carries the lower rate-limit budget.
func (h HandlerSet) TranslationQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]quoteLine, 0, len(req.TargetLanguages))
	var total float64
	for _, lang := range req.TargetLanguages {
		rate, ok := languageTiers[strings.ToLower(strings.TrimSpace(lang))]
		if !ok {
			rate = defaultPerWordRate
		}

		lineTotal := float64(req.WordCount) * rate
		if req.Rush {
			lineTotal *= rushMultiplier
		}
		lineTotal = math.Max(lineTotal, minimumCharge)
		lineTotal = math.Round(lineTotal*100) / 100

		lines = append(lines, quoteLine{
			Language: lang,
			Rate:     rate,
			Total:    lineTotal,
		})
		total += lineTotal
	}

	h.log.Info().
		Str("email", req.Email).
		Int("word_count", req.WordCount).
		Int("languages", len(req.TargetLanguages)).
		Bool("rush", req.Rush).
		Msg("translation quote requested")

	c.JSON(http.StatusOK, gin.H{
		"wordCount": req.WordCount,
		"rush":      req.Rush,
		"lines":     lines,
		"total":     math.Round(total*100) / 100,
		"currency":  "USD",
	})
}
