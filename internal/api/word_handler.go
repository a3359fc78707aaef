package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/projection"
	"github.com/phrazzld/scry-vocab/internal/service"
)

// CorpusViews serves the projected views of the authoritative corpus.
type CorpusViews interface {
	ToLearn(ctx context.Context) []domain.VocabularyEntry
	Learned(ctx context.Context) []domain.VocabularyEntry
	Progress(ctx context.Context) projection.Progress
}

// WordHandler handles vocabulary HTTP requests
type WordHandler struct {
	views    CorpusViews
	learning service.LearningService
	logger   *slog.Logger
}

// NewWordHandler creates a new WordHandler
func NewWordHandler(views CorpusViews, learning service.LearningService, logger *slog.Logger) *WordHandler {
	if views == nil {
		panic("views cannot be nil")
	}
	if learning == nil {
		panic("learning service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WordHandler{
		views:    views,
		learning: learning,
		logger:   logger.With(slog.String("component", "word_handler")),
	}
}

// ToLearn handles GET /api/words/to-learn
func (h *WordHandler) ToLearn(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, wordsToResponse(h.views.ToLearn(r.Context())))
}

// Learned handles GET /api/words/learned
func (h *WordHandler) Learned(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, wordsToResponse(h.views.Learned(r.Context())))
}

// Progress handles GET /api/progress
func (h *WordHandler) Progress(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(h.views.Progress(r.Context())))
}

// MarkLearned handles POST /api/words/{word}/learned
func (h *WordHandler) MarkLearned(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	params := wordPathParams{Word: strings.TrimSpace(chi.URLParam(r, "word"))}
	if err := shared.ValidateRequest(params); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid word",
			domain.NewValidationError("word", err.Error(), domain.ErrValidation))
		return
	}

	result, err := h.learning.MarkLearned(r.Context(), params.Word)
	if err != nil {
		// The optimistic result of a failed write is never returned: the
		// client must not believe progress was saved.
		if errors.Is(err, service.ErrSnapshotWrite) {
			log.Warn("learned word not saved", slog.String("word", params.Word))
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MarkLearnedResponse{
		Word:    wordToResponse(*result.Entry),
		Changed: result.Changed,
	})
}
