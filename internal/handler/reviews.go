package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/editionssen/bookstore/internal/models"
	"github.com/editionssen/bookstore/internal/services/validation"
	"github.com/editionssen/bookstore/internal/storage"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
)

func (h *Handler) GetBookReviews(res http.ResponseWriter, req *http.Request) {
	book, err := h.storage.GetBookBySlug(req.Context(), chi.URLParam(req, "slug"))
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusNotFound)
			return
		}

		zap.L().Info("error get book", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	reviews, err := h.storage.GetBookReviews(req.Context(), book.ID)
	if err != nil {
		zap.L().Info("error get book reviews", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(reviews) == 0 {
		res.WriteHeader(http.StatusNoContent)
		return
	}

	responseReviews := make(models.GetReviewsResponse, 0, len(reviews))
	for _, review := range reviews {
		responseReviews = append(responseReviews, models.ReviewResponse{
			Rating:    review.Rating,
			Title:     review.Title,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(res, http.StatusOK, responseReviews)
}

func (h *Handler) CreateReview(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	var requestModel models.CreateReviewRequest

	jsonDecoder := json.NewDecoder(req.Body)
	if err := jsonDecoder.Decode(&requestModel); err != nil {
		zap.L().Info("cannot decode request to json", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := validation.RatingValidate(requestModel.Rating); err != nil {
		zap.L().Info("rating validation failed", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	if requestModel.Title == "" {
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	book, err := h.storage.GetBookBySlug(req.Context(), chi.URLParam(req, "slug"))
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusNotFound)
			return
		}

		zap.L().Info("error get book", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	_, err = h.storage.CreateReview(req.Context(), entities.Review{
		BookID:  book.ID,
		UserID:  userID,
		Rating:  requestModel.Rating,
		Title:   requestModel.Title,
		Comment: requestModel.Comment,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			zap.L().Info("error review already exists", zap.Error(err))

			res.WriteHeader(http.StatusConflict)
			return
		}

		zap.L().Info("error create review", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusCreated)
}
