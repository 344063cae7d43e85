package handler

import (
	"errors"
	"net/http"

	"github.com/editionssen/bookstore/internal/models"
	"github.com/editionssen/bookstore/internal/storage"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
)

func (h *Handler) GetBooks(res http.ResponseWriter, req *http.Request) {
	filter := storage.BookFilter{
		CategorySlug: req.URL.Query().Get("category"),
		FeaturedOnly: req.URL.Query().Get("featured") != "",
		Query:        req.URL.Query().Get("q"),
	}

	books, err := h.storage.ListBooks(req.Context(), filter)
	if err != nil {
		zap.L().Info("error list books", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(books) == 0 {
		res.WriteHeader(http.StatusNoContent)
		return
	}

	responseBooks := make(models.GetBooksResponse, 0, len(books))
	for _, book := range books {
		responseBooks = append(responseBooks, bookResponse(book))
	}

	h.writeJSON(res, http.StatusOK, responseBooks)
}

func (h *Handler) GetBook(res http.ResponseWriter, req *http.Request) {
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

	h.writeJSON(res, http.StatusOK, bookResponse(book))
}

func (h *Handler) GetCategories(res http.ResponseWriter, req *http.Request) {
	categories, err := h.storage.ListCategories(req.Context())
	if err != nil {
		zap.L().Info("error list categories", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(categories) == 0 {
		res.WriteHeader(http.StatusNoContent)
		return
	}

	responseCategories := make(models.GetCategoriesResponse, 0, len(categories))
	for _, category := range categories {
		responseCategories = append(responseCategories, models.CategoryResponse{
			Name:        category.Name,
			Slug:        category.Slug,
			Description: category.Description,
		})
	}

	h.writeJSON(res, http.StatusOK, responseCategories)
}

func (h *Handler) GetCategory(res http.ResponseWriter, req *http.Request) {
	slug := chi.URLParam(req, "slug")

	category, err := h.storage.GetCategoryBySlug(req.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusNotFound)
			return
		}

		zap.L().Info("error get category", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	books, err := h.storage.ListBooks(req.Context(), storage.BookFilter{CategorySlug: slug})
	if err != nil {
		zap.L().Info("error list category books", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	response := models.CategoryDetailResponse{
		CategoryResponse: models.CategoryResponse{
			Name:        category.Name,
			Slug:        category.Slug,
			Description: category.Description,
		},
		Books: make(models.GetBooksResponse, 0, len(books)),
	}

	for _, book := range books {
		response.Books = append(response.Books, bookResponse(book))
	}

	h.writeJSON(res, http.StatusOK, response)
}
