package book

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bookcatalog/internal/httpx"
)

// adminTokenHeader carries the admin token on POST /api/v1/admin.
const adminTokenHeader = "X-Admin-Token"

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// RegisterRoutes mounts the catalog routes on mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/books", h.List)
	mux.HandleFunc("GET /api/v1/books/find", h.FindExternal)
	mux.HandleFunc("GET /api/v1/books/{id}", h.Get)
	mux.HandleFunc("POST /api/v1/books", h.Create)
	mux.HandleFunc("POST /api/v1/books/new", h.Create)
	mux.HandleFunc("PUT /api/v1/books/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/books/{id}", h.Delete)
	mux.HandleFunc("POST /api/v1/admin", h.CheckAdmin)
}

// List handles GET /api/v1/books
// @Summary List books
// @Description List every stored book as id, title, author and image
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, "list books", err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// Get handles GET /api/v1/books/{id}
// @Summary Get book by id
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/v1/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "get book", err)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

// FindExternal handles GET /api/v1/books/find
// @Summary Search Google Books
// @Description Search the external provider. Results are not stored.
// @Tags books
// @Produce json
// @Param title query string false "Title"
// @Param author query string false "Author"
// @Param isbn query string false "ISBN"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /api/v1/books/find [get]
func (h *HTTPHandler) FindExternal(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	books, err := h.service.FindExternal(r.Context(), ExternalQuery{
		Title:  query.Get("title"),
		Author: query.Get("author"),
		ISBN:   query.Get("isbn"),
	})
	if err != nil {
		writeError(w, r, "find external books", err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// Create handles POST /api/v1/books
// @Summary Create book
// @Description Store a book. A book with the same title, author and isbn is left untouched.
// @Tags books
// @Accept json
// @Produce json
// @Param book body Fields true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/v1/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var f Fields
	if !decodeFields(w, r, &f) {
		return
	}

	res, err := h.service.Create(r.Context(), f)
	if err != nil {
		writeError(w, r, "create book", err)
		return
	}
	httpx.JSONSuccessCreated(w, r, res)
}

// Update handles PUT /api/v1/books/{id}
// @Summary Update book
// @Tags books
// @Accept json
// @Param id path int true "Book ID"
// @Param book body Fields true "Book"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/v1/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var f Fields
	if !decodeFields(w, r, &f) {
		return
	}

	if err := h.service.Update(r.Context(), r.PathValue("id"), f); err != nil {
		writeError(w, r, "update book", err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Delete handles DELETE /api/v1/books/{id}
// @Summary Delete book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/v1/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, "delete book", err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]string{"message": "Book deleted"}, nil)
}

type adminRequest struct {
	Token string `json:"token"`
}

// CheckAdmin handles POST /api/v1/admin
// @Summary Check admin token
// @Description Compare the X-Admin-Token header, or a JSON token field, with the admin secret
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/v1/admin [post]
func (h *HTTPHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(adminTokenHeader)
	if token == "" && r.Body != nil && r.ContentLength != 0 {
		var req adminRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
			return
		}
		token = req.Token
	}

	httpx.JSONSuccess(w, r, map[string]bool{"admin": h.service.CheckAdminToken(token)}, nil)
}

func decodeFields(w http.ResponseWriter, r *http.Request, f *Fields) bool {
	if err := json.NewDecoder(r.Body).Decode(f); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return false
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return false
	}
	return true
}

// writeError maps err to a response. Store failures are logged and reported
// with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch StatusOf(err) {
	case StatusInvalidArgument:
		var verr *ValidationError
		if errors.As(err, &verr) {
			details := make([]httpx.ErrorDetail, len(verr.Fields))
			for i, f := range verr.Fields {
				details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
			}
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
	case StatusNotFound:
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case StatusConflict:
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "A book with this title, author and isbn already exists", nil)
	case StatusUpstreamUnavailable:
		log.Printf("%s failed: request_id=%s error=%v", op, httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "External book search is unavailable", nil)
	default:
		log.Printf("%s failed: request_id=%s error=%v", op, httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
