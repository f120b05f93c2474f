package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/student-realestate/internal/model"
	"github.com/shinyyama/student-realestate/internal/service"
	"go.uber.org/zap"
)

type ListingHandler struct {
	svc service.ListingService
	log *zap.Logger
}

func NewListingHandler(svc service.ListingService, log *zap.Logger) *ListingHandler {
	return &ListingHandler{svc: svc, log: log}
}

type ListingResponse struct {
	ID            string   `json:"_id"`
	UserEmail     string   `json:"userEmail"`
	Address       string   `json:"address"`
	PropertyType  string   `json:"propertyType"`
	Bedrooms      *int     `json:"bedrooms"`
	Bathrooms     *int     `json:"bathrooms"`
	SquareFootage *int     `json:"squareFootage"`
	Price         float64  `json:"price"`
	Description   string   `json:"description"`
	Images        []string `json:"images"`
	Status        bool     `json:"status"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

func (h *ListingHandler) Create(c echo.Context) error {
	f := listingFailure.with("Failed to save real estate property")
	uploads, err := formUploads(c)
	if err != nil {
		return respondError(c, h.log, f, err)
	}
	in := service.ListingInput{
		UserEmail:     c.FormValue("userEmail"),
		Address:       c.FormValue("address"),
		PropertyType:  c.FormValue("propertyType"),
		Bedrooms:      c.FormValue("bedrooms"),
		Bathrooms:     c.FormValue("bathrooms"),
		SquareFootage: c.FormValue("squareFootage"),
		Price:         c.FormValue("price"),
		Description:   c.FormValue("description"),
	}
	listing, err := h.svc.Create(c.Request().Context(), in, uploads)
	if err != nil {
		return respondError(c, h.log, f, err)
	}
	return c.JSON(http.StatusCreated, NewSuccessResponse("Real estate property added successfully", toListingResponse(listing)))
}

func (h *ListingHandler) ListAll(c echo.Context) error {
	listings, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, listingFailure.with("Failed to retrieve real estate properties"), err)
	}
	return c.JSON(http.StatusOK, NewSuccessResponse("Real estate properties retrieved successfully", toListingResponses(listings)))
}

func (h *ListingHandler) ListActive(c echo.Context) error {
	listings, err := h.svc.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, listingFailure.with("Failed to retrieve active real estate properties"), err)
	}
	return c.JSON(http.StatusOK, NewSuccessResponse("Active real estate properties retrieved successfully", toListingResponses(listings)))
}

func (h *ListingHandler) Get(c echo.Context) error {
	listing, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, listingFailure.with("Failed to retrieve real estate property"), err)
	}
	return c.JSON(http.StatusOK, NewSuccessResponse("Real estate property retrieved successfully", toListingResponse(listing)))
}

func (h *ListingHandler) SetStatus(c echo.Context) error {
	change, err := h.svc.SetStatus(c.Request().Context(), c.Param("id"), bindStatus(c))
	if err != nil {
		return respondError(c, h.log, listingFailure.with("Failed to update real estate property status"), err)
	}
	return c.JSON(http.StatusOK, NewSuccessResponse("Real estate property status updated successfully", change))
}

func (h *ListingHandler) Delete(c echo.Context) error {
	del, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, listingFailure.with("Failed to delete real estate property"), err)
	}
	return c.JSON(http.StatusOK, NewSuccessResponse("Real estate property deleted successfully", del))
}

func toListingResponse(l *model.Listing) ListingResponse {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return ListingResponse{
		ID:            l.ID.Hex(),
		UserEmail:     l.UserEmail,
		Address:       l.Address,
		PropertyType:  l.PropertyType,
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		SquareFootage: l.SquareFootage,
		Price:         l.Price,
		Description:   l.Description,
		Images:        images,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:     l.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func toListingResponses(listings []model.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, toListingResponse(&listings[i]))
	}
	return out
}
