package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/student-realestate/internal/model"
	"github.com/shinyyama/student-realestate/internal/service"
	"go.uber.org/zap"
)

type ContactHandler struct {
	svc service.ContactService
	log *zap.Logger
}

func NewContactHandler(svc service.ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, log: log}
}

type ContactResponse struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	University   string   `json:"university"`
	RealEstateID string   `json:"realEstateId"`
	Images       []string `json:"images"`
	Status       bool     `json:"status"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

type ContactWithListingResponse struct {
	ContactResponse
	RealEstateDetails *ListingResponse `json:"realEstateDetails"`
}

func (h *ContactHandler) Create(c echo.Context) error {
	// an invalid realEstateId on submission refers to a property
	f := failure{invalidID: MsgInvalidListingID, internal: "Failed to send contact request"}
	uploads, err := formUploads(c)
	if err != nil {
		return respondError(c, h.log, f, err)
	}
	in := service.ContactInput{
		Name:         c.FormValue("name"),
		Email:        c.FormValue("email"),
		University:   c.FormValue("university"),
		RealEstateID: c.FormValue("realEstateId"),
	}
	contact, err := h.svc.Create(c.Request().Context(), in, uploads)
	if err != nil {
		return respondError(c, h.log, f, err)
	}
	return c.JSON(http.StatusCreated, NewSuccessResponse("Contact request sent successfully", toContactResponse(contact)))
}

func (h *ContactHandler) List(c echo.Context) error {
	contacts, err := h.svc.ListWithListing(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, contactFailure.with("Failed to retrieve contact requests"), err)
	}
	out := make([]ContactWithListingResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, toContactWithListingResponse(&contacts[i]))
	}
	return c.JSON(http.StatusOK, NewSuccessResponse("Contact requests retrieved successfully", out))
}

func (h *ContactHandler) Get(c echo.Context) error {
	contact, err := h.svc.GetWithListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, contactFailure.with("Failed to retrieve contact request"), err)
	}
	return c.JSON(http.StatusOK, NewSuccessResponse("Contact request retrieved successfully", toContactWithListingResponse(contact)))
}

func (h *ContactHandler) SetStatus(c echo.Context) error {
	change, err := h.svc.SetStatus(c.Request().Context(), c.Param("id"), bindStatus(c))
	if err != nil {
		return respondError(c, h.log, contactFailure.with("Failed to update contact request status"), err)
	}
	return c.JSON(http.StatusOK, NewSuccessResponse("Contact request status updated successfully", change))
}

func (h *ContactHandler) Delete(c echo.Context) error {
	del, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, contactFailure.with("Failed to delete contact request"), err)
	}
	return c.JSON(http.StatusOK, NewSuccessResponse("Contact request deleted successfully", del))
}

func toContactResponse(ct *model.Contact) ContactResponse {
	images := ct.Images
	if images == nil {
		images = []string{}
	}
	return ContactResponse{
		ID:           ct.ID.Hex(),
		Name:         ct.Name,
		Email:        ct.Email,
		University:   ct.University,
		RealEstateID: ct.RealEstateID,
		Images:       images,
		Status:       ct.Status,
		CreatedAt:    ct.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:    ct.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func toContactWithListingResponse(ct *model.ContactWithListing) ContactWithListingResponse {
	resp := ContactWithListingResponse{ContactResponse: toContactResponse(&ct.Contact)}
	if ct.RealEstateDetails != nil {
		l := toListingResponse(ct.RealEstateDetails)
		resp.RealEstateDetails = &l
	}
	return resp
}
