package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/student-realestate/internal/reqctx"
	"github.com/shinyyama/student-realestate/internal/service"
	"github.com/shinyyama/student-realestate/internal/storage"
	"go.uber.org/zap"
)

const (
	MsgInvalidListingID = "Invalid property ID format"
	MsgListingNotFound  = "Real estate property not found"
	MsgInvalidContactID = "Invalid contact ID format"
	MsgContactNotFound  = "Contact request not found"
	MsgDuplicateInquiry = "Contact request already sent. Please wait for a response."
	MsgInternal         = "Internal server error"
)

// failure describes how errors of one operation are reported.
type failure struct {
	invalidID string
	notFound  string
	internal  string
}

var (
	listingFailure = failure{invalidID: MsgInvalidListingID, notFound: MsgListingNotFound}
	contactFailure = failure{invalidID: MsgInvalidContactID, notFound: MsgContactNotFound}
)

func (f failure) with(internal string) failure {
	f.internal = internal
	return f
}

// respondError maps a service error to exactly one status and envelope.
// 500-class details are logged, never returned.
func respondError(c echo.Context, log *zap.Logger, f failure, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, NewErrorResponse(verr.Message))
	case errors.Is(err, storage.ErrUploadRejected):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("File upload error: "+storage.Reason(err)))
	case errors.Is(err, service.ErrInvalidID):
		return c.JSON(http.StatusBadRequest, NewErrorResponse(f.invalidID))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse(f.notFound))
	case errors.Is(err, service.ErrDuplicateInquiry):
		return c.JSON(http.StatusConflict, NewErrorResponse(MsgDuplicateInquiry))
	}

	log.Error("request failed",
		zap.String("rid", reqctx.RID(c.Request().Context())),
		zap.String("route", c.Path()),
		zap.Error(err),
	)
	msg := f.internal
	if msg == "" {
		msg = MsgInternal
	}
	return c.JSON(http.StatusInternalServerError, NewErrorResponse(msg))
}
