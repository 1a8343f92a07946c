package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/service"
	"github.com/foodshare/foodshare/internal/views"
)

const genericError = "Something went wrong. Please try again."

// statusFor maps a service error onto the HTTP status shown to the user.
func statusFor(err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// userMessage hides internal failures behind a generic line.
func userMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return genericError
	}
	return err.Error()
}

// base carries what every handler shares.
type base struct {
	logger *logrus.Logger
}

func (b base) logFailure(c *gin.Context, err error) {
	b.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("request failed")
}

// fail renders the error page for err.
func (b base) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		b.logFailure(c, err)
	}
	views.ErrorPage(c, status, userMessage(err))
}

// formFail re-renders page with err listed above the form when the user can
// fix it, and falls back to the error page otherwise.
func (b base) formFail(c *gin.Context, page string, err error, data gin.H) {
	status := statusFor(err)
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnauthorized:
	default:
		b.fail(c, err)
		return
	}
	data["Errors"] = []string{userMessage(err)}
	views.HTML(c, status, page, data)
}

// invalidForm re-renders page for a form that failed binding.
func (b base) invalidForm(c *gin.Context, page string, err error, data gin.H) {
	data["Errors"] = formMessages(err)
	views.HTML(c, http.StatusBadRequest, page, data)
}

// pathID parses a uuid route parameter, rendering 404 when it is malformed.
func (b base) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		views.ErrorPage(c, http.StatusNotFound, "Page not found")
		return uuid.Nil, false
	}
	return id, true
}

// formUpload reads the optional "image" file of a multipart form.
func formUpload(c *gin.Context) (*service.Upload, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return nil, &service.ValidationError{Field: "image", Message: "Image must be 5MB or smaller"}
	}
	if err != nil {
		return nil, &service.ValidationError{Field: "image", Message: "Image could not be read"}
	}
	if fh.Size > service.MaxImageSize {
		return nil, &service.ValidationError{Field: "image", Message: "Image must be 5MB or smaller"}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, &service.ValidationError{Field: "image", Message: "Image could not be read"}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageSize+1))
	if err != nil {
		return nil, &service.ValidationError{Field: "image", Message: "Image could not be read"}
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &service.Upload{Filename: fh.Filename, Data: data}, nil
}
