package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/refsync/internal/app"
	"github.com/MKhiriev/refsync/internal/service"
	"github.com/MKhiriev/refsync/models"
)

type errorResponse struct {
	status  int
	message string
}

var errorStatusMap = map[error]errorResponse{
	models.ErrUnknownEntityType:  {http.StatusBadRequest, app.MsgInvalidEntityType},
	service.ErrUnknownEntitySpec: {http.StatusBadRequest, app.MsgInvalidEntityType},
	ErrInvalidForceFlag:          {http.StatusBadRequest, app.MsgInvalidForceFlag},
	service.ErrCycleLock:         {http.StatusConflict, app.MsgSyncInProgress},
}

func responseFromError(err error) errorResponse {
	for target, resp := range errorStatusMap {
		if errors.Is(err, target) {
			return resp
		}
	}
	if service.KindOf(err) != service.KindUnknown {
		return errorResponse{http.StatusBadGateway, app.MsgSyncFailed}
	}
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}
