package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const Path = "/api/health"

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        Path,
		Summary:     "Health check endpoint",
		Description: "Returns process and environment status. Responds 500 when the backend database is unreachable.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
