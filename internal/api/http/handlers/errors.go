package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/streamlog/broker/internal/api/validation"
	"github.com/streamlog/broker/internal/storage"
	"github.com/streamlog/broker/internal/storage/log"
	"github.com/streamlog/broker/internal/storage/schema"
)

// ErrorResponse is the JSON body for failed requests
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Failed to encode response, but we've already written the status code
		return
	}
}

// writeError writes an error response based on the error type
func writeError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError

	switch err.(type) {
	case log.OffsetOutOfRangeError:
		statusCode = http.StatusNotFound
	case log.OffsetNotFoundError:
		statusCode = http.StatusNotFound
	case storage.TopicNotFoundError:
		statusCode = http.StatusNotFound
	case schema.SchemaNotFoundError:
		statusCode = http.StatusNotFound
	case validation.TopicNameError:
		statusCode = http.StatusBadRequest
	case schema.InvalidSchemaError:
		statusCode = http.StatusBadRequest
	case schema.SchemaValidationError:
		statusCode = http.StatusBadRequest
	case log.FrameTooLargeError:
		statusCode = http.StatusBadRequest
	}

	writeJSON(w, statusCode, ErrorResponse{
		Status:  "error",
		Message: err.Error(),
	})
}
