package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Failure codes surfaced to API callers. Every handler maps internal errors
// onto exactly one of these; partial success is never reported as success.
const (
	CodeOK                   = "ok"
	CodeStorageFailure       = "storage_failure"
	CodePersistenceFailure   = "persistence_failure"
	CodeNotFound             = "not_found"
	CodeAudioMissing         = "audio_missing"
	CodeValidationFailure    = "validation_failure"
	CodeTranscriptionFailure = "transcription_failure"
	CodeTranscriptionTimeout = "transcription_timeout"
)

type Body struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Code: CodeOK, Message: message, Data: data})
}

func Fail(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(statusOf(code), Body{Code: code, Message: message})
}

func statusOf(code string) int {
	switch code {
	case CodeNotFound, CodeAudioMissing:
		return http.StatusNotFound
	case CodeValidationFailure:
		return http.StatusBadRequest
	case CodeTranscriptionTimeout:
		return http.StatusGatewayTimeout
	case CodeTranscriptionFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
