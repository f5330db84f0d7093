package listeners

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse representa la estructura estándar de errores
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	Timestamp string      `json:"timestamp"`
	Path      string      `json:"path"`
	Method    string      `json:"method"`
	Message   string      `json:"message,omitempty"`
}

// ErrorDetail contiene los detalles del error
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Hint    string      `json:"hint,omitempty"`
}

// SuccessResponse representa la estructura estándar de respuestas exitosas
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Códigos de error estandarizados
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInternalServer  = "INTERNAL_SERVER_ERROR"
	ErrCodeDatabaseError   = "DATABASE_ERROR"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeOrdenNotFound   = "ORDEN_NOT_FOUND"
)

// RespondWithError envía una respuesta de error estandarizada
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}, hint string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message: message,
			Code:    errorCode,
			Details: details,
			Hint:    hint,
		},
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	})
}

// RespondWithSuccess envía una respuesta exitosa estandarizada
func RespondWithSuccess(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, SuccessResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// BadRequest - Error 400
func BadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, ErrCodeBadRequest, message, details,
		"Verifica que los parámetros de la solicitud sean correctos")
}

// ValidationError - Error de validación genérico
func ValidationError(c *gin.Context, field string, message string) {
	RespondWithError(c, http.StatusBadRequest, ErrCodeValidationError,
		"Error de validación",
		gin.H{
			"field":  field,
			"reason": message,
		},
		"Verifica que todos los campos requeridos estén presentes y sean del tipo correcto")
}

// OrdenNotFound - Error de negocio: no hay orden para el producto consultado
func OrdenNotFound(c *gin.Context, codigo string) {
	RespondWithError(c, http.StatusNotFound, ErrCodeOrdenNotFound,
		"No se encontró una orden para el producto",
		gin.H{
			"codigo": codigo,
			"reason": "El producto no tiene órdenes dentro del período filtrado",
		},
		"Verifica el código de producto o amplía los filtros de tiempo")
}

// DatabaseError - Error de base de datos
func DatabaseError(c *gin.Context, operation string, err error) {
	RespondWithError(c, http.StatusInternalServerError, ErrCodeDatabaseError,
		"Error de base de datos",
		gin.H{
			"operation": operation,
			"error":     err.Error(),
		},
		"Verifica la conectividad con la base de datos. Contacta al administrador si el error persiste")
}

// Success - Respuesta exitosa genérica
func Success(c *gin.Context, data interface{}, message string) {
	RespondWithSuccess(c, http.StatusOK, data, message)
}
