package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const msgInternalError = "внутренняя ошибка сервера"

// Envelope единый формат ответа API:
//
//	{"error": false, "msg": "", "data": {...}}
//	{"error": true,  "msg": "причина", "data": null}
type Envelope struct {
	Error bool        `json:"error"`
	Msg   string      `json:"msg"`
	Data  interface{} `json:"data"`
}

var validate = validator.New()

// DecodeJSON декодирует тело запроса и валидирует его по validate-тегам
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return fmt.Errorf("validate request body: %w", validationErrs)
		}
		return fmt.Errorf("validate request body: %w", err)
	}

	return nil
}

// RespondJSON пишет успешный ответ в общем конверте
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, Envelope{Error: false, Data: data})
}

// RespondError пишет ответ с ошибкой и произвольным статусом
func RespondError(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, Envelope{Error: true, Msg: msg})
}

// RespondBadRequest пишет 400 с сообщением
func RespondBadRequest(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusBadRequest, msg)
}

// RespondNotFound пишет 404 с сообщением
func RespondNotFound(w http.ResponseWriter, msg string) {
	RespondError(w, http.StatusNotFound, msg)
}

// RespondInternalError пишет 500 со стандартным сообщением
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

func writeEnvelope(w http.ResponseWriter, status int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Ошибку кодирования уже не доставить клиенту - заголовки отправлены
	_ = json.NewEncoder(w).Encode(envelope)
}
