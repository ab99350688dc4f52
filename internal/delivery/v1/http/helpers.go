package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrEmptySearchTerm):
		return http.StatusBadRequest, e.ErrEmptySearchTerm.Error()
	case errors.Is(err, e.ErrInvalidConversionValue):
		return http.StatusBadRequest, e.ErrInvalidConversionValue.Error()
	case errors.Is(err, e.ErrProductIDRequired):
		return http.StatusBadRequest, e.ErrProductIDRequired.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrRepositoryUnavailable):
		return http.StatusServiceUnavailable, e.ErrRepositoryUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleError логирует ошибку с уровнем по коду ответа и пишет ответ.
func handleError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%d %s %s", code, r.Method, r.URL.Path)
	} else {
		log.Warnf("%d %s %s: %v", code, r.Method, r.URL.Path, err)
	}

	WriteError(w, err)
}

// decodeJSON читает тело запроса и проверяет теги validate.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %w", e.ErrStatusBadRequest, err)
	}

	if err := validate.Struct(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

// parsePage читает limit и offset. Нечисловые и отрицательные значения заменяются значениями по умолчанию.
func parsePage(r *http.Request) usecase.Page {
	return usecase.NewPage(queryInt(r, "limit"), queryInt(r, "offset"))
}

// queryInt возвращает целое из query-строки или 0.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}

	return n
}

// queryDecimal разбирает неотрицательное десятичное число; пустое значение даёт nil.
func queryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, e.Wrap(fmt.Sprintf("invalid %s: %q", key, raw), e.ErrStatusBadRequest)
	}

	return &d, nil
}

// queryList разбирает значения через запятую и повторяющиеся параметры.
func queryList(r *http.Request, key string) []string {
	out := make([]string, 0)
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}

// readOptions: клиент может попросить свежие данные заголовком Cache-Control: no-cache или ?fresh=true.
func readOptions(r *http.Request) usecase.ReadOptions {
	fresh, _ := strconv.ParseBool(r.URL.Query().Get("fresh"))

	return usecase.ReadOptions{
		BypassCache: fresh || strings.Contains(strings.ToLower(r.Header.Get("Cache-Control")), "no-cache"),
	}
}
