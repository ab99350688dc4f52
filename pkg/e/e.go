package e

import "fmt"

var (
	// Ошибки каталога
	ErrCategoryLoad          = fmt.Errorf("category source could not be loaded")
	ErrUnknownCategory       = fmt.Errorf("unknown category")
	ErrRepositoryUnavailable = fmt.Errorf("repository unavailable")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest       = fmt.Errorf("bad request")
	ErrEmptySearchTerm        = fmt.Errorf("search term is required")
	ErrInvalidConversionValue = fmt.Errorf("order value must be a non-negative number")
	ErrProductIDRequired      = fmt.Errorf("product id is required")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
