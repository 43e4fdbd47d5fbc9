package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки ядра сопоставления
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
	ErrDimensionMismatch  = fmt.Errorf("vector dimension mismatch")
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrNoImages             = fmt.Errorf("no image provided")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrCategoryRequired     = fmt.Errorf("category is required")
	ErrInvalidPagination    = fmt.Errorf("invalid pagination parameters")
	ErrInvalidUserID        = fmt.Errorf("invalid user id")
	ErrInvalidPrice         = fmt.Errorf("invalid price")

	// 413
	ErrFileTooLarge = fmt.Errorf("file too large")

	// 403 / 404
	ErrForbidden    = fmt.Errorf("not authorized to access this scan")
	ErrScanNotFound = fmt.Errorf("scan not found")

	// 429
	ErrTooManyRequests = fmt.Errorf("too many requests")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
