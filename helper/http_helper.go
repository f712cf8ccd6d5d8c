package helper

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"lms-backoffice/models"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	"gorm.io/gorm"
)

const (
	textError = `error`
	textOk    = `ok`

	codeSuccess         = 200
	codeBadRequest      = 400
	codeUnauthorized    = 401
	codeForbidden       = 403
	codeNotFound        = 404
	codeConflict        = 409
	codeUnprocessable   = 422
	codeValidationError = 422
)

// ResponseHelper carries one response envelope.
type ResponseHelper struct {
	C        *gin.Context
	Status   string
	Message  string
	Data     interface{}
	Code     int
	CodeType string
}

// HTTPHelper renders JSON responses and translated validation errors.
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// SetResponse sets response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int, codeType string) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType}
}

// SendError sends an error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, message string, data interface{}, code int, codeType string) error {
	res := u.SetResponse(c, textError, message, data, code, codeType)
	return u.SendResponse(res)
}

// SendBadRequest sends a bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeBadRequest, `badRequest`)
}

// SendUnauthorizedError sends an unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeUnauthorized, `unAuthorized`)
}

// SendForbiddenError sends a forbidden response to consumers.
func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeForbidden, `forbidden`)
}

// SendNotFoundError sends a not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeNotFound, `notFound`)
}

// SendValidationError sends translated field validation errors to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
		"code":         codeValidationError,
		"code_type":    "validationError",
		"code_message": errorResponse,
		"data":         u.EmptyJsonMap(),
	})
	return nil
}

// SendSuccess sends a success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeSuccess, `success`)
	return u.SendResponse(res)
}

// SendDomainError maps the document engine's typed errors onto HTTP
// responses. Unrecognized errors are reported as internal failures without
// leaking detail.
func (u *HTTPHelper) SendDomainError(c *gin.Context, err error) error {
	var transitionErr *models.InvalidTransitionError
	var integrityErr *models.IntegrityMismatchError

	switch {
	case errors.Is(err, models.ErrDocumentNotFound),
		errors.Is(err, models.ErrVersionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return u.SendError(c, err.Error(), u.EmptyJsonMap(), codeNotFound, `notFound`)
	case errors.Is(err, models.ErrMissingChangeLog),
		errors.Is(err, models.ErrCrossDocumentComparison):
		return u.SendError(c, err.Error(), u.EmptyJsonMap(), codeBadRequest, `badRequest`)
	case errors.Is(err, models.ErrCurrentVersionProtected),
		errors.Is(err, models.ErrNoCurrentVersion):
		return u.SendError(c, err.Error(), u.EmptyJsonMap(), codeConflict, `conflict`)
	case errors.Is(err, models.ErrForbidden):
		return u.SendError(c, err.Error(), u.EmptyJsonMap(), codeForbidden, `forbidden`)
	case errors.Is(err, models.ErrInvalidCredentials):
		return u.SendError(c, err.Error(), u.EmptyJsonMap(), codeUnauthorized, `unAuthorized`)
	case errors.As(err, &transitionErr):
		return u.SendError(c, transitionErr.Error(), map[string]interface{}{
			"from": transitionErr.From,
			"to":   transitionErr.To,
		}, codeUnprocessable, `invalidTransition`)
	case errors.As(err, &integrityErr):
		return u.SendError(c, integrityErr.Error(), map[string]interface{}{
			"expected": integrityErr.Expected,
			"actual":   integrityErr.Actual,
		}, codeConflict, `integrityMismatch`)
	default:
		return u.SendError(c, "internal server error", u.EmptyJsonMap(), http.StatusInternalServerError, `internalError`)
	}
}

// SendResponse sends the response envelope, deriving the HTTP status from
// the envelope code.
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}

	resCode := http.StatusOK
	switch res.Code {
	case codeBadRequest:
		resCode = http.StatusBadRequest
	case codeUnauthorized:
		resCode = http.StatusUnauthorized
	case codeForbidden:
		resCode = http.StatusForbidden
	case codeNotFound:
		resCode = http.StatusNotFound
	case codeConflict:
		resCode = http.StatusConflict
	case codeUnprocessable:
		resCode = http.StatusUnprocessableEntity
	case http.StatusInternalServerError:
		resCode = http.StatusInternalServerError
	}

	res.C.JSON(resCode, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// Underscore converts a StructField name to snake_case for error keys.
func Underscore(s string) string {
	var out []rune
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			out = append(out, r+('a'-'A'))
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}

// GetPagingUrl builds the pagination URL for one page.
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path + "?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
}

// GeneratePaging builds the pagination block of a list response.
func (u *HTTPHelper) GeneratePaging(c *gin.Context, limit, page, totalRecord int) map[string]interface{} {
	prevURL, nextURL, firstURL, lastURL := "", "", "", ""

	totalPages := int(math.Ceil(float64(totalRecord) / float64(limit)))

	if page > 1 && totalPages >= page {
		prevURL = u.GetPagingUrl(c, page-1, limit)
		firstURL = u.GetPagingUrl(c, 1, limit)
	}
	if totalPages > page {
		nextURL = u.GetPagingUrl(c, page+1, limit)
	}
	if totalPages >= page && totalPages != page {
		lastURL = u.GetPagingUrl(c, totalPages, limit)
	}

	links := map[string]interface{}{
		"previous": prevURL,
		"next":     nextURL,
		"first":    firstURL,
		"last":     lastURL,
	}

	return map[string]interface{}{
		"total_records": totalRecord,
		"per_page":      limit,
		"current_page":  page,
		"total_pages":   totalPages,
		"links":         links,
	}
}

// Slugify derives a URL-safe slug from a title.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
