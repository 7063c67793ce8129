package validator

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidUUID accepts any RFC 4122 UUID in canonical form.
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Phone number validation, spaces and dashes ignored
func IsValidPhoneNumber(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	return phoneRegex.MatchString(phone)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// Employee code: 3-50 chars, A-Z, a-z, 0-9, -, _
var employeeCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,50}$`)

func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}

// Pagination normalizes page/limit in place, appending problems to errs.
func Pagination(page, limit *int, defaultLimit, maxLimit int, errs *ValidationErrors) {
	if *page < 0 {
		*errs = append(*errs, ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if *page == 0 {
		*page = 1
	}
	// Keeps (page-1)*limit inside int32 so offsets never wrap.
	if maxPage := math.MaxInt32 / maxLimit; *page > maxPage {
		*errs = append(*errs, ValidationError{
			Field:   "page",
			Message: "page must not exceed " + Itoa(maxPage),
		})
	}

	if *limit < 0 {
		*errs = append(*errs, ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if *limit == 0 {
		*limit = defaultLimit
	}
	if *limit > maxLimit {
		*errs = append(*errs, ValidationError{
			Field:   "limit",
			Message: "limit must not exceed " + Itoa(maxLimit),
		})
	}
}
