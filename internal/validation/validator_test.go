package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/ohmyreads/ohmyreads-server/internal/errors"
	"github.com/ohmyreads/ohmyreads-server/internal/validation"
)

type goalsRequest struct {
	PagesPerDay  int `json:"pages_per_day" validate:"gt=0,lte=10000"`
	BooksPerYear int `json:"books_per_year" validate:"gt=0,lte=1000"`
}

type shelfRequest struct {
	BookID string `json:"book_id" validate:"required,max=128"`
	Status string `json:"status" validate:"shelf_status"`
}

type moderateRequest struct {
	Verdict string `json:"verdict" validate:"review_verdict"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(goalsRequest{PagesPerDay: 30, BooksPerYear: 12}))
	assert.NoError(t, v.Validate(shelfRequest{BookID: "OL1W", Status: "reading"}))
	assert.NoError(t, v.Validate(moderateRequest{Verdict: "approved"}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{"zero pages", goalsRequest{PagesPerDay: 0, BooksPerYear: 12}, "pages_per_day", "must be greater than 0"},
		{"negative books", goalsRequest{PagesPerDay: 1, BooksPerYear: -3}, "books_per_year", "must be greater than 0"},
		{"missing book", shelfRequest{Status: "reading"}, "book_id", "is required"},
		{"unknown status", shelfRequest{BookID: "x", Status: "borrowed"}, "status", "must be one of: want_to_read reading finished dnf"},
		{"pending verdict", moderateRequest{Verdict: "pending"}, "verdict", "must be one of: approved rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("pages", 5, "gt=0"))

	err := v.Var("pages", 0, "gt=0")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	err = v.Var("rating", 9, "min=1,max=5")
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, map[string]string{"rating": "must not exceed 5"}, domainErr.Details)
}
