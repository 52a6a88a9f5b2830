package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codcrm/models"

	"github.com/stretchr/testify/assert"
)

func TestWriteErrorResponse(t *testing.T) {
	testCases := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"server error", models.ErrServerError, http.StatusInternalServerError},
		{"unauthorized", models.ErrUnautorized, http.StatusUnauthorized},
		{"bad request", models.ErrBadRequest, http.StatusBadRequest},
		{"not found", models.ErrNotFoundError, http.StatusNotFound},
		{"not allowed", models.ErrNotAllowed, http.StatusNotAcceptable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteErrorResponse(rec, tc.err)
			assert.Equal(t, tc.expectedCode, rec.Code)
		})
	}
}

func TestErrorHandleMiddlewareRecovers(t *testing.T) {
	h := &Handler{}
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	h.ErrorHandleMiddleware(panicking).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
