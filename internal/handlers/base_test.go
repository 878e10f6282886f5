package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"sharestuff/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{services.ErrNotAuthenticated, http.StatusUnauthorized},
		{services.ErrMissingIdentity, http.StatusUnauthorized},
		{services.ErrNotAuthorized, http.StatusForbidden},
		{services.ErrPostNotFound, http.StatusNotFound},
		{services.ErrUsernameTaken, http.StatusConflict},
		{services.ErrSelfLike, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", services.ErrPostNotFound), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, statusOf(tc.err), tc.err.Error())
	}
}

func TestMessageOfHidesUnexpected(t *testing.T) {
	assert.Equal(t, genericErrorMessage, messageOf(errors.New("pq: relation does not exist")))
	assert.Equal(t, "You cannot like your own post.", messageOf(services.ErrSelfLike))
}
