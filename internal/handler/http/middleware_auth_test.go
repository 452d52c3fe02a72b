package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kheti-sahayak/logbook-sync/internal/service"
	"github.com/kheti-sahayak/logbook-sync/internal/utils"
	"github.com/kheti-sahayak/logbook-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		parseFn    func(ctx context.Context, tokenString string) (models.Token, error)
		wantStatus int
		wantUserID string
	}{
		{
			name:       "success: valid bearer token",
			authHeader: "Bearer good-token",
			parseFn: func(_ context.Context, tokenString string) (models.Token, error) {
				assert.Equal(t, "good-token", tokenString)
				return models.Token{UserID: "user-42"}, nil
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-42",
		},
		{
			name:       "error: missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "error: header without token",
			authHeader: "Bearer",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "error: empty token value",
			authHeader: "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "error: token rejected by auth service",
			authHeader: "Bearer expired-token",
			parseFn: func(_ context.Context, _ string) (models.Token, error) {
				return models.Token{}, service.ErrTokenIsExpiredOrInvalid
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&service.Services{
				AuthService: &mockAuthService{parseFn: tt.parseFn},
			})

			var gotUserID string
			var nextCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = utils.GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodGet, "/api/logbook", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			h.auth(next).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				require.True(t, nextCalled)
				assert.Equal(t, tt.wantUserID, gotUserID)
			} else {
				assert.False(t, nextCalled, "next handler must not run on rejected requests")
			}
		})
	}
}

func Test_getTokenFromAuthHeader(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		token, err := getTokenFromAuthHeader("Bearer abc.def.ghi")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("missing token part", func(t *testing.T) {
		_, err := getTokenFromAuthHeader("Bearer")
		assert.ErrorIs(t, err, ErrInvalidAuthorizationHeader)
	})

	t.Run("empty token part", func(t *testing.T) {
		_, err := getTokenFromAuthHeader("Bearer ")
		assert.ErrorIs(t, err, ErrEmptyToken)
	})
}
