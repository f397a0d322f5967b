package transaction

import (
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/fintrack-server/internal/auth"
)

const (
	testSecret   = "transaction-handler-test-secret-0123456789"
	testAudience = "authenticated"
)

func authMiddleware(api huma.API) func(huma.Context, func(huma.Context)) {
	return auth.Middleware(api, auth.NewJWTAuthenticator(testSecret, testAudience))
}

// bearer returns a humatest header argument authenticating as userID.
func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, testAudience, userID, time.Hour)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}
