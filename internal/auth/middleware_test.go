package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository/repotest"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

type middlewareFixture struct {
	app       *fiber.App
	tokens    *TokenManager
	revoked   *repotest.Revocations
	requester *domain.Account
	tech      *domain.Account
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	ctx := context.Background()
	roster := repotest.NewRoster(domain.DefaultRoster()...)
	accounts := repotest.NewAccounts(roster)
	requester := &domain.Account{DisplayName: "Ana", Email: "ana@example.com", RosterCode: "FUNC001"}
	tech := &domain.Account{DisplayName: "Tom", Email: "tom@example.com", RosterCode: "TEC001"}
	require.NoError(t, accounts.Create(ctx, requester))
	require.NoError(t, accounts.Create(ctx, tech))

	tokens := NewTokenManager("secret", time.Minute)
	revoked := &repotest.Revocations{}
	mw := NewAuthMiddleware(tokens, accounts, revoked)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	whoami := func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("no principal")
		}
		return c.SendString(p.Account.Email)
	}
	app.Get("/any", mw.Handle, RequireAnyRole(), whoami)
	app.Get("/tech", mw.Handle, RequireRole(domain.RoleTechnician), whoami)
	app.Get("/open", RequireAnyRole(), whoami)

	return &middlewareFixture{app: app, tokens: tokens, revoked: revoked, requester: requester, tech: tech}
}

func (f *middlewareFixture) call(t *testing.T, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func (f *middlewareFixture) bearer(t *testing.T, account *domain.Account) (string, *domain.Session) {
	t.Helper()
	session, err := f.tokens.GenerateToken(account)
	require.NoError(t, err)
	return "Bearer " + session.Token, session
}

func TestAuthMiddlewareLoadsPrincipal(t *testing.T) {
	f := newMiddlewareFixture(t)
	header, _ := f.bearer(t, f.requester)

	status, body := f.call(t, "/any", header)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@example.com", body)
}

func TestAuthMiddlewareRejections(t *testing.T) {
	f := newMiddlewareFixture(t)
	valid, _ := f.bearer(t, f.requester)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"garbage token":  "Bearer not-a-jwt",
		"no token":       valid[:len("Bearer")],
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := f.call(t, "/any", header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "UNAUTHORIZED", body)
		})
	}

	status, _ := f.call(t, "/open", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddlewareRejectsUnknownAccount(t *testing.T) {
	f := newMiddlewareFixture(t)
	header, _ := f.bearer(t, &domain.Account{ID: 999, Role: domain.RoleTechnician})

	status, _ := f.call(t, "/any", header)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddlewareHonoursRevocation(t *testing.T) {
	f := newMiddlewareFixture(t)
	header, session := f.bearer(t, f.tech)

	status, _ := f.call(t, "/any", header)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, f.revoked.Revoke(context.Background(), session.ID, session.ExpiresAt))
	status, _ = f.call(t, "/any", header)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequireRole(t *testing.T) {
	f := newMiddlewareFixture(t)
	requesterHeader, _ := f.bearer(t, f.requester)
	techHeader, _ := f.bearer(t, f.tech)

	status, body := f.call(t, "/tech", requesterHeader)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body)

	status, body = f.call(t, "/tech", techHeader)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "tom@example.com", body)
}
