package clients

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/edustore/checkout-service/internal/domain/user"
	"github.com/edustore/checkout-service/internal/pkg/identity"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// AccountsClient resolves bearer tokens against the accounts service.
// Resolutions are cached per token so the middleware does not hit the
// upstream on every request.
type AccountsClient struct {
	http *httpClient

	mu    sync.Mutex
	cache map[string]cachedUser
	ttl   time.Duration
}

type cachedUser struct {
	user      user.User
	expiresAt time.Time
}

type accountResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func NewAccountsClient(baseURL string, timeout time.Duration, log *logger.Logger) *AccountsClient {
	return &AccountsClient{
		http:  newHTTPClient("accounts", baseURL, timeout, log),
		cache: make(map[string]cachedUser),
		ttl:   time.Minute,
	}
}

func (c *AccountsClient) Resolve(token string) (user.User, error) {
	c.mu.Lock()
	if cached, ok := c.cache[token]; ok && time.Now().Before(cached.expiresAt) {
		c.mu.Unlock()
		return cached.user, nil
	}
	c.mu.Unlock()

	ctx := identity.WithToken(context.Background(), token)

	var resp accountResponse
	if err := c.http.doJSON(ctx, http.MethodGet, "/users/me", nil, &resp); err != nil {
		return user.User{}, err
	}

	resolved := user.User{
		ID:    resp.ID,
		Name:  resp.Name,
		Email: resp.Email,
		Phone: resp.Phone,
	}

	c.mu.Lock()
	c.cache[token] = cachedUser{user: resolved, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return resolved, nil
}
