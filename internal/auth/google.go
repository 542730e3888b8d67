// Package auth offers Google sign-in for accounts that already exist and have
// a verified email. It never creates users: registration always goes through
// the OTP flow so every account carries a role.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/errs"
	"interviewhub/internal/shared/server/respond"
	"interviewhub/internal/shared/telemetry"
	"interviewhub/internal/users"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Accounts resolves a provider-verified email to a signed-in account.
type Accounts interface {
	SignInVerified(ctx context.Context, email string) (users.User, sharedauth.TokenPair, error)
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UIRedirect   string
}

// GoogleService handles the OAuth code flow.
type GoogleService struct {
	accounts    Accounts
	oauthConfig *oauth2.Config
	uiRedirect  string
	userInfoURL string
	stateTTL    time.Duration
	stateStore  *stateStore
}

func NewGoogleService(cfg GoogleConfig, accounts Accounts) *GoogleService {
	return &GoogleService{
		accounts: accounts,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect:  cfg.UIRedirect,
		userInfoURL: googleUserInfoURL,
		stateTTL:    5 * time.Minute,
		stateStore:  newStateStore(),
	}
}

// Configured reports whether client credentials are present.
func (s *GoogleService) Configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.Configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google sign-in is not configured", nil)
		return
	}
	state := uuid.NewString()
	s.stateStore.put(state, time.Now().Add(s.stateTTL))
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state))
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.BadRequest(c, "missing state or code")
		return
	}
	if !s.stateStore.consume(state) {
		respond.BadRequest(c, "invalid or expired state")
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.BadRequest(c, "failed to exchange code")
		return
	}
	info, err := s.fetchUserInfo(ctx, s.oauthConfig.Client(ctx, token))
	if err != nil {
		telemetry.Warn("auth.google.userinfo_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch Google profile", nil)
		return
	}
	s.finish(c, info)
}

// finish signs the account in and sends the browser back to the UI.
func (s *GoogleService) finish(c *gin.Context, info googleUserInfo) {
	if info.Email == "" || !info.VerifiedEmail {
		s.redirect(c, url.Values{"error": {"email_not_verified"}})
		return
	}
	user, pair, err := s.accounts.SignInVerified(c.Request.Context(), info.Email)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		s.redirect(c, url.Values{"error": {"account_not_found"}})
		return
	case errors.Is(err, users.ErrEmailNotVerified):
		s.redirect(c, url.Values{"error": {"email_not_verified"}, "email": {info.Email}})
		return
	case err != nil:
		respond.Err(c, err)
		return
	}
	telemetry.Info("auth.google.signed_in", map[string]any{"user_id": user.ID, "role": string(user.Role)})
	s.redirect(c, url.Values{"token": {pair.AccessToken}, "refreshToken": {pair.RefreshToken}})
}

func (s *GoogleService) redirect(c *gin.Context, params url.Values) {
	target, err := withQuery(s.uiRedirect, params)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to redirect", nil)
		return
	}
	c.Redirect(http.StatusFound, target)
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, client *http.Client) (googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	return info, nil
}

type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, v := range s.items {
		if now.After(v) {
			delete(s.items, k)
		}
	}
	s.items[state] = exp
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	return ok && !time.Now().After(exp)
}

func withQuery(rawURL string, params url.Values) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
