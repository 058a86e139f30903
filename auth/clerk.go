package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"erp-project/backend/logging"
	"erp-project/backend/utils"

	"github.com/sony/gobreaker"
)

// SessionVerifier turns a bearer token into a session.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (Session, error)
}

// ClerkClient verifies session tokens locally and, when a token carries no
// email claim, fetches the user's primary email from the users API.
type ClerkClient struct {
	keys       *utils.TokenKeys
	apiURL     string
	secretKey  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewClerkClient(keys *utils.TokenKeys, apiURL, secretKey string, httpClient *http.Client) *ClerkClient {
	if httpClient == nil {
		httpClient = utils.NewHTTPClient()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ClerkUsersAPI",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return &ClerkClient{
		keys:       keys,
		apiURL:     strings.TrimRight(apiURL, "/"),
		secretKey:  secretKey,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

func (c *ClerkClient) VerifySession(ctx context.Context, token string) (Session, error) {
	claims, err := utils.ParseSessionToken(token, c.keys)
	if err != nil {
		return Session{}, err
	}
	subject, _ := claims.GetSubject()
	session := Session{UserID: subject, Email: utils.EmailFromClaims(claims)}
	if session.Email != "" {
		return session, nil
	}
	if subject == "" {
		return Session{}, errors.New("token has neither an email nor a subject")
	}

	email, err := c.PrimaryEmail(ctx, subject)
	if err != nil {
		return Session{}, err
	}
	session.Email = email
	return session, nil
}

type clerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type clerkUser struct {
	ID                    string              `json:"id"`
	PrimaryEmailAddressID string              `json:"primary_email_address_id"`
	EmailAddresses        []clerkEmailAddress `json:"email_addresses"`
}

func (u clerkUser) primaryEmail() string {
	for _, addr := range u.EmailAddresses {
		if addr.ID == u.PrimaryEmailAddressID && addr.EmailAddress != "" {
			return addr.EmailAddress
		}
	}
	for _, addr := range u.EmailAddresses {
		if addr.EmailAddress != "" {
			return addr.EmailAddress
		}
	}
	return ""
}

// PrimaryEmail fetches the user record from the identity provider. The call
// is not retried.
func (c *ClerkClient) PrimaryEmail(ctx context.Context, userID string) (string, error) {
	if c.secretKey == "" {
		return "", errors.New("identity provider secret key is not configured")
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		endpoint := fmt.Sprintf("%s/users/%s", c.apiURL, url.PathEscape(userID))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.secretKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		var user clerkUser
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode identity provider user: %w", err)
		}
		return user, nil
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: IDP_USER_FETCH_FAILED, Description: Fetching user %s from identity provider failed: %v", userID, err)
		return "", err
	}

	email := result.(clerkUser).primaryEmail()
	if email == "" {
		return "", fmt.Errorf("identity provider user %s has no email address", userID)
	}
	return email, nil
}
