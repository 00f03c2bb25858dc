package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"okrhub_backend/internals/configs"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

var (
	ErrInvalidGraphToken = errors.New("invalid or expired Microsoft Graph token")
	ErrGraphUnavailable  = errors.New("Microsoft Graph request failed")
)

var graphClient = &http.Client{Timeout: 10 * time.Second}

// GraphUser is the subset of the Graph user resource the app cares about.
type GraphUser struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	GivenName         string `json:"givenName"`
	Surname           string `json:"surname"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	Department        string `json:"department"`
	JobTitle          string `json:"jobTitle"`
}

func (u *GraphUser) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// GraphTokenResponse is the token endpoint payload for the refresh grant.
type GraphTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// ValidateTeamsToken calls Graph /me with the client-supplied token. A valid
// token yields the full user resource; 401 means the token is bad.
//
// In dev mode the literal token "development" short-circuits to a synthetic
// local user so the flow can be exercised without a tenant.
func ValidateTeamsToken(token string) (*GraphUser, []byte, error) {
	if configs.DevMode && token == "development" {
		user := &GraphUser{
			ID:                "dev-local-user",
			DisplayName:       "Dev User",
			Mail:              "dev@localhost",
			UserPrincipalName: "dev@localhost",
			Department:        "Engineering",
			JobTitle:          "Developer",
		}
		raw, _ := json.Marshal(user)
		return user, raw, nil
	}

	raw, err := graphGet(graphBaseURL+"/me?$select=id,displayName,givenName,surname,mail,userPrincipalName,department,jobTitle", token)
	if err != nil {
		return nil, nil, err
	}
	var user GraphUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, nil, fmt.Errorf("decode graph user: %w", err)
	}
	if user.ID == "" {
		return nil, nil, ErrInvalidGraphToken
	}
	return &user, raw, nil
}

// GetManagerInfo resolves the directory manager of a user. Graph answers 404
// when the user has no manager assigned, which is a normal outcome.
func GetManagerInfo(userID, token string) (*GraphUser, error) {
	if configs.DevMode && token == "development" {
		return nil, nil
	}

	raw, err := graphGet(graphBaseURL+"/users/"+url.PathEscape(userID)+"/manager?$select=id,displayName,mail,userPrincipalName", token)
	if err != nil {
		if errors.Is(err, errGraphNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var manager GraphUser
	if err := json.Unmarshal(raw, &manager); err != nil {
		return nil, fmt.Errorf("decode graph manager: %w", err)
	}
	if manager.ID == "" {
		return nil, nil
	}
	return &manager, nil
}

// RefreshAccessToken exchanges a Microsoft refresh token for a new pair via
// the tenant token endpoint.
func RefreshAccessToken(refreshToken string) (*GraphTokenResponse, error) {
	endpoint := fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", configs.MSGraphTenantID)

	form := url.Values{}
	form.Set("client_id", configs.MSGraphClientID)
	form.Set("client_secret", configs.MSGraphSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("scope", "https://graph.microsoft.com/.default offline_access")

	resp, err := graphClient.PostForm(endpoint, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGraphUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrInvalidGraphToken
		}
		return nil, fmt.Errorf("%w: token endpoint status %d", ErrGraphUnavailable, resp.StatusCode)
	}

	var tokens GraphTokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, ErrInvalidGraphToken
	}
	return &tokens, nil
}

var errGraphNotFound = errors.New("graph resource not found")

func graphGet(rawURL, token string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	req.Header.Set("Accept", "application/json")

	resp, err := graphClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGraphUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrInvalidGraphToken
	case http.StatusNotFound:
		return nil, errGraphNotFound
	default:
		return nil, fmt.Errorf("%w: status %d", ErrGraphUnavailable, resp.StatusCode)
	}
}
