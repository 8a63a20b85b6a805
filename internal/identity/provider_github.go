package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/founderbridge/backend/internal/models"
)

const githubProviderID = "github.com"

// Provider — внешний провайдер идентификации.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.AuthenticatedUser, error)
}

// GitHubProvider — вход через GitHub OAuth.
type GitHubProvider struct {
	config  *oauth2.Config
	apiBase string
}

func NewGitHubProvider(clientID, clientSecret, redirectURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user"},
			Endpoint:     github.Endpoint,
		},
		apiBase: "https://api.github.com",
	}
}

// AuthCodeURL возвращает адрес согласия GitHub; регистрация новых аккаунтов разрешена.
func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("allow_signup", "true"))
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Exchange меняет code на токен и читает профиль пользователя.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*models.AuthenticatedUser, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: exchange code: %w", err)
	}
	client := p.config.Client(ctx, tok)

	var gu githubUser
	if err := p.getJSON(ctx, client, "/user", &gu); err != nil {
		return nil, err
	}
	if gu.ID == 0 {
		return nil, fmt.Errorf("github: empty user id")
	}

	// Публичный e-mail может быть скрыт, тогда берём основной подтверждённый.
	if gu.Email == "" {
		var emails []githubEmail
		if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				gu.Email = e.Email
				break
			}
		}
	}

	name := gu.Name
	if name == "" {
		name = gu.Login
	}
	return &models.AuthenticatedUser{
		UID:         "github:" + strconv.FormatInt(gu.ID, 10),
		Provider:    githubProviderID,
		Login:       gu.Login,
		DisplayName: name,
		Email:       gu.Email,
		PhotoURL:    gu.AvatarURL,
	}, nil
}

func (p *GitHubProvider) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("github: build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github: get %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decode %s: %w", path, err)
	}
	return nil
}
