package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stash/config"
	"stash/models"
	"stash/types"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

type oauthDefaults struct {
	endpoint    oauth2.Endpoint
	scopes      []string
	userInfoURL string
	emailsURL   string
}

var providerDefaults = map[string]oauthDefaults{
	models.ProviderGoogle: {
		endpoint:    google.Endpoint,
		scopes:      []string{"openid", "email", "profile"},
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	},
	models.ProviderGithub: {
		endpoint:    github.Endpoint,
		scopes:      []string{"read:user", "user:email"},
		userInfoURL: "https://api.github.com/user",
		emailsURL:   "https://api.github.com/user/emails",
	},
}

type oauthProvider struct {
	name        string
	conf        *oauth2.Config
	userInfoURL string
	emailsURL   string
}

// OAuthProviders 已配置的第三方登录平台
type OAuthProviders struct {
	providers map[string]*oauthProvider
	http      *resty.Client
}

func NewOAuthProviders(cfg *config.OAuth) *OAuthProviders {
	p := &OAuthProviders{
		providers: make(map[string]*oauthProvider),
		http: resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Accept", "application/json"),
	}
	if cfg == nil {
		return p
	}
	for name, pc := range cfg.Providers {
		def, ok := providerDefaults[name]
		if !ok || pc == nil || pc.ClientID == "" {
			continue
		}
		endpoint := def.endpoint
		if pc.AuthURL != "" {
			endpoint.AuthURL = pc.AuthURL
		}
		if pc.TokenURL != "" {
			endpoint.TokenURL = pc.TokenURL
		}
		scopes := pc.Scopes
		if len(scopes) == 0 {
			scopes = def.scopes
		}
		op := &oauthProvider{
			name: name,
			conf: &oauth2.Config{
				ClientID:     pc.ClientID,
				ClientSecret: pc.ClientSecret,
				RedirectURL:  pc.RedirectURL,
				Scopes:       scopes,
				Endpoint:     endpoint,
			},
			userInfoURL: def.userInfoURL,
			emailsURL:   def.emailsURL,
		}
		if pc.UserInfoURL != "" {
			op.userInfoURL = pc.UserInfoURL
		}
		if pc.EmailsURL != "" {
			op.emailsURL = pc.EmailsURL
		}
		p.providers[name] = op
	}
	return p
}

func (p *OAuthProviders) get(name string) (*oauthProvider, error) {
	op, ok := p.providers[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return op, nil
}

// AuthCodeURL 授权页地址
func (p *OAuthProviders) AuthCodeURL(name, state string) (string, error) {
	op, err := p.get(name)
	if err != nil {
		return "", err
	}
	return op.conf.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange 用 code 换取 access token
func (p *OAuthProviders) Exchange(ctx context.Context, name, code string) (string, error) {
	op, err := p.get(name)
	if err != nil {
		return "", err
	}
	tok, err := op.conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange %s code: %w", name, err)
	}
	return tok.AccessToken, nil
}

// FetchUser 用 access token 查询用户信息
func (p *OAuthProviders) FetchUser(ctx context.Context, name, accessToken string) (*types.OAuthUser, error) {
	op, err := p.get(name)
	if err != nil {
		return nil, err
	}
	body, err := p.getJSON(ctx, op.userInfoURL, accessToken)
	if err != nil {
		return nil, err
	}

	info := gjson.ParseBytes(body)
	user := &types.OAuthUser{Provider: op.name}
	switch op.name {
	case models.ProviderGoogle:
		user.ProviderID = info.Get("sub").String()
		user.Email = info.Get("email").String()
		user.EmailVerified = info.Get("email_verified").Bool()
		user.Name = info.Get("name").String()
		user.AvatarURL = info.Get("picture").String()
	case models.ProviderGithub:
		user.ProviderID = info.Get("id").String()
		// 公开邮箱必须是已验证邮箱
		user.Email = info.Get("email").String()
		user.EmailVerified = user.Email != ""
		user.Name = info.Get("name").String()
		if user.Name == "" {
			user.Name = info.Get("login").String()
		}
		user.AvatarURL = info.Get("avatar_url").String()
		// 邮箱未公开时查询主邮箱
		if user.Email == "" && op.emailsURL != "" {
			emails, err := p.getJSON(ctx, op.emailsURL, accessToken)
			if err != nil {
				return nil, err
			}
			primary := gjson.GetBytes(emails, "#(primary==true)")
			user.Email = primary.Get("email").String()
			user.EmailVerified = primary.Get("verified").Bool()
		}
	}

	if user.ProviderID == "" {
		return nil, fmt.Errorf("%s userinfo missing id", op.name)
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return user, nil
}

func (p *OAuthProviders) getJSON(ctx context.Context, url, accessToken string) ([]byte, error) {
	resp, err := p.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("request %s: status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}
