package apiclient

import (
	"context"
	"net/http"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
)

// AuthAPI talks to the role-specific identity endpoints.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI wraps client, which should be built with DefaultTimeout.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

func (a *AuthAPI) Login(ctx context.Context, role domain.Role, creds ports.Credentials) (*domain.Envelope[*ports.AuthData], error) {
	ep, err := role.Endpoints()
	if err != nil {
		return nil, domain.ValidationError(err.Error())
	}
	return call[*ports.AuthData](ctx, a.client, http.MethodPost, ep.Login, withBody(creds))
}

func (a *AuthAPI) Register(ctx context.Context, role domain.Role, reg ports.Registration) (*domain.Envelope[*ports.AuthData], error) {
	ep, err := role.Endpoints()
	if err != nil {
		return nil, domain.ValidationError(err.Error())
	}
	return call[*ports.AuthData](ctx, a.client, http.MethodPost, ep.Register, withBody(reg))
}

func (a *AuthAPI) Profile(ctx context.Context, role domain.Role) (*domain.Envelope[*domain.Profile], error) {
	ep, err := role.Endpoints()
	if err != nil {
		return nil, domain.ValidationError(err.Error())
	}
	return call[*domain.Profile](ctx, a.client, http.MethodGet, ep.Profile)
}

func (a *AuthAPI) UpdateProfile(ctx context.Context, role domain.Role, update ports.ProfileUpdate) (*domain.Envelope[*domain.Profile], error) {
	ep, err := role.Endpoints()
	if err != nil {
		return nil, domain.ValidationError(err.Error())
	}
	return call[*domain.Profile](ctx, a.client, http.MethodPut, ep.Profile, withBody(update))
}

// UploadProfilePic sends file as the "profilePic" multipart part.
func (a *AuthAPI) UploadProfilePic(ctx context.Context, role domain.Role, file ports.Upload) (*domain.Envelope[*ports.ProfilePicData], error) {
	ep, err := role.Endpoints()
	if err != nil {
		return nil, domain.ValidationError(err.Error())
	}
	return call[*ports.ProfilePicData](ctx, a.client, http.MethodPost, ep.UploadProfilePic, withFile("profilePic", file))
}

var _ ports.AuthAPI = (*AuthAPI)(nil)
