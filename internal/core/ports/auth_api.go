package ports

import (
	"context"
	"io"

	"github.com/jobportal/portal/internal/core/domain"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,notblank"`
}

// Registration is the sign-up form; it adds a name to the login fields.
type Registration struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,notblank"`
}

// ProfileUpdate carries editable profile fields. Password is sent only when
// set.
type ProfileUpdate struct {
	Name     string `json:"name"               validate:"required"`
	Email    string `json:"email"              validate:"required,email"`
	Password string `json:"password,omitempty"`
}

// Upload is a file about to be sent as a multipart part.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// AuthData is the payload of a successful login or registration.
type AuthData struct {
	ID         string      `json:"_id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Token      string      `json:"token"`
	ProfilePic string      `json:"profilePic,omitempty"`
}

// ProfilePicData is the payload of a successful avatar upload.
type ProfilePicData struct {
	ProfilePic string `json:"profilePic"`
}

// AuthAPI is the identity resource group of the backend.
type AuthAPI interface {
	Login(ctx context.Context, role domain.Role, creds Credentials) (*domain.Envelope[*AuthData], error)
	Register(ctx context.Context, role domain.Role, reg Registration) (*domain.Envelope[*AuthData], error)
	Profile(ctx context.Context, role domain.Role) (*domain.Envelope[*domain.Profile], error)
	UpdateProfile(ctx context.Context, role domain.Role, update ProfileUpdate) (*domain.Envelope[*domain.Profile], error)
	UploadProfilePic(ctx context.Context, role domain.Role, file Upload) (*domain.Envelope[*ProfilePicData], error)
}
