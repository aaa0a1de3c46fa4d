package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/core/service"
	"github.com/jobportal/portal/internal/infrastructure/upload"
)

// ProfileHandler serves /admin/profile and /employee/profile. The role comes
// from the stored identity, so both groups share it.
type ProfileHandler struct {
	authService ports.AuthService
}

func NewProfileHandler(authService ports.AuthService) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

// Get returns the full account record.
//
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  messageResponse
// @Router       /admin/profile [get]
// @Router       /employee/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	profile, err := h.authService.Profile(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, profile)
}

// Update saves name/email (and password when set).
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      ports.ProfileUpdate  true  "Profile fields"
// @Success      200   {object}  domain.Identity
// @Failure      400   {object}  messageResponse
// @Router       /admin/profile [put]
// @Router       /employee/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	var req ports.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	identity, err := h.authService.UpdateProfile(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, identity)
}

// UploadPicture accepts a multipart "profilePic" part.
//
// @Summary      Upload profile picture
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        profilePic  formData  file  true  "JPEG, PNG or GIF, at most 5MB"
// @Success      200         {object}  ports.ProfilePicData
// @Failure      400         {object}  messageResponse
// @Router       /admin/profile/picture [post]
// @Router       /employee/profile/picture [post]
func (h *ProfileHandler) UploadPicture(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	file, err := formUpload(c, "profilePic")
	if err != nil {
		return err
	}

	pic, err := h.authService.UploadProfilePic(c.Request().Context(), file)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, ports.ProfilePicData{ProfilePic: pic})
}

// formUpload reads a multipart file part. At most one byte past the upload
// limit is read, which is enough for the size check to reject it.
func formUpload(c echo.Context, field string) (ports.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return ports.Upload{}, echo.NewHTTPError(http.StatusBadRequest, "missing file part "+field)
	}
	f, err := fh.Open()
	if err != nil {
		return ports.Upload{}, err
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, service.MaxUploadSize+1))
	if err != nil {
		return ports.Upload{}, err
	}
	return upload.FromBytes(fh.Filename, body), nil
}
