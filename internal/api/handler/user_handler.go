package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/interfac/user-manager/internal/api/metrics"
	"github.com/interfac/user-manager/internal/core/domain"
	"github.com/interfac/user-manager/internal/core/ports"
)

// UserHandler exposes the user-management workflows over HTTP. Authorization
// has already happened in the middleware chain; handlers only apply the
// owner-or-admin rule on the edit path.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerUserRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationErrorsTotal.WithLabelValues("validation").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	birth, err := parseBirthDate(req.BirthDate)
	if err != nil {
		metrics.RegistrationErrorsTotal.WithLabelValues("validation").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
	}

	principal, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), principal, ports.RegisterInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		BirthDate: birth,
		IsAdmin:   req.IsAdmin,
		Enabled:   req.Enabled,
	})
	if err != nil {
		metrics.RegistrationErrorsTotal.WithLabelValues(registrationFailureReason(err)).Inc()
		return err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(user.Roles[0].Name).Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Edit updates an existing user account.
//
// @Summary      Edit a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "User id"
// @Param        body  body      editUserRequest  true  "Updated user details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Edit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req editUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	birth, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
	}

	principal, role, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	target, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !canTouchUser(role, principal, target.Username) {
		return domain.ErrForbidden
	}
	// Only admins may grant or revoke the admin flag; a self-edit keeps it.
	if role != domain.RoleAdmin {
		req.IsAdmin = target.IsAdmin
		req.Enabled = target.Enabled
	}

	user, err := h.users.Edit(c.Request().Context(), principal, ports.EditInput{
		ID:        id,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		BirthDate: birth,
		IsAdmin:   req.IsAdmin,
		Enabled:   req.Enabled,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user account.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id  path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	principal, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns a single user profile.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id  path  int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// List returns every user record.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(users))
}

// Search returns users whose username contains the given fragment.
//
// @Summary      Search users by username
// @Tags         users
// @Produce      json
// @Param        username  query  string  true  "Username fragment"
// @Success      200  {object}  listUsersResponse
// @Router       /users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	fragment := c.QueryParam("username")
	if fragment == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username query parameter is required")
	}

	users, err := h.users.Search(c.Request().Context(), fragment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(users))
}

// Profile returns the authenticated caller's own record.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	principal, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetByUsername(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

func registrationFailureReason(err error) string {
	switch {
	case errors.Is(err, &domain.UsernameExistsError{}):
		return "username_exists"
	case errors.Is(err, domain.ErrRoleMissing):
		return "configuration"
	default:
		return "internal"
	}
}
