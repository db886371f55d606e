package pages

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/auth"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/routes"
	"github.com/yigit/schoolportal/internal/app/views"
	"github.com/yigit/schoolportal/internal/middleware"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/session"
)

const invalidCredentials = "Invalid email or password."

var registerRoles = []views.Option{
	{Value: string(models.RoleStudent), Label: models.RoleStudent.Label()},
	{Value: string(models.RoleParent), Label: models.RoleParent.Label()},
	{Value: string(models.RoleTeacher), Label: models.RoleTeacher.Label()},
}

// Public mounts the routes reachable without a role: sign in, sign up,
// sign out, the access denied page and the root redirect.
func (r *Renderer) Public() routes.MounterFunc {
	return func(rg *gin.RouterGroup) {
		rg.GET("/", r.home)
		rg.POST("/logout", r.logout)
		rg.GET("/unauthorized", r.unauthorized)

		guest := rg.Group("", middleware.RedirectAuthenticated())
		guest.GET(middleware.LoginPath, r.loginPage)
		guest.POST(middleware.LoginPath, r.login)
		guest.GET("/register", r.registerPage)
		guest.POST("/register", r.register)
	}
}

func (r *Renderer) home(c *gin.Context) {
	sess := session.Current(c)
	if !sess.IsAuthenticated() {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	c.Redirect(http.StatusFound, auth.HomePath(sess.Roles()))
}

func (r *Renderer) loginPage(c *gin.Context) {
	r.Page(c, http.StatusOK, "login.html", "Sign in", views.AuthForm{Next: c.Query("next")})
}

func (r *Renderer) login(c *gin.Context) {
	var form models.LoginRequest
	view := views.AuthForm{Next: c.PostForm("next")}
	if err := c.ShouldBind(&form); err != nil {
		view.Values = map[string]string{"email": form.Email}
		view.Errors = middleware.FieldErrors(err, &form)
		r.Page(c, http.StatusUnprocessableEntity, "login.html", "Sign in", view)
		return
	}

	user, err := r.sessions.Login(c, form.Email, form.Password)
	if err != nil {
		r.logger.Info().Err(err).Str("email", form.Email).Msg("Login failed")
		view.Values = map[string]string{"email": form.Email}
		view.Message = loginFailure(err)
		status := mutationStatus(err)
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrValidationFailed) {
			status = http.StatusUnauthorized
		}
		r.Page(c, status, "login.html", "Sign in", view)
		return
	}

	r.Flash(c, session.ToastSuccess, "Welcome back, "+user.Name())
	c.Redirect(http.StatusSeeOther, middleware.SafeNext(view.Next, auth.HomePath(user.Roles)))
}

// loginFailure keeps network and server trouble apart from bad credentials
func loginFailure(err error) string {
	if errors.Is(err, apperrors.ErrUnauthorized) {
		return invalidCredentials
	}
	msg := apiclient.FormatError(err)
	if msg == apiclient.GenericMessage {
		return invalidCredentials
	}
	return msg
}

func (r *Renderer) registerPage(c *gin.Context) {
	r.Page(c, http.StatusOK, "register.html", "Register", views.AuthForm{Roles: registerRoles})
}

func (r *Renderer) register(c *gin.Context) {
	var form models.RegisterRequest
	err := c.ShouldBind(&form)
	view := views.AuthForm{
		Roles: registerRoles,
		Values: map[string]string{
			"firstName": form.FirstName,
			"lastName":  form.LastName,
			"email":     form.Email,
			"role":      form.Role,
		},
	}
	if err != nil {
		view.Errors = middleware.FieldErrors(err, &form)
		r.Page(c, http.StatusUnprocessableEntity, "register.html", "Register", view)
		return
	}

	if err := r.API(c).Register(c.Request.Context(), form); err != nil {
		r.logger.Info().Err(err).Str("email", form.Email).Msg("Registration rejected")
		view.Message = failureMessage(err, "Registration failed. Please try again.")
		r.Page(c, mutationStatus(err), "register.html", "Register", view)
		return
	}

	r.Flash(c, session.ToastSuccess, "Account created. Please sign in.")
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (r *Renderer) logout(c *gin.Context) {
	r.sessions.Logout(c)
	r.Flash(c, session.ToastInfo, "You have been signed out.")
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (r *Renderer) unauthorized(c *gin.Context) {
	sess := session.Current(c)
	if !sess.IsAuthenticated() {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	r.Page(c, http.StatusForbidden, "unauthorized.html", "Access denied", auth.HomePath(sess.Roles()))
}

// profile shows the signed in user as cached in the session
func (r *Renderer) profile() routes.MounterFunc {
	return func(rg *gin.RouterGroup) {
		rg.GET("", func(c *gin.Context) {
			sess := session.Current(c)
			roles := sess.Roles()
			r.Page(c, http.StatusOK, "profile.html", "Profile", views.Profile{
				User:  sess.CurrentUser(),
				Roles: roles,
				Home:  auth.HomePath(roles),
			})
		})
	}
}
