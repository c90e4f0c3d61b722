// internal/app/features/auth/handler.go
package auth

import (
	"net/http"
	"strings"
	"time"

	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/app/system/webapi"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler owns account registration and login.
type Handler struct {
	Users  *userstore.Store
	Issuer *auth.Issuer
	Limits *ratelimit.AuthLimiter
	Audit  *auditlog.Recorder
	Log    *zap.Logger
}

// NewHandler creates a new auth Handler. Limits and audit may be nil;
// throttling and audit recording are then skipped.
func NewHandler(users *userstore.Store, issuer *auth.Issuer, limits *ratelimit.AuthLimiter, audit *auditlog.Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  users,
		Issuer: issuer,
		Limits: limits,
		Audit:  audit,
		Log:    logger,
	}
}

// registerRequest is a tagged union over the two account kinds. The
// role field selects which branch of fields applies.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // student | club

	// Student fields.
	StudentID  string   `json:"student_id,omitempty"`
	CourseType string   `json:"course_type,omitempty"`
	Branch     string   `json:"branch,omitempty"`
	Year       string   `json:"year,omitempty"`
	Interests  []string `json:"interests,omitempty"`

	// Club fields.
	ClubName    string              `json:"club_name,omitempty"`
	Description string              `json:"description,omitempty"`
	SocialLinks *models.SocialLinks `json:"social_links,omitempty"`
}

// ServeRegister handles POST /auth/register. Admin accounts cannot be
// created through this endpoint.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !webapi.Decode(w, r, &req) {
		return
	}
	if h.Limits != nil {
		if ok, msg := h.Limits.Check(r, req.Email); !ok {
			webapi.Fail(w, http.StatusTooManyRequests, msg)
			return
		}
	}
	if strings.TrimSpace(req.Name) == "" {
		webapi.BadRequest(w, "Name is required")
		return
	}

	var (
		user models.User
		err  error
	)
	switch req.Role {
	case models.RoleStudent:
		user, err = h.Users.CreateStudent(r.Context(), userstore.CreateStudentInput{
			Name:       req.Name,
			Email:      req.Email,
			Password:   req.Password,
			StudentID:  req.StudentID,
			CourseType: req.CourseType,
			Branch:     req.Branch,
			Year:       req.Year,
			Interests:  req.Interests,
		})
	case models.RoleClub:
		user, err = h.Users.CreateClub(r.Context(), userstore.CreateClubInput{
			Name:        req.Name,
			Email:       req.Email,
			Password:    req.Password,
			ClubName:    req.ClubName,
			Description: req.Description,
			SocialLinks: req.SocialLinks,
		})
	default:
		webapi.BadRequest(w, "Role must be student or club")
		return
	}

	switch err {
	case nil:
	case userstore.ErrDuplicateEmail, userstore.ErrDuplicateStudentID, userstore.ErrDuplicateClubName:
		webapi.Fail(w, http.StatusConflict, err.Error())
		return
	default:
		if userstore.IsValidation(err) {
			webapi.BadRequest(w, err.Error())
			return
		}
		webapi.ServerError(w, h.Log, "auth: register failed", err)
		return
	}

	h.Log.Info("account registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role))
	h.Audit.Registered(r.Context(), r, user.ID, user.Email, user.Role)

	token, err := h.issue(&user)
	if err != nil {
		webapi.ServerError(w, h.Log, "auth: token issue failed", err)
		return
	}
	webapi.Created(w, map[string]any{"user": user, "token": token})
}

// loginRequest is the POST /auth/login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin handles POST /auth/login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !webapi.Decode(w, r, &req) {
		return
	}
	if h.Limits != nil {
		if ok, msg := h.Limits.Check(r, req.Email); !ok {
			webapi.Fail(w, http.StatusTooManyRequests, msg)
			return
		}
	}

	user, err := h.Users.VerifyPassword(r.Context(), req.Email, req.Password)
	if err == userstore.ErrInvalidCredentials {
		h.Audit.LoginFailure(r.Context(), r, req.Email, "invalid credentials")
		webapi.Fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "auth: login failed", err)
		return
	}
	if !user.IsActive {
		h.Audit.LoginFailure(r.Context(), r, req.Email, "account disabled")
		webapi.Forbidden(w, "Account is disabled")
		return
	}

	token, err := h.issue(user)
	if err != nil {
		webapi.ServerError(w, h.Log, "auth: token issue failed", err)
		return
	}
	if h.Limits != nil {
		h.Limits.ResetEmail(user.Email)
	}
	h.Audit.LoginSuccess(r.Context(), r, user.ID, user.Email)
	webapi.OK(w, map[string]any{"user": user, "token": token})
}

func (h *Handler) issue(user *models.User) (string, error) {
	return h.Issuer.Issue(&auth.AuthUser{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, time.Now().UTC())
}
