package web

import (
	"errors"
	"net/http"

	"aviorie-web/internal/auth"
	"aviorie-web/internal/authflow"
	"aviorie-web/internal/dashboard"
	"aviorie-web/internal/logger"
	"aviorie-web/internal/order"
	"aviorie-web/internal/product"
	"aviorie-web/internal/role"
	"aviorie-web/internal/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handler serves the HTML pages.
type Handler struct {
	flow          *authflow.Flow
	dash          *dashboard.Service
	sessions      session.Store
	render        *Renderer
	secureCookies bool
}

func NewHandler(flow *authflow.Flow, dash *dashboard.Service, sessions session.Store, render *Renderer, secureCookies bool) *Handler {
	return &Handler{
		flow:          flow,
		dash:          dash,
		sessions:      sessions,
		render:        render,
		secureCookies: secureCookies,
	}
}

// base is the data every page's layout reads.
type base struct {
	Session *session.Session
	Flash   *Flash
	Home    string
}

type authView struct {
	base
	Mode   string
	Form   authflow.Form
	Notice string
	Err    string
	Roles  []role.Kind
}

type dashboardView struct {
	base
	Page *dashboard.Page
}

func (h *Handler) base(w http.ResponseWriter, r *http.Request) base {
	b := base{Flash: takeFlash(w, r, h.secureCookies), Home: role.Landing}
	if s, ok := session.FromContext(r.Context()); ok {
		b.Session = s
		b.Home = role.HomeFor(s.User.Role)
	}
	return b
}

func (h *Handler) flash(w http.ResponseWriter, f Flash) {
	if f.Text != "" {
		setFlash(w, h.secureCookies, f)
	}
}

func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "landing", h.base(w, r))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("OK"))
}

// --- Auth ---

func modeOf(s authflow.State) string {
	switch s {
	case authflow.SignupForm:
		return "signup"
	case authflow.OTPPending:
		return "otp"
	}
	return "login"
}

func (h *Handler) AuthPage(w http.ResponseWriter, r *http.Request) {
	state := h.flow.Entry(auth.VisitorFrom(r.Context()), r.URL.Query().Get("mode"))
	h.render.Render(w, r, http.StatusOK, "auth", authView{
		base:  h.base(w, r),
		Mode:  modeOf(state),
		Roles: role.Registrable(),
		Form:  authflow.Form{Role: string(role.KindCustomer)},
	})
}

// submitAuth decodes the form, runs one flow operation and either redirects
// or renders the auth page in the resulting state.
func (h *Handler) submitAuth(op func(*http.Request, string, authflow.Form) authflow.Result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form authflow.Form
		if err := decodeForm(r, &form); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		visitor := auth.VisitorFrom(r.Context())
		res := op(r, visitor, form)
		if res.State == authflow.LoggedIn {
			h.dash.Forget(visitor)
		}
		if res.Redirect != "" {
			h.flash(w, Flash{Text: res.Notice})
			http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
			return
		}

		status := http.StatusOK
		if res.Err != "" {
			status = http.StatusUnprocessableEntity
		}
		res.Form.Password = ""
		h.render.Render(w, r, status, "auth", authView{
			base:   h.base(w, r),
			Mode:   modeOf(res.State),
			Form:   res.Form,
			Notice: res.Notice,
			Err:    res.Err,
			Roles:  role.Registrable(),
		})
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.submitAuth(func(r *http.Request, visitor string, f authflow.Form) authflow.Result {
		return h.flow.Login(r.Context(), visitor, f)
	})(w, r)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	h.submitAuth(func(r *http.Request, visitor string, f authflow.Form) authflow.Result {
		return h.flow.Signup(r.Context(), visitor, f)
	})(w, r)
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	h.submitAuth(func(r *http.Request, visitor string, f authflow.Form) authflow.Result {
		return h.flow.VerifyOTP(r.Context(), visitor, f)
	})(w, r)
}

func (h *Handler) CancelSignup(w http.ResponseWriter, r *http.Request) {
	h.flow.CancelSignup(auth.VisitorFrom(r.Context()))
	http.Redirect(w, r, authflow.AuthPath+"?mode=signup", http.StatusSeeOther)
}

// Logout clears the session and any pending signup, then goes home.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	visitor := auth.VisitorFrom(r.Context())
	if err := h.flow.Logout(r.Context(), visitor); err != nil {
		logger.FromCtx(r.Context()).Error("failed to clear session", zap.Error(err))
	}
	h.dash.Forget(visitor)
	http.Redirect(w, r, role.Landing, http.StatusSeeOther)
}

func (h *Handler) WaitingApproval(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "waiting_approval", h.base(w, r))
}

// --- Dashboards ---

// expire handles a token the backend no longer accepts.
func (h *Handler) expire(w http.ResponseWriter, r *http.Request) {
	visitor := auth.VisitorFrom(r.Context())
	logger.FromCtx(r.Context()).Info("backend rejected session token")
	if err := h.sessions.Clear(r.Context(), visitor); err != nil {
		logger.FromCtx(r.Context()).Error("failed to clear session", zap.Error(err))
	}
	h.dash.Forget(visitor)
	h.flash(w, Flash{Text: "Your session has expired. Please login again.", Failed: true})
	http.Redirect(w, r, authflow.AuthPath, http.StatusSeeOther)
}

// Dashboard renders the dashboard of the signed-in role. Route guards have
// already checked the role.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, authflow.AuthPath, http.StatusSeeOther)
		return
	}

	page, err := h.dash.Page(r.Context(), auth.VisitorFrom(r.Context()), s)
	switch {
	case errors.Is(err, dashboard.ErrUnauthorized):
		h.expire(w, r)
		return
	case err != nil:
		logger.FromCtx(r.Context()).Warn("no dashboard for session", zap.Error(err))
		http.Redirect(w, r, role.Landing, http.StatusSeeOther)
		return
	}

	h.render.Render(w, r, http.StatusOK, page.Template, dashboardView{base: h.base(w, r), Page: page})
}

// finish flashes n and returns to the dashboard, or expires the session.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, n dashboard.Notice, err error) {
	if errors.Is(err, dashboard.ErrUnauthorized) {
		h.expire(w, r)
		return
	}
	s, _ := session.FromContext(r.Context())
	h.flash(w, Flash{Text: n.Text, Failed: n.Failed})
	http.Redirect(w, r, role.HomeFor(s.User.Role), http.StatusSeeOther)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var form struct {
		From   string `form:"from"`
		Status string `form:"status"`
	}
	if err := decodeForm(r, &form); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s, _ := session.FromContext(r.Context())
	n, err := h.dash.UpdateDeliveryStatus(r.Context(), s, mux.Vars(r)["id"], order.Status(form.From), order.Status(form.Status))
	h.finish(w, r, n, err)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var form product.CreateForm
	if err := decodeForm(r, &form); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s, _ := session.FromContext(r.Context())
	n, err := h.dash.CreateProduct(r.Context(), s, form)
	h.finish(w, r, n, err)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var form dashboard.PlaceForm
	if err := decodeForm(r, &form); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s, _ := session.FromContext(r.Context())
	n, err := h.dash.PlaceOrder(r.Context(), s, form)
	h.finish(w, r, n, err)
}
