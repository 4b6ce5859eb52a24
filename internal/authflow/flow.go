// Package authflow drives a visitor through login, signup and OTP
// verification against the backend.
package authflow

import (
	"context"
	"errors"

	"aviorie-web/internal/api"
	"aviorie-web/internal/logger"
	"aviorie-web/internal/role"
	"aviorie-web/internal/session"
	"aviorie-web/internal/user"

	"go.uber.org/zap"
)

const (
	ApprovalPath = "/waiting-approval"
	AuthPath     = "/auth"

	noticeOTPSent        = "OTP sent to your email and phone!"
	noticeAccountCreated = "Account created successfully! Please login."
	noticeLoggedIn       = "Login successful!"
	noticeApproval       = "Your account is pending approval."

	fallbackLogin  = "Login failed"
	fallbackSignup = "Registration failed"
	fallbackOTP    = "OTP verification failed"
)

var ErrNoPendingRegistration = errors.New("no registration is waiting for an OTP, please sign up again")

// Recorder receives one call per finished transition.
type Recorder interface {
	AuthTransition(operation, state string)
}

// Result is the outcome of one submission. An empty Redirect means the auth
// page is rendered again in State with Form, Notice and Err.
type Result struct {
	State    State
	Redirect string
	Form     Form
	Notice   string
	Err      string
}

type Flow struct {
	users    user.Service
	sessions session.Store
	pending  *PendingRegistry
	inflight *InFlight
	recorder Recorder
}

type Option func(*Flow)

func WithRecorder(r Recorder) Option {
	return func(f *Flow) { f.recorder = r }
}

func WithPendingRegistry(p *PendingRegistry) Option {
	return func(f *Flow) { f.pending = p }
}

func New(users user.Service, sessions session.Store, opts ...Option) *Flow {
	f := &Flow{
		users:    users,
		sessions: sessions,
		pending:  NewPendingRegistry(PendingTTL),
		inflight: NewInFlight(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Entry is the state the auth page opens in for visitor. A registration
// waiting for its OTP wins over the requested mode.
func (f *Flow) Entry(visitor, mode string) State {
	if _, ok := f.pending.Get(visitor); ok {
		return OTPPending
	}
	if mode == "signup" {
		return SignupForm
	}
	return LoginForm
}

func (f *Flow) Login(ctx context.Context, visitor string, form Form) Result {
	release, ok := f.inflight.Acquire(visitor)
	if !ok {
		return Result{State: LoginForm, Form: form, Err: ErrSubmissionInFlight.Error()}
	}
	defer release()

	res := f.login(ctx, visitor, form)
	f.record("login", res.State)
	return res
}

func (f *Flow) login(ctx context.Context, visitor string, form Form) Result {
	log := logger.FromCtx(ctx)
	fail := func(msg string) Result {
		return Result{State: LoginForm, Form: form, Err: msg}
	}

	req, err := form.loginRequest()
	if err != nil {
		return fail(err.Error())
	}

	resp, err := f.users.Login(ctx, req)
	if err != nil {
		log.Info("login rejected", zap.Error(err))
		return fail(api.Message(err, fallbackLogin))
	}

	if resp.RequiresApproval {
		log.Info("login awaiting approval")
		return Result{State: ApprovalPending, Redirect: ApprovalPath, Notice: noticeApproval}
	}

	if resp.User == nil {
		log.Warn("login response without user")
		return fail(fallbackLogin)
	}
	sess, err := session.New(resp.Token, *resp.User)
	if err != nil {
		log.Warn("login response without token", zap.Error(err))
		return fail(fallbackLogin)
	}
	if err := f.sessions.Save(ctx, visitor, sess); err != nil {
		log.Error("failed to save session", zap.Error(err))
		return fail(fallbackLogin)
	}

	log.Info("login succeeded", zap.String("role", resp.User.Role))
	return Result{State: LoggedIn, Redirect: role.HomeFor(resp.User.Role), Notice: noticeLoggedIn}
}

func (f *Flow) Signup(ctx context.Context, visitor string, form Form) Result {
	release, ok := f.inflight.Acquire(visitor)
	if !ok {
		return Result{State: SignupForm, Form: form, Err: ErrSubmissionInFlight.Error()}
	}
	defer release()

	res := f.signup(ctx, visitor, form)
	f.record("signup", res.State)
	return res
}

func (f *Flow) signup(ctx context.Context, visitor string, form Form) Result {
	log := logger.FromCtx(ctx)
	fail := func(msg string) Result {
		return Result{State: SignupForm, Form: form, Err: msg}
	}

	req, err := form.registerRequest()
	if err != nil {
		return fail(err.Error())
	}

	resp, err := f.users.Register(ctx, req)
	if err != nil {
		log.Info("registration rejected", zap.Error(err))
		return fail(api.Message(err, fallbackSignup))
	}

	if !resp.RequiresOTP {
		form.Password = ""
		return Result{State: LoginForm, Form: form, Notice: noticeAccountCreated}
	}

	f.pending.Put(visitor, resp.UserID)
	log.Info("registration awaiting otp", zap.String("user_id", resp.UserID))
	return Result{State: OTPPending, Form: form, Notice: noticeOTPSent}
}

func (f *Flow) VerifyOTP(ctx context.Context, visitor string, form Form) Result {
	release, ok := f.inflight.Acquire(visitor)
	if !ok {
		return Result{State: OTPPending, Form: form, Err: ErrSubmissionInFlight.Error()}
	}
	defer release()

	res := f.verifyOTP(ctx, visitor, form)
	f.record("verify_otp", res.State)
	return res
}

func (f *Flow) verifyOTP(ctx context.Context, visitor string, form Form) Result {
	log := logger.FromCtx(ctx)

	reg, ok := f.pending.Get(visitor)
	if !ok {
		return Result{State: SignupForm, Form: form, Err: ErrNoPendingRegistration.Error()}
	}

	otp, err := form.otp()
	if err != nil {
		return Result{State: OTPPending, Form: form, Err: err.Error()}
	}

	if err := f.users.VerifyOTP(ctx, reg.UserID, otp); err != nil {
		log.Info("otp rejected", zap.String("user_id", reg.UserID), zap.Error(err))
		return Result{State: OTPPending, Form: form, Err: api.Message(err, fallbackOTP)}
	}

	f.pending.Delete(visitor)
	form.OTP = ""
	form.Password = ""
	log.Info("otp verified", zap.String("user_id", reg.UserID))
	return Result{State: LoginForm, Form: form, Notice: noticeAccountCreated}
}

// Logout forgets everything the visitor had: the session and any signup
// waiting for its OTP.
func (f *Flow) Logout(ctx context.Context, visitor string) error {
	f.pending.Delete(visitor)
	if err := f.sessions.Clear(ctx, visitor); err != nil {
		return err
	}
	f.record("logout", LoggedOut)
	return nil
}

// CancelSignup drops a pending registration so the visitor can start over.
func (f *Flow) CancelSignup(visitor string) {
	f.pending.Delete(visitor)
}

func (f *Flow) record(op string, s State) {
	if f.recorder != nil {
		f.recorder.AuthTransition(op, s.String())
	}
}
