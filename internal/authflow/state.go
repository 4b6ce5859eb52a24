package authflow

// State is where a visitor stands in the sign-in process.
type State int

const (
	LoggedOut State = iota
	LoginForm
	SignupForm
	OTPPending
	LoggedIn
	// ApprovalPending is terminal for the flow: the account exists but an
	// administrator has not approved it yet.
	ApprovalPending
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case LoginForm:
		return "login_form"
	case SignupForm:
		return "signup_form"
	case OTPPending:
		return "otp_pending"
	case LoggedIn:
		return "logged_in"
	case ApprovalPending:
		return "approval_pending"
	}
	return "unknown"
}
