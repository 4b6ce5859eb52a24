package authflow

import (
	"errors"
	"fmt"
	"strings"

	"aviorie-web/internal/role"
	"aviorie-web/internal/user"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Form is every field of the auth page. Login, signup and OTP submissions each
// read the subset they need.
type Form struct {
	Login    string `form:"login"`
	Email    string `form:"email"`
	Phone    string `form:"phone"`
	Password string `form:"password"`
	FullName string `form:"full_name"`
	Role     string `form:"role"`
	Address  string `form:"address"`
	AreaID   string `form:"area_id"`
	OTP      string `form:"otp"`
}

type loginInput struct {
	Login    string `validate:"required"`
	Password string `validate:"required"`
}

type signupInput struct {
	Email    string `validate:"required"`
	Phone    string `validate:"required"`
	Password string `validate:"required"`
	FullName string `validate:"required"`
	Role     string `validate:"required"`
	Address  string `validate:"required"`
}

type otpInput struct {
	OTP string `validate:"required"`
}

// ErrUnknownRole rejects signups for roles that cannot self-register.
var ErrUnknownRole = errors.New("please choose customer, delivery partner or manager")

func (f Form) loginRequest() (user.LoginRequest, error) {
	in := loginInput{Login: strings.TrimSpace(f.Login), Password: f.Password}
	if err := check(in); err != nil {
		return user.LoginRequest{}, err
	}
	return user.LoginRequest{Login: in.Login, Password: in.Password}, nil
}

// registerRequest builds the signup payload. The area id is only sent for
// managers, and only when one was typed.
func (f Form) registerRequest() (user.RegisterRequest, error) {
	in := signupInput{
		Email:    strings.TrimSpace(f.Email),
		Phone:    strings.TrimSpace(f.Phone),
		Password: f.Password,
		FullName: strings.TrimSpace(f.FullName),
		Role:     f.Role,
		Address:  strings.TrimSpace(f.Address),
	}
	if err := check(in); err != nil {
		return user.RegisterRequest{}, err
	}
	if !role.IsRegistrable(role.Kind(in.Role)) {
		return user.RegisterRequest{}, ErrUnknownRole
	}

	req := user.RegisterRequest{
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
		FullName: in.FullName,
		Role:     in.Role,
		Address:  in.Address,
	}
	if role.Kind(in.Role) == role.KindManager {
		if area := strings.TrimSpace(f.AreaID); area != "" {
			req.AreaID = &area
		}
	}
	return req, nil
}

func (f Form) otp() (string, error) {
	in := otpInput{OTP: strings.TrimSpace(f.OTP)}
	if err := check(in); err != nil {
		return "", err
	}
	return in.OTP, nil
}

// check reports missing required fields by their form names.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fieldNames[fe.Field()])
	}
	return fmt.Errorf("please fill in: %s", strings.Join(names, ", "))
}

var fieldNames = map[string]string{
	"Login":    "email or phone",
	"Email":    "email",
	"Phone":    "phone",
	"Password": "password",
	"FullName": "full name",
	"Role":     "role",
	"Address":  "address",
	"OTP":      "OTP",
}
