package publicauth

import (
	"context"

	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/forms"
)

type service struct {
	auth AuthGateway
}

func newService(gateway AuthGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{auth: gateway}
}

func (service) healthBody() string {
	return "ok"
}

// login assumes f already passed ValidateLogin.
func (s service) login(ctx context.Context, f forms.LoginForm) (portalapi.AuthResult, error) {
	return s.auth.Login(ctx, portalapi.Credentials{Email: f.Email, Password: f.Password})
}

// signup assumes f already passed ValidateSignup.
func (s service) signup(ctx context.Context, f forms.SignupForm) (portalapi.AuthResult, error) {
	return s.auth.Signup(ctx, portalapi.Registration{
		Email:      f.Email,
		Password:   f.Password,
		FullName:   f.FullName,
		Profession: f.ResolvedProfession(),
	})
}

func (s service) logout(ctx context.Context) error {
	return s.auth.Logout(ctx)
}
