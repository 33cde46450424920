package panels_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-delivery-client/api"
	"food-delivery-client/apitest"
	"food-delivery-client/config"
	"food-delivery-client/models"
	"food-delivery-client/panels"
	"food-delivery-client/session"
)

// anonDeps is newDeps without a logged-in user.
func anonDeps(srv *apitest.Server) (panels.Deps, *recorder, *session.Session) {
	sess := session.New(nil)
	cfg := &config.Config{BackendURL: srv.URL()}
	rec := &recorder{}
	deps := panels.Deps{
		API:      api.NewClient(cfg.APIBase(), sess),
		Session:  sess,
		Config:   cfg,
		Notifier: rec,
	}
	return deps, rec, sess
}

func TestSubmitLoginRejectsInvalidForms(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	deps, rec, _ := anonDeps(srv)
	panel := panels.NewLoginPanel(deps)

	cases := []panels.LoginForm{
		{Email: "", UserType: models.TypeCustomer},
		{Email: "not-an-email", UserType: models.TypeCustomer},
		{Email: "ok@example.com", UserType: "superuser"},
	}
	for _, form := range cases {
		require.Error(t, panel.SubmitLogin(context.Background(), form))
	}
	assert.True(t, rec.contains("Invalid form"))
	// Nothing valid ever reached the platform.
	assert.Zero(t, srv.RequestCount("POST", "/api/auth/login"))
}

func TestSubmitLoginEstablishesSession(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.SeedUser(models.User{Email: "carl@example.com", Name: "Carl", UserType: models.TypeCustomer})

	deps, _, sess := anonDeps(srv)
	panel := panels.NewLoginPanel(deps)

	require.NoError(t, panel.SubmitLogin(context.Background(), panels.LoginForm{
		Email: "carl@example.com", UserType: models.TypeCustomer,
	}))

	user := sess.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Carl", user.Name)
	assert.Equal(t, models.TypeCustomer, user.UserType)
	assert.NotEmpty(t, sess.Token())
	assert.False(t, panel.Loading())
}

func TestSubmitLoginSurfacesServerDetail(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	deps, rec, sess := anonDeps(srv)
	panel := panels.NewLoginPanel(deps)

	err := panel.SubmitLogin(context.Background(), panels.LoginForm{
		Email: "nobody@example.com", UserType: models.TypeCustomer,
	})
	require.Error(t, err)
	assert.True(t, rec.contains("User not found"))
	assert.Nil(t, sess.CurrentUser())
}

func TestSubmitRegisterFillsDefaultLocation(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	deps, _, sess := anonDeps(srv)
	panel := panels.NewLoginPanel(deps)

	require.NoError(t, panel.SubmitRegister(context.Background(), panels.RegisterForm{
		Email:    "rosa@example.com",
		Name:     "Rosa",
		Phone:    "+1555000111",
		UserType: models.TypeRestaurant,
	}))

	user := sess.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, models.TypeRestaurant, user.UserType)
	require.NotNil(t, user.Location)
	assert.InDelta(t, 40.7128, user.Location.Lat, 1e-9)
	assert.InDelta(t, -74.0060, user.Location.Lng, 1e-9)
}

func TestPanelForRoutesByRole(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	deps, _, sess := anonDeps(srv)

	assert.IsType(t, &panels.LoginPanel{}, panels.PanelFor(deps, nil))

	cases := []struct {
		userType models.UserType
		want     any
	}{
		{models.TypeCustomer, &panels.CustomerPanel{}},
		{models.TypeDriver, &panels.DriverPanel{}},
		{models.TypeRestaurant, &panels.RestaurantPanel{}},
		{models.TypeAdmin, &panels.AdminPanel{}},
	}
	for _, tc := range cases {
		user := &models.User{ID: "u1", UserType: tc.userType}
		require.NoError(t, sess.Login(user, "tok"))
		assert.IsType(t, tc.want, panels.PanelFor(deps, nil), tc.userType)
	}
}
