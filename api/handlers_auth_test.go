package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/next-chapter/api/models"
)

// fakeUserRepo backs the session handlers with one user and one device.
type fakeUserRepo struct {
	user           models.User
	device         models.UserDevice
	deletedDevices []string
}

var errNotStubbed = errors.New("not stubbed")

func (f *fakeUserRepo) Create(user models.User) (models.User, error) { return models.User{}, errNotStubbed }
func (f *fakeUserRepo) Get(userID string) (models.User, error) {
	if userID != f.user.UserID {
		return models.User{}, errors.New("user not found")
	}
	return f.user, nil
}
func (f *fakeUserRepo) GetUserByEmail(email string) (models.User, error) {
	return models.User{}, errNotStubbed
}
func (f *fakeUserRepo) GetUserByUsername(username string) (models.User, error) {
	return models.User{}, errNotStubbed
}
func (f *fakeUserRepo) DeleteUserByID(userID string) error { return errNotStubbed }
func (f *fakeUserRepo) Update(user models.User) (models.User, error) {
	return models.User{}, errNotStubbed
}
func (f *fakeUserRepo) IncrementBooksFinished(userID string) (int, error) { return 0, errNotStubbed }
func (f *fakeUserRepo) ValidateAndGetUser(userLogin models.Credentials) (models.User, error) {
	return models.User{}, errNotStubbed
}
func (f *fakeUserRepo) GetAllUsers() ([]models.User, error)      { return nil, errNotStubbed }
func (f *fakeUserRepo) CreateDevice(device models.UserDevice) error { return nil }
func (f *fakeUserRepo) GetDeviceByFingerprint(userID string, fingerprint string) (models.UserDevice, error) {
	if userID != f.device.UserID || fingerprint != f.device.Fingerprint {
		return models.UserDevice{}, errors.New("device not found")
	}
	return f.device, nil
}
func (f *fakeUserRepo) DeleteDevice(deviceID string) error {
	f.deletedDevices = append(f.deletedDevices, deviceID)
	return nil
}

const testSecret = "test-secret"

func newSessionApp(repo *fakeUserRepo) *Application {
	return &Application{
		Config: Config{
			JwtSecret:          testSecret,
			JwtAccessDuration:  900,
			JwtRefreshDuration: 3600,
		},
		UserRepo: repo,
	}
}

func newSessionRepo() *fakeUserRepo {
	return &fakeUserRepo{
		user: models.User{
			UserID:   "user-1",
			Email:    "reader@example.com",
			Kind:     models.Reader,
			Approved: true,
		},
		device: models.UserDevice{
			ID:          "device-1",
			UserID:      "user-1",
			Fingerprint: "fp-1",
			Expiry:      time.Now().Add(time.Hour),
		},
	}
}

func signSessionToken(t *testing.T, user models.User, fingerprint, scope string, expiry time.Time) string {
	t.Helper()
	claims := models.JWTClaims{
		UserID:            user.UserID,
		Email:             user.Email,
		Kind:              user.Kind,
		DeviceFingerprint: fingerprint,
		Scope:             scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRefreshSessionIssuesNewAccessCookie(t *testing.T) {
	repo := newSessionRepo()
	app := newSessionApp(repo)

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	r.AddCookie(&http.Cookie{
		Name:  models.JWT.REFRESH_COOKIE_NAME,
		Value: signSessionToken(t, repo.user, "fp-1", "refresh", time.Now().Add(time.Hour)),
	})
	w := httptest.NewRecorder()

	app.refreshSession(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	access := findCookie(w.Result().Cookies(), models.JWT.ACCESS_COOKIE_NAME)
	if access == nil {
		t.Fatal("no access cookie set")
	}
	claims, err := models.ValidateJWTToken(access.Value, testSecret)
	if err != nil {
		t.Fatalf("access cookie does not validate: %v", err)
	}
	if claims.Scope != "authentication" {
		t.Errorf("scope = %q, want authentication", claims.Scope)
	}
	if claims.UserID != repo.user.UserID || claims.DeviceFingerprint != "fp-1" {
		t.Errorf("claims wrong: %+v", claims)
	}

	var body models.TokenRefreshResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.AccessExpiry.After(time.Now()) {
		t.Errorf("accessExpiry not in the future: %v", body.AccessExpiry)
	}
}

func TestRefreshSessionRejectsAccessScopedToken(t *testing.T) {
	repo := newSessionRepo()
	app := newSessionApp(repo)

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	r.AddCookie(&http.Cookie{
		Name:  models.JWT.REFRESH_COOKIE_NAME,
		Value: signSessionToken(t, repo.user, "fp-1", "authentication", time.Now().Add(time.Hour)),
	})
	w := httptest.NewRecorder()

	app.refreshSession(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if findCookie(w.Result().Cookies(), models.JWT.ACCESS_COOKIE_NAME) != nil {
		t.Error("access cookie set despite rejection")
	}
}

func TestRefreshSessionRejectsUnknownDevice(t *testing.T) {
	repo := newSessionRepo()
	app := newSessionApp(repo)

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	r.AddCookie(&http.Cookie{
		Name:  models.JWT.REFRESH_COOKIE_NAME,
		Value: signSessionToken(t, repo.user, "fp-other", "refresh", time.Now().Add(time.Hour)),
	})
	w := httptest.NewRecorder()

	app.refreshSession(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLogoutRevokesDeviceAndClearsCookies(t *testing.T) {
	repo := newSessionRepo()
	app := newSessionApp(repo)

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	r.AddCookie(&http.Cookie{
		Name:  models.JWT.REFRESH_COOKIE_NAME,
		Value: signSessionToken(t, repo.user, "fp-1", "refresh", time.Now().Add(time.Hour)),
	})
	w := httptest.NewRecorder()

	app.logout(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(repo.deletedDevices) != 1 || repo.deletedDevices[0] != "device-1" {
		t.Errorf("deleted devices = %v, want [device-1]", repo.deletedDevices)
	}

	cookies := w.Result().Cookies()
	for _, name := range []string{models.JWT.ACCESS_COOKIE_NAME, models.JWT.REFRESH_COOKIE_NAME} {
		cleared := findCookie(cookies, name)
		if cleared == nil {
			t.Fatalf("%s cookie not cleared", name)
		}
		if cleared.Value != "" || cleared.MaxAge >= 0 {
			t.Errorf("%s cookie not expired: value=%q maxAge=%d", name, cleared.Value, cleared.MaxAge)
		}
	}
}

func TestLogoutWithoutCookieStillSucceeds(t *testing.T) {
	repo := newSessionRepo()
	app := newSessionApp(repo)

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	w := httptest.NewRecorder()

	app.logout(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(repo.deletedDevices) != 0 {
		t.Errorf("deleted devices = %v, want none", repo.deletedDevices)
	}
	if findCookie(w.Result().Cookies(), models.JWT.REFRESH_COOKIE_NAME) == nil {
		t.Error("refresh cookie not cleared")
	}
}
