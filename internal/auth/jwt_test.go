package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/saulo-duarte/quizzical/internal/auth"
)

const testSecret = "a-test-secret-that-is-long-enough-for-hs256"
const testClientID = "client-123"

func TestInit(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Init() should panic on an empty secret")
			}
		}()

		auth.Init("")
	})

	t.Run("ValidSecret", func(t *testing.T) {
		auth.Init(testSecret)
	})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	auth.Init(testSecret)

	t.Run("ValidToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testClientID, 5*time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		claims, err := auth.ValidateJWT(tokenStr)
		if err != nil {
			t.Fatalf("ValidateJWT failed unexpectedly: %v", err)
		}
		if claims.ClientID != testClientID {
			t.Errorf("wrong ClientID. want %s, got %s", testClientID, claims.ClientID)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testClientID, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		_, err = auth.ValidateJWT(tokenStr)
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("want %v, got %v", jwt.ErrTokenExpired, err)
		}
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testClientID, time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		auth.Init("a-different-secret-used-to-verify")
		defer auth.Init(testSecret)

		_, err = auth.ValidateJWT(tokenStr)
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			t.Errorf("want signature error, got %v", err)
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	auth.Init(testSecret)
	token, _ := auth.GenerateJWT(testClientID, time.Minute)

	var seen string
	h := auth.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.ClientIDFromRequest(r)
	}))

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"NoToken", func(r *http.Request) {}, http.StatusUnauthorized},
		{"GarbageToken", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"BearerHeader", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"Cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token}) }, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("want status %d, got %d", tc.status, rec.Code)
			}
			if tc.status == http.StatusOK && seen != testClientID {
				t.Errorf("client id not propagated, got %q", seen)
			}
		})
	}
}

func TestIssueClient(t *testing.T) {
	auth.Init(testSecret)
	h := auth.NewHandler(time.Hour, false)

	rec := httptest.NewRecorder()
	h.IssueClient(rec, httptest.NewRequest(http.MethodPost, "/auth/client", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != auth.CookieName {
		t.Fatalf("expected jwt cookie, got %v", cookies)
	}
	claims, err := auth.ValidateJWT(cookies[0].Value)
	if err != nil || claims.ClientID == "" {
		t.Errorf("issued token does not validate: %v", err)
	}
}
