package jwtauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-secret-with-enough-length-0123456789"

func testUser(role string) models.User {
	return models.User{
		ID:          primitive.NewObjectID(),
		EnglishName: "Chan Tai Man",
		StudentID:   "s1001",
		Email:       "tm@example.com",
		Password:    "$2a$12$hashhashhash",
		IPAddress:   "10.0.0.1",
		Role:        role,
	}
}

func TestSignAndParse(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	u := testUser(models.RoleStudent)

	tok, err := iss.Sign(u)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	claims, err := iss.Parse(tok)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.User.ID != u.ID {
		t.Errorf("User.ID = %v, want %v", claims.User.ID, u.ID)
	}
	if claims.User.StudentID != "s1001" {
		t.Errorf("User.StudentID = %q, want s1001", claims.User.StudentID)
	}
	if claims.User.Password != "" {
		t.Errorf("User.Password = %q, want empty", claims.User.Password)
	}
	if claims.Subject != u.ID.Hex() {
		t.Errorf("Subject = %q, want %q", claims.Subject, u.ID.Hex())
	}
}

func TestSign_PayloadHasNoSecrets(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	tok, err := iss.Sign(testUser(models.RoleStudent))
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d parts, want 3", len(parts))
	}
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		t.Fatalf("DecodeSegment() error = %v", err)
	}
	for _, leak := range []string{"password", "hashhash", "ip_address", "10.0.0.1"} {
		if strings.Contains(string(payload), leak) {
			t.Errorf("payload contains %q", leak)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	good, _ := iss.Sign(testUser(models.RoleStudent))

	expired := NewIssuer(testSecret, -time.Minute)
	old, _ := expired.Sign(testUser(models.RoleStudent))

	other := NewIssuer("another-secret-entirely-0123456789abcdef", time.Hour)
	foreign, _ := other.Sign(testUser(models.RoleStudent))

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"tampered", good + "x"},
		{"expired", old},
		{"wrong secret", foreign},
		{"alg none", none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := iss.Parse(tt.token); err != ErrInvalidToken {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	tok, _ := iss.Sign(testUser(models.RoleStudent))

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := iss.Middleware(zap.NewNop())(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "No token provided"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "No token provided"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "No token provided"},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"valid token", "Bearer " + tok, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + tok, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims = nil
			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantMsg != "" {
				var body map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("json unmarshal error: %v", err)
				}
				if body["message"] != tt.wantMsg {
					t.Errorf("message = %q, want %q", body["message"], tt.wantMsg)
				}
			}
			if tt.wantStatus == http.StatusOK && (gotClaims == nil || gotClaims.User.StudentID != "s1001") {
				t.Errorf("claims not stored in context: %+v", gotClaims)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireRole(models.RoleAdmin)(ok)

	tests := []struct {
		name       string
		claims     *Claims
		wantStatus int
	}{
		{"no claims", nil, http.StatusUnauthorized},
		{"student", &Claims{User: testUser(models.RoleStudent)}, http.StatusForbidden},
		{"admin", &Claims{User: testUser(models.RoleAdmin)}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
