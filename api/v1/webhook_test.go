package v1

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidSignature(t *testing.T) {
	body := []byte(`{"external_id":"t1"}`)
	secret := "whsec_test"

	if !validSignature(body, secret, signBody(body, secret)) {
		t.Fatal("correct signature must pass")
	}
	if validSignature(body, secret, signBody(body, "other_secret")) {
		t.Fatal("signature from wrong secret must fail")
	}
	if validSignature([]byte(`{"external_id":"t2"}`), secret, signBody(body, secret)) {
		t.Fatal("signature over different body must fail")
	}
	if validSignature(body, secret, "") {
		t.Fatal("missing signature must fail when a secret is set")
	}
}

func TestValidSignatureSkippedWithoutSecret(t *testing.T) {
	body := []byte(`{"external_id":"t1"}`)

	if !validSignature(body, "", "") {
		t.Fatal("verification must be skipped when no secret is configured")
	}
	if !validSignature(body, "", "deadbeef") {
		t.Fatal("stray signature headers are ignored when no secret is configured")
	}
}

func TestValidCronSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(authHeader string) *gin.Context {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/api/v1/cron/verify-tasks", nil)
		if authHeader != "" {
			c.Request.Header.Set("Authorization", authHeader)
		}
		return c
	}

	if !validCronSecret(newCtx("Bearer cron_secret"), "cron_secret") {
		t.Fatal("matching secret must pass")
	}
	if validCronSecret(newCtx("Bearer wrong"), "cron_secret") {
		t.Fatal("wrong secret must fail")
	}
	if validCronSecret(newCtx(""), "cron_secret") {
		t.Fatal("missing header must fail")
	}
	if validCronSecret(newCtx("Bearer anything"), "") {
		t.Fatal("unset secret must reject all callers")
	}
}
