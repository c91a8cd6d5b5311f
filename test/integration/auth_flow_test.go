//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"
)

func TestAuth_SignupVerifyLoginFlow(t *testing.T) {
	cfg := LoadCfg()
	MailhogPurge(t, cfg.MailhogAPI)

	db := DBOpen(t, cfg.DBDSN)
	defer db.Close()

	email := RandEmail("flow")
	defer DeleteUser(t, db, email)

	base := cfg.APIBase + "/api/v1/auth"

	status, body := PostJSON(t, base+"/signup", "", map[string]string{
		"username":   "it-reader",
		"email":      email,
		"first_name": "Ana",
		"last_name":  "Reader",
		"password":   "s3cret-pass",
	})
	if status != http.StatusCreated {
		t.Fatalf("signup: status %d body %v", status, body)
	}

	rep := WaitMailhogCount(t, cfg.MailhogAPI, 1, 25*time.Second)
	token := ExtractLinkToken(t, rep.Items[0].Content.Body)

	status, body = GetJSON(t, base+"/verify/"+token, "")
	if status != http.StatusOK {
		t.Fatalf("verify: status %d body %v", status, body)
	}

	status, body = PostJSON(t, base+"/login", "", map[string]string{
		"email": email, "password": "s3cret-pass",
	})
	if status != http.StatusOK {
		t.Fatalf("login: status %d body %v", status, body)
	}
	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("login: missing tokens in %v", body)
	}

	status, me := GetJSON(t, base+"/me", access)
	if status != http.StatusOK || me["email"] != email {
		t.Fatalf("me: status %d body %v", status, me)
	}

	status, body = GetJSON(t, base+"/refresh_token", refresh)
	if status != http.StatusOK || body["access_token"] == "" {
		t.Fatalf("refresh: status %d body %v", status, body)
	}

	status, body = GetJSON(t, base+"/logout", access)
	if status != http.StatusOK {
		t.Fatalf("logout: status %d body %v", status, body)
	}

	status, body = GetJSON(t, base+"/me", access)
	if status != http.StatusForbidden || body["error_code"] != "invalid_token" {
		t.Fatalf("revoked token reuse: status %d body %v", status, body)
	}
}

func TestAuth_PasswordResetFlow(t *testing.T) {
	cfg := LoadCfg()
	MailhogPurge(t, cfg.MailhogAPI)

	db := DBOpen(t, cfg.DBDSN)
	defer db.Close()

	email := RandEmail("reset")
	defer DeleteUser(t, db, email)

	base := cfg.APIBase + "/api/v1/auth"

	status, body := PostJSON(t, base+"/signup", "", map[string]string{
		"username": "it-reader", "email": email, "password": "old-pass-123",
	})
	if status != http.StatusCreated {
		t.Fatalf("signup: status %d body %v", status, body)
	}
	WaitMailhogCount(t, cfg.MailhogAPI, 1, 25*time.Second)
	MailhogPurge(t, cfg.MailhogAPI)

	status, body = PostJSON(t, base+"/password-reset-request", "", map[string]string{"email": email})
	if status != http.StatusOK {
		t.Fatalf("reset request: status %d body %v", status, body)
	}

	rep := WaitMailhogCount(t, cfg.MailhogAPI, 1, 25*time.Second)
	token := ExtractLinkToken(t, rep.Items[0].Content.Body)

	status, body = PostJSON(t, base+"/password-reset-confirm/"+token, "", map[string]string{
		"new_password": "new-pass-456", "confirm_new_password": "new-pass-456",
	})
	if status != http.StatusOK {
		t.Fatalf("reset confirm: status %d body %v", status, body)
	}

	status, body = PostJSON(t, base+"/login", "", map[string]string{
		"email": email, "password": "old-pass-123",
	})
	if status != http.StatusBadRequest || body["error_code"] != "invalid_email_or_password" {
		t.Fatalf("old password still accepted: status %d body %v", status, body)
	}

	status, body = PostJSON(t, base+"/login", "", map[string]string{
		"email": email, "password": "new-pass-456",
	})
	if status != http.StatusOK {
		t.Fatalf("new password login: status %d body %v", status, body)
	}
}

func TestAuth_UnknownResetEmailLooksIdentical(t *testing.T) {
	cfg := LoadCfg()
	MailhogPurge(t, cfg.MailhogAPI)

	base := cfg.APIBase + "/api/v1/auth"
	status, body := PostJSON(t, base+"/password-reset-request", "", map[string]string{
		"email": RandEmail("ghost"),
	})
	if status != http.StatusOK {
		t.Fatalf("reset request for unknown email: status %d body %v", status, body)
	}
}
