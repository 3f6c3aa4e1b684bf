package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewSMSLocalClient_Defaults(t *testing.T) {
	client := NewSMSLocalClient("api-key", "", "")
	if client.APIKey != "api-key" {
		t.Errorf("APIKey = %q, want %q", client.APIKey, "api-key")
	}
	if client.BaseURL != "https://www.smslocal.com/dev/bulkV2" {
		t.Errorf("BaseURL = %q, want default", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should be set")
	}
	if client.HTTPClient.Timeout != defaultTimeout {
		t.Errorf("HTTPClient.Timeout = %v, want %v", client.HTTPClient.Timeout, defaultTimeout)
	}
}

func TestNewSMSLocalClient_CustomBaseURL(t *testing.T) {
	customURL := "https://custom.sms.local/api"
	client := NewSMSLocalClient("api-key", customURL, "")
	if client.BaseURL != customURL {
		t.Errorf("BaseURL = %q, want %q", client.BaseURL, customURL)
	}
}

func TestSendOTP_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want %q", r.Method, http.MethodPost)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "test-api-key" {
			t.Errorf("Authorization = %q, want test-api-key", r.Header.Get("Authorization"))
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Decode body: %v", err)
		}
		if body["route"] != "otp" {
			t.Errorf("route = %v, want otp", body["route"])
		}
		if body["numbers"] != "639171234567" {
			t.Errorf("numbers = %v, want 639171234567", body["numbers"])
		}
		if body["variables"] != "123456" {
			t.Errorf("variables = %v, want 123456", body["variables"])
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewSMSLocalClient("test-api-key", server.URL, "")
	if err := client.SendOTP(context.Background(), "639171234567", "123456"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
}

func TestSendOTP_MissingAPIKey(t *testing.T) {
	client := NewSMSLocalClient("", "", "")
	err := client.SendOTP(context.Background(), "639171234567", "123456")
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key not configured") {
		t.Errorf("error message = %q, want to contain 'API key not configured'", err.Error())
	}
}

func TestSendOTP_Non200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid request"}`))
	}))
	defer server.Close()

	client := NewSMSLocalClient("api-key", server.URL, "")
	err := client.SendOTP(context.Background(), "639171234567", "123456")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "status=400") {
		t.Errorf("error message = %q, want to contain 'status=400'", err.Error())
	}
	if !strings.Contains(err.Error(), "invalid request") {
		t.Errorf("error message = %q, want to contain response body", err.Error())
	}
}

func TestSendOTP_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewSMSLocalClient("api-key", server.URL, "")
	if err := client.SendOTP(ctx, "639171234567", "123456"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
