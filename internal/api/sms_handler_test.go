package api

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"hampuff/hampuff/internal/constants"
)

type mockClassifier struct {
	handleFunc func(ctx context.Context, body, sender string) string
	gotBody    string
	gotSender  string
}

func (m *mockClassifier) HandleMessage(ctx context.Context, body, sender string) string {
	m.gotBody = body
	m.gotSender = sender
	if m.handleFunc != nil {
		return m.handleFunc(ctx, body, sender)
	}
	return "ok"
}

func decodeTwiML(t *testing.T, raw []byte) string {
	t.Helper()
	var resp struct {
		XMLName xml.Name `xml:"Response"`
		Message string   `xml:"Message"`
	}
	if err := xml.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("response is not valid TwiML: %v\n%s", err, raw)
	}
	return resp.Message
}

func TestSMSHandlerPostForm(t *testing.T) {
	classifier := &mockClassifier{
		handleFunc: func(ctx context.Context, body, sender string) string {
			return "Go shit your pants"
		},
	}

	form := url.Values{}
	form.Set("Body", "shit happens")
	form.Set("From", "+15551234567")

	req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	SMSHandler(classifier)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("expected application/xml content type, got %q", ct)
	}
	if classifier.gotBody != "shit happens" {
		t.Errorf("classifier received body %q", classifier.gotBody)
	}
	if classifier.gotSender != "+15551234567" {
		t.Errorf("classifier received sender %q", classifier.gotSender)
	}
	if msg := decodeTwiML(t, rec.Body.Bytes()); msg != "Go shit your pants" {
		t.Errorf("unexpected TwiML message %q", msg)
	}
}

func TestSMSHandlerGetQuery(t *testing.T) {
	classifier := &mockClassifier{}

	req := httptest.NewRequest(http.MethodGet, "/sms?Body=hampuffe&From=%2B15551234567", nil)
	rec := httptest.NewRecorder()

	SMSHandler(classifier)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if classifier.gotBody != "hampuffe" {
		t.Errorf("classifier received body %q", classifier.gotBody)
	}
	if classifier.gotSender != "+15551234567" {
		t.Errorf("classifier received sender %q", classifier.gotSender)
	}
}

func TestSMSHandlerEmptyBody(t *testing.T) {
	called := false
	classifier := &mockClassifier{
		handleFunc: func(ctx context.Context, body, sender string) string {
			called = true
			return "should not happen"
		},
	}

	for _, body := range []string{"", "   ", "\t\n"} {
		form := url.Values{}
		form.Set("Body", body)
		form.Set("From", "+15551234567")

		req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		SMSHandler(classifier)(rec, req)

		if msg := decodeTwiML(t, rec.Body.Bytes()); msg != constants.MsgEmptyBody {
			t.Errorf("body %q: expected empty-body reply, got %q", body, msg)
		}
	}
	if called {
		t.Error("classifier must not run for blank bodies")
	}
}

func TestSMSHandlerEscapesReply(t *testing.T) {
	classifier := &mockClassifier{
		handleFunc: func(ctx context.Context, body, sender string) string {
			return "sms://+1-802-247-7833 <ok & done>"
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/sms?Body=KBTV", nil)
	rec := httptest.NewRecorder()

	SMSHandler(classifier)(rec, req)

	raw := rec.Body.String()
	if strings.Contains(raw, "<ok") {
		t.Errorf("reply was not XML-escaped: %s", raw)
	}
	if msg := decodeTwiML(t, rec.Body.Bytes()); msg != "sms://+1-802-247-7833 <ok & done>" {
		t.Errorf("round-tripped message %q", msg)
	}
}
