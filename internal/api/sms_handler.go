package api

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"

	"hampuff/hampuff/internal/constants"
)

// SMSClassifier is the classifier's sole public surface as the transport
// layer sees it.
type SMSClassifier interface {
	HandleMessage(ctx context.Context, body string, sender string) string
}

// twimlResponse is the carrier's reply envelope:
// <Response><Message>...</Message></Response>
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// SMSHandler handles GET/POST /sms webhooks from the carrier gateway.
func SMSHandler(classifier SMSClassifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := r.FormValue("Body")
		sender := r.FormValue("From")

		var reply string
		if strings.TrimSpace(body) == "" {
			reply = constants.MsgEmptyBody
		} else {
			reply = classifier.HandleMessage(r.Context(), body, sender)
		}

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(xml.Header))
		_ = xml.NewEncoder(w).Encode(twimlResponse{Message: reply})
	}
}
