package dispatch

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioCaller places a voice call that speaks the reminder message.
type TwilioCaller struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioCaller(accountSID, authToken, from string) *TwilioCaller {
	return &TwilioCaller{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioCaller) PlaceCall(ctx context.Context, phone, message string) error {
	if t.client == nil {
		return fmt.Errorf("twilio client not initialised")
	}

	twiml, err := sayTwiml(message)
	if err != nil {
		return fmt.Errorf("twilio twiml encode error: %w", err)
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(phone)
	params.SetFrom(t.from)
	params.SetTwiml(twiml)

	resp, err := t.client.Api.CreateCall(params)
	if err != nil {
		return fmt.Errorf("twilio create call error: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	slog.InfoContext(ctx, "twilio call placed",
		slog.String("phone", phone),
		slog.String("call_sid", sid),
	)
	return nil
}

// sayTwiml builds the minimal voice response, XML-escaping the spoken text.
func sayTwiml(message string) (string, error) {
	type say struct {
		XMLName xml.Name `xml:"Say"`
		Text    string   `xml:",chardata"`
	}
	type response struct {
		XMLName xml.Name `xml:"Response"`
		Say     say
	}

	out, err := xml.Marshal(response{Say: say{Text: message}})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
