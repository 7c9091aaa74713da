package twilio

import (
	"fmt"

	"github.com/Daskott/contacts/server/logger"
	"github.com/Daskott/contacts/shared"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var logg = logger.NewLogger()

// Messenger sends a text message to a phone number.
type Messenger interface {
	SendMessage(to, msg string) error
}

type ClientWrapper struct {
	client  *twilio.RestClient
	config  shared.TwilioConfig
	devMode bool
}

// NewClient returns a twilio backed Messenger. In dev mode messages are only logged.
func NewClient(config shared.TwilioConfig, devMode bool) *ClientWrapper {
	client := twilio.NewRestClientWithParams(twilio.RestClientParams{
		Username: config.AccountSid,
		Password: config.AuthToken,
	})

	return &ClientWrapper{
		client:  client,
		config:  config,
		devMode: devMode,
	}
}

func (cw *ClientWrapper) SendMessage(to, msg string) error {
	if cw.devMode {
		logg.Infof("[dev] SMS to %s: %s", to, msg)
		return nil
	}

	params := &openapi.CreateMessageParams{}
	params.SetMessagingServiceSid(cw.config.MessagingServiceSid)
	params.SetTo(to)
	params.SetBody(msg)

	resp, err := cw.client.ApiV2010.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("SendMessage: %v", err)
	}

	if resp.ErrorMessage != nil && *resp.ErrorMessage != "" {
		return fmt.Errorf("SendMessage: %s", *resp.ErrorMessage)
	}

	return nil
}
