package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/config"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/notify"
)

const appName = "Church Portal"

// InitNotifiers registers a notifier for every channel that has credentials.
// Channels left out fall back to logging.
func InitNotifiers(cfg *config.Config) (*notify.Dispatcher, func()) {
	d := notify.NewDispatcher()
	closer := func() {}

	if cfg.SendgridAPIKey != "" {
		d.Register(model.ChannelEmail, notify.NewEmailNotifier(cfg.SendgridAPIKey, appName, cfg.MailFrom))
		log.Info().Msg("Email reminders via SendGrid")
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		d.Register(model.ChannelSMS, notify.NewSMSNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom))
		log.Info().Msg("SMS reminders via Twilio")
	}
	if cfg.MQTTBrokerURL != "" {
		host, _ := os.Hostname()
		client, err := notify.NewMQTTClient(cfg.MQTTBrokerURL, fmt.Sprintf("portal-%s-%d", host, os.Getpid()))
		if err != nil {
			log.Error().Err(err).Str("broker", cfg.MQTTBrokerURL).Msg("MQTT unavailable, push reminders will only be logged")
		} else {
			d.Register(model.ChannelPush, notify.NewPushNotifier(client))
			closer = func() { client.Disconnect(250) }
			log.Info().Str("broker", cfg.MQTTBrokerURL).Msg("Push reminders via MQTT")
		}
	}
	return d, closer
}
