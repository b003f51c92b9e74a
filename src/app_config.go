package main

import (
	"time"

	"github.com/0xPetra/zuzagorauth/pkg/logger"
	"github.com/0xPetra/zuzagorauth/pkg/rabbitmq"
	"github.com/0xPetra/zuzagorauth/pkg/utilities"
	"github.com/0xPetra/zuzagorauth/src/tickets"
)

type TicketEntryJson struct {
	TicketType  string    `json:"ticket_type"`
	EventID     string    `json:"event_id"`
	ProductID   string    `json:"product_id"`
	EventName   string    `json:"event_name"`
	ProductName string    `json:"product_name"`
	PublicKey   [2]string `json:"public_key"`
}

func (tej TicketEntryJson) ConvertToDomain() tickets.Entry {
	return tickets.Entry{
		TicketType:  tickets.TicketType(tej.TicketType),
		EventID:     tej.EventID,
		ProductID:   tej.ProductID,
		EventName:   tej.EventName,
		ProductName: tej.ProductName,
		PublicKey:   tickets.EdDSAPublicKey(tej.PublicKey),
	}
}

type AppConfigJson struct {
	Logger             logger.LoggerConfigJson     `json:"logger"`
	Rabbitmq           rabbitmq.RabbitmqConfigJson `json:"rabbitmq"`
	RestApiPort        uint16                      `json:"rest_api_port"`
	AllowedOrigin      string                      `json:"allowed_origin"`
	SessionCookieName  string                      `json:"session_cookie_name"`
	SecureCookies      bool                        `json:"secure_cookies"`
	SupportedEvents    []string                    `json:"supported_events"`
	WhitelistedTickets []TicketEntryJson           `json:"whitelisted_tickets"`
	NullifierDBPath    string                      `json:"nullifier_db_path"`
	VerifyingKeyPath   string                      `json:"verifying_key_path"`
	ProofTimeoutMs     int64                       `json:"proof_timeout_ms"`
}

type AppConfig struct {
	LoggerConf         logger.LoggerConfig
	RabbitmqConf       rabbitmq.RabbitmqConfig
	RestApiPort        uint16
	AllowedOrigin      string
	SessionCookieName  string
	SecureCookies      bool
	SupportedEvents    []string
	WhitelistedTickets []tickets.Entry
	NullifierDBPath    string
	VerifyingKeyPath   string
	ProofTimeout       time.Duration
}

func (acj AppConfigJson) ConvertToDomain() AppConfig {
	return AppConfig{
		LoggerConf:        acj.Logger.ConvertToDomain(),
		RabbitmqConf:      acj.Rabbitmq.ConvertToDomain(),
		RestApiPort:       acj.RestApiPort,
		AllowedOrigin:     acj.AllowedOrigin,
		SessionCookieName: acj.SessionCookieName,
		SecureCookies:     acj.SecureCookies,
		SupportedEvents:   acj.SupportedEvents,
		WhitelistedTickets: utilities.ConvertJsonArrayToDomain[
			TicketEntryJson,
			tickets.Entry,
		](acj.WhitelistedTickets),
		NullifierDBPath:  acj.NullifierDBPath,
		VerifyingKeyPath: acj.VerifyingKeyPath,
		ProofTimeout:     time.Duration(acj.ProofTimeoutMs) * time.Millisecond,
	}
}

func (ac AppConfig) GetLoggerConfig() logger.LoggerConfig {
	return ac.LoggerConf
}

func (ac AppConfig) GetRabbitmqConfig() rabbitmq.RabbitmqConfig {
	return ac.RabbitmqConf
}

func (ac AppConfig) GetRestApiPort() uint16 {
	return ac.RestApiPort
}
