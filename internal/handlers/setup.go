package handlers

import (
	"github.com/chiromo-health/cmhs-backend/internal/config"
	"github.com/chiromo-health/cmhs-backend/internal/services"
)

// Package-level collaborators wired from main at startup.
var (
	notifier          *services.Notifier
	cloudinaryService *services.CloudinaryService
	paymentService    *services.PaymentService
	ussdRouter        *services.USSDRouter
)

// Init wires the gateway clients into the handlers. Cloudinary is optional;
// uploads fail gracefully when it is absent.
func Init(cfg *config.Config) error {
	notifier = services.NewNotifier(cfg)

	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		svc, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return err
		}
		cloudinaryService = svc
	}

	paymentService = &services.PaymentService{
		Gateway:     services.NewMpesaClient(cfg),
		Store:       services.PostgresTransactionStore{},
		Users:       services.PostgresUserDirectory{},
		Notifier:    notifier,
		Amount:      cfg.PremiumAmount,
		CallbackURL: cfg.CallbackURL(),
	}

	ussdRouter = &services.USSDRouter{
		SMS:            notifier.SMS,
		EmergencyPhone: cfg.USSDEmergencyPhone,
		HelplinePhone:  cfg.USSDHelplinePhone,
	}

	return nil
}
