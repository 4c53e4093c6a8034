package main

import (
	"github.com/r1cko23/Novo-pets-website-sub001/internal/notification"
	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/handler"
	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/repository"
	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/service"
	"github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/validator"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/app"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/clock"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/config"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/kafka"
	kafka_config "github.com/r1cko23/Novo-pets-website-sub001/pkg/kafka/config"
)

const ServiceName = "scheduling"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting scheduling service")

	api := initAPI(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(api)
	serverApp.Run()
}

func initAPI(cfg *config.Config) *handler.API {
	catalog, err := service.NewCatalog(cfg)
	if err != nil {
		cfg.Log.Fatal("Invalid business-hours configuration", "error", err)
	}
	cfg.Log.Info("Slot catalog derived", "slots", catalog.Slots())

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	groomerRepo := repository.NewMongoGroomerRepository(cfg)
	holdRepo := repository.NewMongoHoldRepository(cfg)

	notifier := initNotifier(cfg)

	availabilityService := service.NewAvailabilityService(catalog, bookingRepo, groomerRepo, cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		groomerRepo,
		holdRepo,
		catalog,
		validator.NewBookingValidator(cfg.Log),
		notifier,
		cfg,
	)
	holdService := service.NewHoldService(holdRepo, availabilityService, catalog, clock.NewSystem(), cfg)

	cfg.Log.Info("Scheduling services initialized", "database", cfg.MongoDatabaseName)

	return handler.NewAPI(bookingService, availabilityService, holdService, cfg.Log)
}

func initNotifier(cfg *config.Config) notification.Notifier {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingsTopic, cfg.BookingsTopic+".dlq")
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, falling back to log notifier", "error", err)
		return notification.NewLogNotifier(cfg.Log)
	}

	return notification.NewKafkaNotifier(producer, ServiceName)
}
