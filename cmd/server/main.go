// cmd/server/main.go
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/controller"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/db"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/events"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/phone"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/repository"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/service"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/uploads"
	"github.com/jamnasindoinfo-pixel/whatsapp-blast-new-working/internal/waha"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	messageRepo := &repository.MessageRepository{DB: db.DB}
	replyRepo := &repository.ReplyRepository{DB: db.DB}
	contactRepo := &repository.ContactRepository{DB: db.DB}
	statsRepo := &repository.StatsRepository{DB: db.DB}

	wahaClient := waha.NewClient(
		env("WAHA_URL", "http://localhost:3000"),
		os.Getenv("WAHA_API_KEY"),
		os.Getenv("MEDIA_HOST"),
	)

	var publisher events.Publisher = events.NoopPublisher{}
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		p, err := events.NewAMQPPublisher(amqpURL, "wa_events")
		if err != nil {
			log.Warn().Err(err).Msg("event queue unavailable, events disabled")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	imageStore := uploads.NewStore(time.Hour)
	defer imageStore.Close()

	countryCode := env("COUNTRY_CODE", phone.DefaultCountryCode)
	defaultSession := env("SESSION_NAME", "default")

	dispatcher := &service.Dispatcher{
		CampaignRepo:   campaignRepo,
		MessageRepo:    messageRepo,
		ContactRepo:    contactRepo,
		Gateway:        wahaClient,
		Events:         publisher,
		CountryCode:    countryCode,
		DefaultSession: defaultSession,
	}

	reconciler := &service.Reconciler{
		CampaignRepo: campaignRepo,
		MessageRepo:  messageRepo,
		ReplyRepo:    replyRepo,
		ContactRepo:  contactRepo,
		Events:       publisher,
	}

	campaignService := &service.CampaignService{
		CampaignRepo:   campaignRepo,
		MessageRepo:    messageRepo,
		StatsRepo:      statsRepo,
		CountryCode:    countryCode,
		DefaultSession: defaultSession,
	}

	port := env("PORT", "4000")
	publicBaseURL := env("PUBLIC_BASE_URL", "http://localhost:"+port)

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		Dispatcher:      dispatcher,
		MessageRepo:     messageRepo,
		ReplyRepo:       replyRepo,
	}
	messageController := &controller.MessageController{
		Dispatcher:  dispatcher,
		MessageRepo: messageRepo,
	}
	replyController := &controller.ReplyController{ReplyRepo: replyRepo}
	contactController := &controller.ContactController{ContactRepo: contactRepo}
	webhookController := &controller.WebhookController{Reconciler: reconciler}
	sessionController := &controller.SessionController{
		Waha:           wahaClient,
		DefaultSession: defaultSession,
	}
	uploadController := &controller.UploadController{
		Store:         imageStore,
		PublicBaseURL: publicBaseURL,
	}

	r := chi.NewRouter()

	// Campaign routes
	r.Post("/api/campaigns", campaignController.CreateCampaign)
	r.Get("/api/campaigns", campaignController.ListCampaigns)
	r.Get("/api/campaigns/{id}", campaignController.GetCampaign)
	r.Post("/api/campaigns/{id}/start", campaignController.StartCampaign)
	r.Post("/api/campaigns/{id}/stop", campaignController.StopCampaign)
	r.Delete("/api/campaigns/{id}", campaignController.DeleteCampaign)
	r.Get("/api/campaigns/{id}/messages", campaignController.ListCampaignMessages)
	r.Get("/api/campaigns/{id}/replies", campaignController.ListCampaignReplies)
	r.Post("/api/blast/text", campaignController.BlastText)
	r.Post("/api/blast/image", campaignController.BlastImage)
	r.Get("/api/statistics", campaignController.GetStatistics)

	// Message routes
	r.Post("/api/send-message", messageController.SendMessage)
	r.Get("/api/messages/phone/{phone}", messageController.MessagesByPhone)

	// Reply routes
	r.Get("/api/replies/unread", replyController.UnreadReplies)
	r.Get("/api/replies/phone/{phone}", replyController.RepliesByPhone)
	r.Post("/api/replies/{id}/read", replyController.MarkReplyRead)

	// Contact routes
	r.Get("/api/contacts", contactController.ListContacts)
	r.Post("/api/contacts/{phone}/block", contactController.BlockContact)

	// Gateway webhook + session management
	r.Post("/api/webhook", webhookController.HandleWebhook)
	r.Get("/api/sessions", sessionController.ListSessions)
	r.Get("/api/sessions/{sessionName}", sessionController.SessionStatus)
	r.Get("/api/session-status", sessionController.SessionStatus)
	r.Get("/api/qr-code", sessionController.QRCode)
	r.Get("/api/config", sessionController.Config)

	// Image uploads for image campaigns
	r.Post("/api/upload-image", uploadController.UploadImage)
	r.Get("/temp-images/{id}", uploadController.ServeImage)

	log.Info().Str("port", port).Msg("🚀 Server running")
	if err := http.ListenAndServe(fmt.Sprintf(":%s", port), r); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
