// Package service serves the student facing json api: portal login with a
// cached fallback, the student directory, chat and glitch reports.
package service

import (
	"context"
	"encoding/json"
	"net/http"
	"umsassist-backend/internal/components/assert"
	"umsassist-backend/internal/components/telemetry"
	"umsassist-backend/internal/glitch"
	"umsassist-backend/internal/scrapers/ums"
	"umsassist-backend/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// PortalAPI logs into the portal and scrapes a student's record.
type PortalAPI interface {
	Scrape(ctx context.Context, regNo, password string) (ums.Data, error)
}

// StoreAPI is the persistence the api depends on, store.Store implements it.
//
// note: fault injection point
type StoreAPI interface {
	GetStudent(ctx context.Context, regNo string) (store.StudentRecord, bool, error)
	SaveStudent(ctx context.Context, regNo string, record store.StudentRecord) error
	AllRegistrationNumbers(ctx context.Context) ([]string, error)
	HasRegistrationNumber(ctx context.Context, regNo string) (bool, error)

	SaveMessage(ctx context.Context, sender, recipient, text string) (store.Message, error)
	GetMessages(ctx context.Context, user, other string) ([]store.Message, error)
	MarkMessagesRead(ctx context.Context, recipient, sender string) (int64, error)
	GetConversations(ctx context.Context, user string) ([]store.Conversation, error)
	DeleteConversation(ctx context.Context, a, b string) (int64, error)

	SaveGlitchReport(ctx context.Context, report store.GlitchReport) (int64, error)
}

// RankingAPI fetches a student's standing from the external ranking service.
type RankingAPI interface {
	StudentInfo(ctx context.Context, regNo string) (json.RawMessage, error)
}

type Options struct {
	// CorsOrigins enables cross origin requests from the given origins.
	CorsOrigins []string
}

type Service struct {
	portal   PortalAPI
	store    StoreAPI
	ranking  RankingAPI
	notifier glitch.Notifier
	opts     Options
	tel      telemetry.API
}

func NewService(
	portal PortalAPI,
	store StoreAPI,
	ranking RankingAPI,
	notifier glitch.Notifier,
	opts Options,
	tel telemetry.API,
) Service {
	assert.NotNil(portal)
	assert.NotNil(store)
	assert.NotNil(ranking)
	assert.NotNil(notifier)
	assert.NotNil(tel)

	return Service{
		portal:   portal,
		store:    store,
		ranking:  ranking,
		notifier: notifier,
		opts:     opts,
		tel:      telemetry.NewScopedAPI("service", tel),
	}
}

func (s Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.traceRequests)
	if len(s.opts.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Post("/login", s.Login)
	r.Post("/get-student-info", s.StudentRank)

	r.Route("/api", func(api chi.Router) {
		api.Get("/search-users", s.SearchUsers)
		api.Post("/send-message", s.SendMessage)
		api.Get("/get-conversations", s.GetConversations)
		api.Get("/get-messages", s.GetMessages)
		api.Delete("/delete-conversation", s.DeleteConversation)
		api.Post("/report-glitch", s.ReportGlitch)
		api.Get("/get-student-info", s.GetStudentInfo)
	})

	return r
}
