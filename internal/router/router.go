package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	mem "doggo-community/internal/adapters/storage/memory"
	pg "doggo-community/internal/adapters/storage/postgres"
	"doggo-community/internal/domain/accounts"
	"doggo-community/internal/domain/chat"
	"doggo-community/internal/domain/events"
	"doggo-community/internal/domain/lostpets"
	"doggo-community/internal/domain/pets"
	"doggo-community/internal/domain/profiles"
	"doggo-community/internal/middleware"
	"doggo-community/internal/platform/bus"
	"doggo-community/internal/ports/auth"
	"doggo-community/internal/ports/places"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: fanout de cambios entre instancias. Sin redis los
	// watches siguen andando, solo que locales al proceso.
	Redis *redis.Client

	// Firma de los JWT que emite /auth/login.
	JWTSecret string
	JWTExpiry time.Duration

	// Opcional: proveedor de lugares. Nil => /places/nearby responde 503.
	Searcher places.Searcher
}

// NewRouter arma el árbol de rutas completo. El func de cierre apaga
// los watches y las suscripciones de redis; llamarlo en el shutdown.
func NewRouter(opts Options) (http.Handler, func()) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		accountRepo accounts.Repository
		profileRepo profiles.Repository
		petRepo     pets.Repository
		eventRepo   events.Repository
		lostPetRepo lostpets.Repository
		chatRepo    chat.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		accountRepo = pg.NewAccountRepo(db)
		profileRepo = pg.NewProfileRepo(db)
		petRepo = pg.NewPetRepo(db)
		eventRepo = pg.NewEventRepo(db)
		lostPetRepo = pg.NewLostPetRepo(db)
		chatRepo = pg.NewChatRepo(db)
	} else {
		accountRepo = mem.NewAccountRepo()
		profileRepo = mem.NewProfileRepo()
		petRepo = mem.NewPetRepo()
		eventRepo = mem.NewEventRepo()
		lostPetRepo = mem.NewLostPetRepo()
		chatRepo = mem.NewChatRepo()
	}

	var notifier bus.Notifier
	if opts.Redis != nil {
		notifier = bus.NewRedisNotifier(opts.Redis)
	}

	// Services por módulo
	accountsSvc := accounts.NewService(accountRepo, opts.JWTSecret, opts.JWTExpiry)
	profilesSvc := profiles.NewService(profileRepo)
	petsSvc := pets.NewService(petRepo)
	eventsSvc := events.NewService(eventRepo, notifier)
	lostPetsSvc := lostpets.NewService(lostPetRepo, notifier)
	chatSvc := chat.NewService(chatRepo, notifier)

	// Rutas por módulo
	accounts.RegisterRoutes(r, accountsSvc, profilesSvc)
	profiles.RegisterRoutes(r, profilesSvc)
	pets.RegisterRoutes(r, petsSvc, profilesSvc)
	events.RegisterRoutes(r, eventsSvc, func(ctx context.Context, eventID string) {
		// Borrar un evento se lleva su chat; best-effort.
		_ = chatSvc.PurgeEvent(ctx, eventID)
	})
	lostpets.RegisterRoutes(r, lostPetsSvc)
	chat.RegisterRoutes(r, chatSvc, eventsSvc)
	places.RegisterRoutes(r, opts.Searcher)

	// Con redis, cada instancia refresca sus watches cuando otra publica
	// un cambio en la colección.
	stops := []func(){}
	if notifier != nil {
		ctx := context.Background()
		stops = append(stops,
			listen(ctx, notifier, bus.TopicEvents, eventsSvc.Refresh),
			listen(ctx, notifier, bus.TopicLostPets, lostPetsSvc.Refresh),
			listen(ctx, notifier, bus.TopicChat, chatSvc.Refresh),
		)
	}

	shutdown := func() {
		for _, stop := range stops {
			stop()
		}
		eventsSvc.Close()
		lostPetsSvc.Close()
		chatSvc.Close()
	}

	return r, shutdown
}

func listen(ctx context.Context, notifier bus.Notifier, topic string, refresh func(context.Context)) func() {
	ch, stop, err := notifier.Subscribe(ctx, topic)
	if err != nil {
		return func() {}
	}
	go func() {
		for range ch {
			refresh(ctx)
		}
	}()
	return stop
}
