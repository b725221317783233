package middleware

import (
	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/database"
	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/session"
	"github.com/clinicore/clinicore/internal/ws"
)

// Middleware holds all HTTP middleware
type Middleware struct {
	rdb       *database.Redis
	log       *logger.Logger
	cfg       *config.Config
	sink      audit.Sink
	sessions  session.Store
	publisher ws.Publisher
	tokens    *auth.TokenService
}

// New creates a new Middleware instance
func New(rdb *database.Redis, log *logger.Logger, cfg *config.Config, sink audit.Sink, sessions session.Store, publisher ws.Publisher, tokens *auth.TokenService) *Middleware {
	return &Middleware{
		rdb:       rdb,
		log:       log,
		cfg:       cfg,
		sink:      sink,
		sessions:  sessions,
		publisher: publisher,
		tokens:    tokens,
	}
}
