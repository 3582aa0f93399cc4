package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"invoicegate/internal/port"
)

type pinger struct {
	db *sqlx.DB
}

// NewPinger reports database reachability for readiness probes.
func NewPinger(db *sqlx.DB) port.Pinger {
	return &pinger{db: db}
}

func (p *pinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
