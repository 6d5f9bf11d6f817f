// Package cli is the interactive front end of the store admin console: a
// read–eval–print loop over the session, the route gate, and one screen per
// managed collection.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"storeadmin/internal/config"
	"storeadmin/internal/logging"
	"storeadmin/internal/resource"
	"storeadmin/internal/rest"
	"storeadmin/internal/routes"
	"storeadmin/internal/session"
	"storeadmin/internal/storage"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Store
	gate    *routes.Gate
	api     *rest.Client
	screens map[string]*Screen

	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	sess := session.NewStore(storage.NewSQLiteRepository(db))
	if err := sess.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	}

	api := rest.NewClient(cfg.ServerBaseURL, cfg.RequestTimeout, sess.Token, log)

	a := &App{
		config:  cfg,
		log:     log,
		session: sess,
		gate:    routes.NewGate(sess),
		api:     api,
		screens: make(map[string]*Screen),
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	for _, schema := range resource.Catalog {
		s := NewScreen(schema, api, log)
		a.screens[s.Path()] = s
	}
	return a, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}
