package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"docflow/internal/backend"
	"docflow/internal/config"
	"docflow/internal/email"
	"docflow/internal/service"
)

// ErrSessionClosed indica que el comando termino en logout.
var ErrSessionClosed = errors.New("session closed")

const loginHint = "Sesion cerrada. Ejecuta `docflow login` para continuar."

// App agrupa las dependencias de los comandos que usan la sesion.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	session *service.SessionManager
	client  *backend.Client
	listing *service.ListingService
	mailer  email.Sender
	closeFn func()
	now     func() time.Time
}

func newApp(ctx context.Context, opts Options, logger *zap.Logger) (*App, error) {
	open := opts.OpenStore
	if open == nil {
		open = OpenSessionStore
	}
	store, closeFn, err := open(ctx, opts.Config, logger)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	loc, err := opts.Config.DeadlineLocation()
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("deadline timezone: %w", err)
	}

	app := &App{
		cfg:     opts.Config,
		logger:  logger,
		in:      opts.In,
		out:     opts.Out,
		errOut:  opts.Err,
		closeFn: closeFn,
		now:     opts.Now,
	}
	navigator := service.NavigatorFunc(func(string) {
		fmt.Fprintln(app.errOut, loginHint)
	})
	app.session = service.NewSessionManager(logger, store, navigator, opts.Config.EntryRoute, opts.Config.SessionTTL).WithClock(opts.Now)
	app.client = backend.NewClient(opts.Config.APIBaseURL, app.session, opts.Config.APITimeout, logger)
	app.listing = service.NewListingService(logger, app.client, loc)
	app.mailer = opts.Mailer
	if app.mailer == nil {
		app.mailer = newMailer(opts.Config, logger)
	}
	return app, nil
}

func newMailer(cfg *config.Config, logger *zap.Logger) email.Sender {
	if cfg.SMTPHost == "" {
		return email.NewDisabledSender("SMTP_HOST not configured")
	}
	sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
	if err != nil {
		logger.Warn("smtp sender init failed", zap.Error(err))
		return email.NewDisabledSender(err.Error())
	}
	return sender
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// requireSession corre la verificacion de sesion antes de mostrar datos.
func (a *App) requireSession() error {
	if a.session.Check() != service.SessionAllowed {
		return ErrSessionClosed
	}
	return nil
}

// backendErr cierra la sesion cuando la API rechaza el token.
func (a *App) backendErr(err error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		a.logger.Info("upstream rejected session")
		a.session.Logout()
		return ErrSessionClosed
	}
	return err
}
