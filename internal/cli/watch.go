package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docflow/internal/email"
)

func newWatchCmd(withApp appRunner, defaultSchedule string) *cobra.Command {
	var schedule, notify string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Revisa periodicamente los documentos vencidos o por vencer",
		RunE: withApp(func(app *App, cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), app, schedule, notify)
		}),
	}
	if defaultSchedule == "" {
		defaultSchedule = "@every 5m"
	}
	cmd.Flags().StringVar(&schedule, "schedule", defaultSchedule, "expresion cron del barrido")
	cmd.Flags().StringVar(&notify, "notify", "", "email al que enviar el resumen de cada barrido")
	return cmd
}

// runWatch barre una vez al arrancar y despues segun schedule, hasta que se
// cancele ctx o la sesion se cierre.
func runWatch(ctx context.Context, app *App, schedule, notify string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var closed atomic.Bool
	sweep := func() {
		err := app.sweep(ctx, notify)
		switch {
		case err == nil:
		case errors.Is(err, ErrSessionClosed):
			closed.Store(true)
			cancel()
		case ctx.Err() != nil:
		default:
			app.logger.Warn("watch sweep failed", zap.Error(err))
			fmt.Fprintf(app.errOut, "error: %v\n", err)
		}
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, sweep); err != nil {
		return fmt.Errorf("schedule invalido %q: %w", schedule, err)
	}

	sweep()
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	if closed.Load() {
		return ErrSessionClosed
	}
	return nil
}

func (a *App) sweep(ctx context.Context, notify string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	urgent, err := a.listing.UrgentDocuments(ctx)
	if err != nil {
		return a.backendErr(err)
	}
	now := a.now()
	renderHeader(a.out, fmt.Sprintf("Urgentes %s", now.Format(time.DateTime)))
	renderDocuments(a.out, urgent)

	if notify == "" {
		return nil
	}
	subject, body, ok := email.UrgentDigest(urgent, now)
	if !ok {
		return nil
	}
	if err := a.mailer.Send(ctx, notify, subject, body); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	a.logger.Info("digest sent", zap.Int("documents", len(urgent)))
	return nil
}
