package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docflow/internal/backend"
)

func newDevAPICmd(logger func() *zap.Logger, out io.Writer) *cobra.Command {
	var (
		addr     string
		secret   string
		tokenTTL time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dev-api",
		Short: "Levanta una API en memoria con datos de ejemplo",
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(gin.ReleaseMode)
			log := logger()
			fake := backend.NewFake(log, secret, tokenTTL)
			email, password := fake.SeedDemo(time.Now())

			server := &http.Server{
				Addr:              addr,
				Handler:           fake.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(ctx)
			}()

			fmt.Fprintf(out, "API de desarrollo en http://localhost%s/api (usuario %s / %s)\n", addr, email, password)
			log.Info("dev api listening", zap.String("addr", addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":5064", "direccion de escucha")
	cmd.Flags().StringVar(&secret, "secret", "", "clave HS256 de los tokens")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", time.Hour, "vida de los tokens emitidos")
	return cmd
}
