package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docflow/internal/backend"
	"docflow/internal/config"
	"docflow/internal/email"
	"docflow/internal/service"
)

// Options permite inyectar configuracion, medio de sesion y salidas.
type Options struct {
	Config    *config.Config
	OpenStore StoreOpener
	Logger    *zap.Logger
	Mailer    email.Sender
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	Now       func() time.Time
}

// NewRootCmd arma el arbol de comandos de docflow.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "docflow",
		Short:         "Documentos, procesos y asignaciones ordenados por urgencia",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log de diagnostico en stderr")
	rootCmd.SetIn(opts.In)
	rootCmd.SetOut(opts.Out)
	rootCmd.SetErr(opts.Err)

	logger := func() *zap.Logger {
		if opts.Logger != nil {
			return opts.Logger
		}
		if verbose {
			if l, err := zap.NewDevelopment(); err == nil {
				return l
			}
		}
		return zap.NewNop()
	}

	withApp := func(fn func(app *App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), opts, logger())
			if err != nil {
				return err
			}
			defer app.Close()
			return fn(app, cmd, args)
		}
	}

	rootCmd.AddCommand(
		newLoginCmd(withApp),
		newLogoutCmd(withApp),
		newStatusCmd(withApp),
		newDocumentsCmd(withApp),
		newProcessesCmd(withApp),
		newAssignmentsCmd(withApp),
		newVersionsCmd(withApp),
		newUsersCmd(withApp),
		newWatchCmd(withApp, opts.Config.WatchSchedule),
		newDevAPICmd(logger, opts.Out),
	)
	return rootCmd
}

type appRunner func(fn func(app *App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error

func newLoginCmd(withApp appRunner) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesion y guarda el token",
		RunE: withApp(func(app *App, cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(app.in)
			if strings.TrimSpace(email) == "" {
				fmt.Fprint(app.errOut, "Email: ")
				email = readLine(reader)
			}
			if password == "" {
				fmt.Fprint(app.errOut, "Password: ")
				password = readLine(reader)
			}

			res, err := app.client.Login(cmd.Context(), email, password)
			if err != nil {
				if errors.Is(err, backend.ErrUnauthorized) {
					return errors.New("credenciales invalidas")
				}
				return err
			}
			expiry := service.ResolveExpiry(res.Token, res.ExpiresAt, app.now(), app.cfg.SessionTTL)
			if err := app.session.Renew(res.Token, expiry); err != nil {
				return fmt.Errorf("guardar sesion: %w", err)
			}
			fmt.Fprintf(app.out, "Sesion iniciada hasta %s.\n", expiry.Local().Format(time.DateTime))
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "email del usuario")
	cmd.Flags().StringVar(&password, "password", "", "password (si falta se pide por stdin)")
	return cmd
}

func newLogoutCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Borra la sesion guardada",
		RunE: withApp(func(app *App, cmd *cobra.Command, args []string) error {
			app.session.Logout()
			return nil
		}),
	}
}

func newStatusCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Muestra el estado de la sesion",
		RunE: withApp(func(app *App, cmd *cobra.Command, args []string) error {
			renderSession(app.out, app.session.Snapshot(), app.session.IsAuthenticated(), app.now())
			return nil
		}),
	}
}

func newDocumentsCmd(withApp appRunner) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Lista documentos ordenados por urgencia",
		RunE: withApp(func(app *App, cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			docs, err := app.listing.Documents(cmd.Context(), filter)
			if err != nil {
				return app.backendErr(err)
			}
			renderDocuments(app.out, docs)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "filtra por codigo")
	return cmd
}

func newProcessesCmd(withApp appRunner) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "processes",
		Short: "Lista procesos",
		RunE: withApp(func(app *App, cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			items, err := app.listing.Processes(cmd.Context(), filter)
			if err != nil {
				return app.backendErr(err)
			}
			renderProcesses(app.out, items)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "filtra por codigo")
	return cmd
}

func newAssignmentsCmd(withApp appRunner) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "Lista asignaciones ordenadas por fecha de entrega",
		RunE: withApp(func(app *App, cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			items, err := app.listing.Assignments(cmd.Context(), filter)
			if err != nil {
				return app.backendErr(err)
			}
			renderAssignments(app.out, items)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "filtra por instruccion")
	return cmd
}

func newVersionsCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "versions <docID>",
		Short: "Lista las versiones de un documento",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(app *App, cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("id de documento invalido: %q", args[0])
			}
			if err := app.requireSession(); err != nil {
				return err
			}
			versions, err := app.client.ListVersions(cmd.Context(), id)
			if err != nil {
				return app.backendErr(err)
			}
			renderVersions(app.out, versions)
			return nil
		}),
	}
}

func newUsersCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Lista usuarios",
		RunE: withApp(func(app *App, cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			users, err := app.client.ListUsers(cmd.Context())
			if err != nil {
				return app.backendErr(err)
			}
			renderUsers(app.out, users)
			return nil
		}),
	}
}

func readLine(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
