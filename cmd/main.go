package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manorfm/accountkit/internal/application"
	"github.com/manorfm/accountkit/internal/domain"
	"github.com/manorfm/accountkit/internal/infrastructure/config"
	"github.com/manorfm/accountkit/internal/infrastructure/email"
	"github.com/manorfm/accountkit/internal/infrastructure/password"
	"github.com/manorfm/accountkit/internal/infrastructure/token"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	hasher *password.Hasher
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "accountkit",
		Short:         "Account email and password utilities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(); err != nil {
				return err
			}
			cmd.SetContext(withRequestID(cmd.Context()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(
		a.sendCmd(),
		a.sendVerificationCmd(),
		a.hashPasswordCmd(),
		a.verifyPasswordCmd(),
		a.tokenCmd(),
	)
	return root
}

func (a *app) load() error {
	bootstrap := zap.NewNop()
	cfg, err := config.LoadConfig(bootstrap)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.hasher = password.NewHasher(cfg.BcryptCost)
	return nil
}

// withRequestID tags a command run with a request id unless the caller set one
func withRequestID(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := domain.GetRequestID(ctx); ok {
		return ctx
	}
	return domain.WithRequestID(ctx, ulid.Make().String())
}

func (a *app) emailService(templatesDir string) (*application.EmailService, error) {
	var (
		renderer *email.TemplateManager
		err      error
	)
	if templatesDir != "" {
		renderer, err = email.NewTemplateManagerFromFS(os.DirFS(templatesDir), a.logger)
	} else {
		renderer, err = email.NewTemplateManager(a.logger)
	}
	if err != nil {
		return nil, err
	}

	client, err := email.NewClient(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	return application.NewEmailService(renderer, client, a.logger), nil
}

func (a *app) sendCmd() *cobra.Command {
	var (
		emailType    string
		fields       map[string]string
		templatesDir string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Render and send an email of the given type",
		Example: "  accountkit send --type account_locked --field email=a@b.com --field name=A\n" +
			"  accountkit send --type role_upgrade --field email=a@b.com --field name=A --field new_role=ADMIN",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.emailService(templatesDir)
			if err != nil {
				return err
			}

			data := domain.UserData{}
			for k, v := range fields {
				data[k] = v
			}
			if err := svc.SendUserEmail(cmd.Context(), data, domain.EmailType(emailType)); err != nil {
				a.logger.Error("Failed to send email",
					zap.String("email_type", emailType),
					zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&emailType, "type", string(domain.EmailVerification), "email type: "+joinTypes())
	cmd.Flags().StringToStringVar(&fields, "field", nil, "template field as key=value (repeatable)")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "directory of markdown templates overriding the bundled ones")
	return cmd
}

func (a *app) sendVerificationCmd() *cobra.Command {
	var (
		to           string
		name         string
		templatesDir string
	)

	cmd := &cobra.Command{
		Use:   "send-verification",
		Short: "Generate a verification token and email the verification link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.emailService(templatesDir)
			if err != nil {
				return err
			}

			tok, err := token.GenerateVerificationToken()
			if err != nil {
				return err
			}
			link := verificationURL(a.cfg.ServerBaseURL, tok)

			if err := svc.SendVerificationEmail(cmd.Context(), to, name, link); err != nil {
				a.logger.Error("Failed to send verification email",
					zap.String("to", to),
					zap.Error(err))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient address")
	cmd.Flags().StringVar(&name, "name", "", "recipient display name")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "directory of markdown templates overriding the bundled ones")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) hashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("cost") {
				cost = a.cfg.BcryptCost
			}
			hashed, err := a.hasher.HashWithCost(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", password.DefaultCost, "bcrypt cost factor")
	return cmd
}

func (a *app) verifyPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-password <password> <hash>",
		Short: "Check a password against a bcrypt hash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.hasher.Verify(args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("password does not match")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func (a *app) tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print a fresh verification token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := token.GenerateVerificationToken()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}

func verificationURL(baseURL, tok string) string {
	return baseURL + "/verify-email?token=" + url.QueryEscape(tok)
}

func joinTypes() string {
	types := domain.EmailTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
