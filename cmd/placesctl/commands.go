package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"github.com/tendant/simple-places/migrations"
	"github.com/tendant/simple-places/pkg/simpleplaces"
	"github.com/tendant/simple-places/pkg/simpleplaces/api"
	"github.com/tendant/simple-places/pkg/simpleplaces/config"
	"github.com/tendant/simple-places/pkg/simpleplaces/mediaorder"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// errInvalidSubmission makes validate exit non-zero after printing the report
var errInvalidSubmission = errors.New("submission is not valid")

// NewNormalizeCommand creates the normalize command
func NewNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Print the canonical form of a submission",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := readSubmission(firstArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), simpleplaces.Normalize(sub))
		},
	}
}

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Normalize and validate a submission",
		Long:  `Normalize a submission and report every validation issue. Exits non-zero when the post is invalid.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := readSubmission(firstArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			result := simpleplaces.Validate(simpleplaces.Normalize(sub))

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, i := range result.Issues {
					fmt.Fprintf(out, "error   %s: %s\n", i.Path, i.Message)
				}
				for _, w := range result.Warnings {
					fmt.Fprintf(out, "warning %s: %s\n", w.Path, w.Message)
				}
				if result.OK {
					fmt.Fprintln(out, "OK")
				}
			}
			if !result.OK {
				return errInvalidSubmission
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

// NewOrderCommand creates the order command
func NewOrderCommand() *cobra.Command {
	var explicit []string
	var showBuckets bool

	cmd := &cobra.Command{
		Use:   "order <filename>...",
		Short: "Print filenames in gallery display order",
		Long:  `Order filenames the way galleries display them: explicit order first, then by keyword bucket, then by name.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ordered := mediaorder.Order(args, explicit, mediaorder.DefaultTable)
			out := cmd.OutOrStdout()
			if !showBuckets {
				for _, name := range ordered {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILENAME\tBUCKET")
			for _, name := range ordered {
				fmt.Fprintf(w, "%s\t%s\n", name, mediaorder.Classify(mediaorder.DefaultTable, name).Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&explicit, "order", nil, "Explicit order, comma separated")
	cmd.Flags().BoolVar(&showBuckets, "buckets", false, "Show the bucket of each filename")

	return cmd
}

// NewTenantCommand creates the tenant command
func NewTenantCommand() *cobra.Command {
	var signals tenant.Signals
	var host string

	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Resolve the tenant for a set of request signals",
		Long:  `Resolve the tenant a request would be served as. With no flags, the fallback tenant is printed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := tenant.Default()
			if host != "" {
				if t, ok := registry.ByDomain(host); ok {
					signals.Header = string(t.ID)
				}
			}
			return writeJSON(cmd.OutOrStdout(), registry.Resolve(signals))
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Request host")
	cmd.Flags().StringVar(&signals.AdminOverride, "admin", "", "Admin override ("+tenant.AdminParam+")")
	cmd.Flags().StringVar(&signals.PreviewOverride, "preview", "", "Preview override ("+tenant.PreviewParam+")")
	cmd.Flags().StringVar(&signals.ConfiguredDefault, "default", "", "Configured default tenant")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDOMAIN\tNAME\tCATEGORIES")
			for _, t := range tenant.Default().All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Domain, t.DisplayName, strings.Join(t.AllowedCategories, ","))
			}
			return w.Flush()
		},
	})

	return cmd
}

// NewMigrateCommand creates the migrate command. The database is taken
// from DATABASE_URL and DB_SCHEMA.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(
		newMigrateSubcommand("up", "Apply all pending migrations", migrations.Up),
		newMigrateSubcommand("down", "Roll back the latest migration", migrations.Down),
		newMigrateSubcommand("version", "Print the current schema version", nil),
	)

	return cmd
}

func newMigrateSubcommand(use, short string, m migrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.WithEnv(""))
			if err != nil {
				return err
			}
			if cfg.DatabaseType != "postgres" {
				return errors.New("DATABASE_URL must point to postgres")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			return migrate(ctx, cmd, cfg, m)
		},
	}
}

type migrateFunc func(context.Context, *sql.DB) error

func migrate(ctx context.Context, cmd *cobra.Command, cfg *config.ServerConfig, m migrateFunc) error {
	pool, err := cfg.OpenPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	// goose creates its version table even when only reading the version
	if err := cfg.EnsureSchema(ctx, pool); err != nil {
		return err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "using schema %s, version table %s\n", cfg.DBSchema, migrations.TableName)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if m != nil {
		if err := m(ctx, db); err != nil {
			return err
		}
	}
	v, err := migrations.Version(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema %s at version %d\n", cfg.DBSchema, v)
	return nil
}

// NewTokenCommand creates the token command
func NewTokenCommand() *cobra.Command {
	var secret, subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an editorial JWT",
		Long:  `Sign an HS256 token accepted by the editorial routes. The secret defaults to JWT_SECRET.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load(config.WithEnv(""))
				if err != nil {
					return err
				}
				secret = cfg.JWTSecret
			}
			if secret == "" {
				return errors.New("a secret is required (--secret or JWT_SECRET)")
			}

			now := time.Now()
			claims := map[string]interface{}{
				"sub": subject,
				"iat": now.Unix(),
			}
			if ttl > 0 {
				claims["exp"] = now.Add(ttl).Unix()
			}
			_, token, err := api.NewTokenAuth(secret).Encode(claims)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret")
	cmd.Flags().StringVar(&subject, "subject", "editor", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime, 0 for no expiry")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
