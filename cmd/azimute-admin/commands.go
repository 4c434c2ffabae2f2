package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"azimute/internal/service"
)

// deps is what the commands need from a live process.
type deps struct {
	accounts service.AccountService
	imports  service.ImportService
	migrate  func(ctx context.Context) error
	close    func() error
}

// loader builds deps on demand so --help never touches the database.
type loader func(ctx context.Context, needStorage bool) (*deps, error)

func newRootCmd(load loader) *cobra.Command {
	root := &cobra.Command{
		Use:          "azimute-admin",
		Short:        "Azimute operator commands",
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(load),
		newImportUsersCmd(load),
		newImportCatalogCmd(load),
		newResetPasswordCmd(load),
	)
	return root
}

// withDeps runs fn with loaded deps and closes them afterwards.
func withDeps(cmd *cobra.Command, load loader, needStorage bool, fn func(*deps) error) error {
	d, err := load(cmd.Context(), needStorage)
	if err != nil {
		return err
	}
	if d.close != nil {
		defer d.close()
	}
	return fn(d)
}

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema when it is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, load, false, func(d *deps) error {
				if err := d.migrate(cmd.Context()); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				cmd.Println("schema ready")
				return nil
			})
		},
	}
}

func newImportUsersCmd(load loader) *cobra.Command {
	var reset, fromArchive bool
	cmd := &cobra.Command{
		Use:   "import-users FILE",
		Short: "Import users and sub-units from a roster spreadsheet",
		Example: `  azimute-admin import-users roster.xlsx --reset
  azimute-admin import-users imports/users/2026/02/2Jd0Yg.xlsx --from-archive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, load, true, func(d *deps) error {
				name, r, err := openSource(cmd.Context(), d, args[0], fromArchive)
				if err != nil {
					return err
				}
				defer r.Close()

				res, err := d.imports.ImportUsers(cmd.Context(), name, r, service.ImportOptions{Reset: reset})
				if err != nil {
					return fmt.Errorf("import users: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete every previously imported user first")
	cmd.Flags().BoolVar(&fromArchive, "from-archive", false, "FILE is the object key of an archived upload")
	return cmd
}

func newImportCatalogCmd(load loader) *cobra.Command {
	var fromArchive bool
	cmd := &cobra.Command{
		Use:   "import-catalog FILE",
		Short: "Import the educational objective catalogue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, load, true, func(d *deps) error {
				name, r, err := openSource(cmd.Context(), d, args[0], fromArchive)
				if err != nil {
					return err
				}
				defer r.Close()

				res, err := d.imports.ImportCatalog(cmd.Context(), name, r)
				if err != nil {
					return fmt.Errorf("import catalog: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().BoolVar(&fromArchive, "from-archive", false, "FILE is the object key of an archived upload")
	return cmd
}

func newResetPasswordCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password NIN",
		Short: "Restore the default password and force a change on next login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, load, false, func(d *deps) error {
				u, err := d.accounts.ResetPasswordByNIN(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("reset password: %w", err)
				}
				cmd.Printf("password reset for %s (%s)\n", u.Name, u.NIN)
				return nil
			})
		},
	}
}

// openSource opens a local file, or an archived upload when fromArchive is set.
func openSource(ctx context.Context, d *deps, src string, fromArchive bool) (string, io.ReadCloser, error) {
	if fromArchive {
		rc, err := d.imports.OpenArchive(ctx, src)
		if err != nil {
			return "", nil, fmt.Errorf("open archive %s: %w", src, err)
		}
		return filepath.Base(src), rc, nil
	}
	f, err := os.Open(src)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(src), f, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
