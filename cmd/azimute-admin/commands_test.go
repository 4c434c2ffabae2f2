package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"azimute/internal/model"
	"azimute/internal/service"
	serviceMocks "azimute/internal/service/mocks"
)

func findCmd(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

type harness struct {
	accounts *serviceMocks.MockAccountService
	imports  *serviceMocks.MockImportService
	migrated bool
	closed   bool
	storage  []bool
}

func (h *harness) load(_ context.Context, needStorage bool) (*deps, error) {
	h.storage = append(h.storage, needStorage)
	return &deps{
		accounts: h.accounts,
		imports:  h.imports,
		migrate: func(context.Context) error {
			h.migrated = true
			return nil
		},
		close: func() error {
			h.closed = true
			return nil
		},
	}, nil
}

func run(t *testing.T, h *harness, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(h.load)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func newHarness() *harness {
	return &harness{
		accounts: new(serviceMocks.MockAccountService),
		imports:  new(serviceMocks.MockImportService),
	}
}

func TestRootCmd_Structure(t *testing.T) {
	root := newRootCmd(newHarness().load)
	for _, name := range []string{"migrate", "import-users", "import-catalog", "reset-password"} {
		assert.NotNil(t, findCmd(root, name), "subcommand %q not present", name)
	}
	users := findCmd(root, "import-users")
	require.NotNil(t, users)
	assert.NotNil(t, users.Flags().Lookup("reset"))
	assert.NotNil(t, users.Flags().Lookup("from-archive"))
}

func TestMigrate(t *testing.T) {
	h := newHarness()
	out, err := run(t, h, "migrate")
	require.NoError(t, err)
	assert.True(t, h.migrated)
	assert.True(t, h.closed)
	assert.Equal(t, []bool{false}, h.storage)
	assert.Contains(t, out, "schema ready")
}

func TestImportUsers_LocalFile(t *testing.T) {
	h := newHarness()
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("xlsx"), 0o600))

	h.imports.On("ImportUsers", mock.Anything, "roster.xlsx", mock.MatchedBy(func(r io.Reader) bool {
		return r != nil
	}), service.ImportOptions{Reset: true}).Return(&service.UserImportSummary{Created: 2, Updated: 1}, nil).Once()

	out, err := run(t, h, "import-users", path, "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, `"criados": 2`)
	assert.Equal(t, []bool{true}, h.storage)
	h.imports.AssertExpectations(t)
}

func TestImportCatalog_FromArchive(t *testing.T) {
	h := newHarness()
	key := "imports/catalog/2026/02/2Jd0Yg.xlsx"
	h.imports.On("OpenArchive", mock.Anything, key).Return(io.NopCloser(strings.NewReader("xlsx")), nil).Once()
	h.imports.On("ImportCatalog", mock.Anything, "2Jd0Yg.xlsx", mock.Anything).
		Return(&service.CatalogImportSummary{Imported: 12}, nil).Once()

	_, err := run(t, h, "import-catalog", key, "--from-archive")
	require.NoError(t, err)
	h.imports.AssertExpectations(t)
}

func TestImportUsers_MissingFile(t *testing.T) {
	h := newHarness()
	_, err := run(t, h, "import-users", filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
	h.imports.AssertNotCalled(t, "ImportUsers", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword(t *testing.T) {
	h := newHarness()
	h.accounts.On("ResetPasswordByNIN", mock.Anything, "1234567890123").
		Return(&model.User{Name: "Rui Lopes", NIN: "1234567890123", ForcePasswordChange: true}, nil).Once()

	out, err := run(t, h, "reset-password", "1234567890123")
	require.NoError(t, err)
	assert.Contains(t, out, "password reset for Rui Lopes")

	h.accounts.On("ResetPasswordByNIN", mock.Anything, "0000000000000").Return(nil, service.ErrNotFound).Once()
	_, err = run(t, h, "reset-password", "0000000000000")
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestResetPassword_RequiresArg(t *testing.T) {
	_, err := run(t, newHarness(), "reset-password")
	assert.Error(t, err)
}
