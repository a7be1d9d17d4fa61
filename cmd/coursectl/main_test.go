package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqtest/courses-server/internal/features/stats"
	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/internal/testutil"
	"github.com/hqtest/courses-server/pkg/config"
	"github.com/hqtest/courses-server/pkg/database"
	"github.com/hqtest/courses-server/pkg/logger"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCoursectlWorkflow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.db")
	flags := []string{"--sqlite-path", path}

	out, err := runCLI(t, append([]string{"migrate"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "applied core_schema")

	out, err = runCLI(t, append([]string{"create-user", "--username", "owner", "--password", testutil.Password, "--admin"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "created admin user owner")

	_, err = runCLI(t, append([]string{"create-user", "--username", "student", "--password", testutil.Password}, flags...)...)
	require.NoError(t, err)

	_, err = runCLI(t, append([]string{"create-user", "--username", "student", "--password", testutil.Password}, flags...)...)
	assert.ErrorIs(t, err, user.ErrUsernameTaken)

	db, err := database.ConnectWithRetry(context.Background(), config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: path,
	}, logger.Discard(), 0, 0)
	require.NoError(t, err)
	owner, err := user.GetByUsername(db, "owner")
	require.NoError(t, err)
	p := testutil.CreateProduct(t, db, owner.ID, "Go")
	require.NoError(t, database.Close(db, logger.Discard()))

	out, err = runCLI(t, append([]string{"grant-access", "--user", "student", "--product", p.ID.String()}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "granted student access")

	out, err = runCLI(t, append([]string{"grant-access", "--user", "student", "--product", p.ID.String()}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "already has access")

	out, err = runCLI(t, append([]string{"stats", "--json"}, flags...)...)
	require.NoError(t, err)

	var rows []stats.ProductStats
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "owner", rows[0].Owner)
	assert.EqualValues(t, 1, rows[0].TotalStudentsWithAccess)
	assert.Equal(t, 50.0, rows[0].PercentageOfPurchase)
}

func TestGrantAccessRejectsBadProductID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.db")
	_, err := runCLI(t, "migrate", "--sqlite-path", path)
	require.NoError(t, err)

	_, err = runCLI(t, "grant-access", "--user", "nobody", "--product", "not-a-uuid", "--sqlite-path", path)
	assert.ErrorContains(t, err, "invalid product id")
}
