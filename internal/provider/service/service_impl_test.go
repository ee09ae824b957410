package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/stackhpc/coral-credits/internal/account/domain"
	"github.com/stackhpc/coral-credits/internal/migration"
	"github.com/stackhpc/coral-credits/internal/provider/domain"
	"github.com/stackhpc/coral-credits/internal/provider/repository"
)

func newService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{DB: conn, Log: zap.NewNop(), GenID: node, Repo: repository.Provide()})
	return svc, conn, node
}

func seedAccount(t *testing.T, conn *gorm.DB, node *snowflake.Node) accountdomain.CreditAccount {
	t.Helper()
	account := accountdomain.CreditAccount{ID: node.Generate(), Name: "science-team", Email: "pi@example.org", CreatedAt: time.Now().UTC()}
	require.NoError(t, conn.Create(&account).Error)
	return account
}

func TestCreateProviderValidation(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.CreateProvider(context.Background(), domain.CreateProviderRequest{Name: "", Email: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.CreateProvider(context.Background(), domain.CreateProviderRequest{Name: "east", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestProviderAccountUniquePerProviderProject(t *testing.T) {
	svc, conn, node := newService(t)
	account := seedAccount(t, conn, node)

	provider, err := svc.CreateProvider(context.Background(), domain.CreateProviderRequest{Name: "east", Email: "ops@example.org"})
	require.NoError(t, err)

	project := uuid.New()
	_, err = svc.CreateProviderAccount(context.Background(), domain.CreateProviderAccountRequest{
		AccountID:  account.ID,
		ProviderID: provider.ID,
		ProjectID:  project,
	})
	require.NoError(t, err)

	otherAccount := accountdomain.CreditAccount{ID: node.Generate(), Name: "other-team", Email: "x@example.org", CreatedAt: time.Now().UTC()}
	require.NoError(t, conn.Create(&otherAccount).Error)

	// The same project cannot map to two accounts on one provider.
	_, err = svc.CreateProviderAccount(context.Background(), domain.CreateProviderAccountRequest{
		AccountID:  otherAccount.ID,
		ProviderID: provider.ID,
		ProjectID:  project,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestResolveByProject(t *testing.T) {
	svc, conn, node := newService(t)
	account := seedAccount(t, conn, node)

	provider, err := svc.CreateProvider(context.Background(), domain.CreateProviderRequest{Name: "east", Email: "ops@example.org"})
	require.NoError(t, err)

	project := uuid.New()
	created, err := svc.CreateProviderAccount(context.Background(), domain.CreateProviderAccountRequest{
		AccountID:  account.ID,
		ProviderID: provider.ID,
		ProjectID:  project,
	})
	require.NoError(t, err)

	resolved, err := svc.ResolveByProject(context.Background(), project)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)

	_, err = svc.ResolveByProject(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNoMatchingAccount)
}
