package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Drolfothesgnir/gohaa/util"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var testStore Store

// TestMain connects to the database of the development config. Tests touching the
// database are skipped when it cannot be reached.
func TestMain(m *testing.M) {
	config, err := util.LoadConfig("../../")
	if err != nil {
		log.Warn().Err(err).Msg("cannot read the config, skipping database tests")
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	connPool, err := pgxpool.New(ctx, config.DBSource)
	if err == nil {
		err = connPool.Ping(ctx)
	}
	if err != nil {
		log.Warn().Err(err).Msg("cannot connect to the database, skipping database tests")
		os.Exit(m.Run())
	}

	testStore = NewStore(connPool)

	os.Exit(m.Run())
}

func requireStore(t *testing.T) Store {
	t.Helper()
	if testing.Short() || testStore == nil {
		t.Skip("database not available")
	}
	return testStore
}
