package db

import (
	"github.com/pkg/errors"

	"github.com/feeleurope/luxeagent/internal/profile"
	"github.com/feeleurope/luxeagent/store"
	"github.com/feeleurope/luxeagent/store/db/jsonfile"
	"github.com/feeleurope/luxeagent/store/db/postgres"
	"github.com/feeleurope/luxeagent/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "json", "":
		driver, err = jsonfile.NewDB(profile)
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
