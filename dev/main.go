package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	devenv "umsassist-backend/dev/env"
	"umsassist-backend/internal/store"
)

const devConfig = `{
  port: 5000,
  database: { file: "<dev_state>/ums.db" },
  portal: { requests_per_second: 1 },
}
`

func createDb(ctx context.Context) error {
	path, err := devenv.ResolvePath("<dev_state>/ums.db")
	if err != nil {
		return err
	}

	fmt.Println("migrating database at", path)
	database, err := store.Config{File: path}.OpenDB()
	if err != nil {
		return err
	}
	defer database.Close()
	return store.Migrate(ctx, database)
}

func writeConfig() error {
	path, err := devenv.ResolvePath("<dev_state>/config.json5")
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("config already created at", path)
		return nil
	}
	fmt.Println("writing config to", path)
	return os.WriteFile(path, []byte(devConfig), 0666)
}

func create(ctx context.Context, recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	err = createDb(ctx)
	if err != nil {
		return err
	}
	return writeConfig()
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(context.Background(), *recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created sucessfully!")
}
