package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	migrations "github.com/mygoodmovers/movebot/db"
	dbpkg "github.com/mygoodmovers/movebot/internal/db"
	"github.com/mygoodmovers/movebot/internal/logger"
)

func init() {
	cmd := &cobra.Command{
		Use:   "migrate <up|down|version|force> [args]",
		Short: "Run database migrations",
		Args:  cobra.MinimumNArgs(1),
		Run:   runMigrate,
	}
	RootCmd.AddCommand(cmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := dbpkg.RunMigrate(log, cfg.Postgres, migrations.MigrationsFS, args[0], args[1:]); err != nil {
		exitErr("migrate", err)
	}
	log.Info("migration complete", slog.String("command", args[0]))
}
