// Command createadmin provisions an administrator account from the console.
// The password is read from the terminal without echo.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/etec-programacion-3/biblioteca-backend/internal/auth"
	"github.com/etec-programacion-3/biblioteca-backend/internal/config"
	"github.com/etec-programacion-3/biblioteca-backend/internal/db"
	"github.com/etec-programacion-3/biblioteca-backend/internal/logger"
	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	"github.com/etec-programacion-3/biblioteca-backend/internal/repository/postgres"
	"github.com/etec-programacion-3/biblioteca-backend/internal/services"
	"github.com/etec-programacion-3/biblioteca-backend/internal/worker"
)

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(b)), nil
}

func main() {
	username := flag.String("username", "admin", "nombre de usuario")
	email := flag.String("email", "", "correo electrónico")
	name := flag.String("nombre", "", "nombre completo")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "falta -email")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.Env))

	password, err := readPassword("Contraseña: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "no se pudo leer la contraseña:", err)
		os.Exit(1)
	}
	confirm, err := readPassword("Confirmar contraseña: ")
	if err != nil || password != confirm {
		fmt.Fprintln(os.Stderr, "las contraseñas no coinciden")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db connect:", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			fmt.Fprintln(os.Stderr, "migrations:", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(1)
	defer wp.Stop()
	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	svc := services.NewUserService(repos.Users, repos.AuditLogs, wp, tm)

	u, err := svc.CreateWithRole(ctx, *username, *email, password, *name, models.RoleAdmin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "no se pudo crear el administrador:", err)
		os.Exit(1)
	}
	fmt.Printf("administrador creado: %s (id %d)\n", u.Username, u.ID)
}
