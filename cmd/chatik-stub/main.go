package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dkoval/chatik/internal/home"
	"github.com/dkoval/chatik/internal/logging"
	"github.com/dkoval/chatik/internal/stub"
)

func main() {
	addrFlag := flag.String("addr", "127.0.0.1:8787", "listen address")
	adminFlag := flag.String("admin", "admin:admin", "seeded admin account as user:password (empty to skip)")
	flag.Parse()

	fx.New(
		stub.Module(stub.Params{Addr: *addrFlag}),
		fx.Provide(provideLogger),
		fx.Invoke(func(s *stub.Server) error {
			return seedAdmin(s, *adminFlag)
		}),
		fx.NopLogger,
	).Run()
}

func provideLogger() (*zap.Logger, error) {
	if err := home.EnsureDirs(); err != nil {
		return nil, err
	}
	return logging.New(filepath.Join(home.LogDir(), "chatik-stub.log"), "chatik-stub")
}

func seedAdmin(s *stub.Server, value string) error {
	if value == "" {
		return nil
	}
	username, password, ok := strings.Cut(value, ":")
	if !ok || username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "error: -admin must be user:password")
		return fmt.Errorf("invalid -admin value %q", value)
	}
	s.SeedUser(username, password, stub.SeedOptions{
		DisplayName: "Admin",
		FirstName:   "Admin",
		IsAdmin:     true,
		IsVerified:  true,
	})
	return nil
}
