// Package cli implements the interactive authctl client. It drives a small
// REPL over the passport HTTP API: register, login, refresh, whoami, logout.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/spolyakov/passport/internal/client/api"
	"github.com/spolyakov/passport/internal/client/config"
)

// authAPI defines the server surface the CLI needs. The real *api.Client
// satisfies this interface; tests can provide a lightweight stub.
type authAPI interface {
	Register(ctx context.Context, email, username string, password []byte) (*api.User, error)
	Login(ctx context.Context, email string, password []byte) (*api.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*api.TokenPair, error)
	Me(ctx context.Context, accessToken string) (*api.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	client authAPI
	tokens *api.TokenPair
	reader *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: api.NewClient(c.ServerEndpointAddr, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.tokens != nil
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return "logged in"
	}
	return "anonymous"
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
