// Package cli implements synccli, a small operator tool that talks to the
// visittracker gRPC sync service: ping it, dump the live graph, or push a
// JSON payload as a sync round.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/visittracker/internal/client/client"
	"github.com/dmitrijs2005/visittracker/internal/client/config"
	"github.com/dmitrijs2005/visittracker/internal/server/models"

	gs "github.com/dmitrijs2005/visittracker/internal/server/grpc"
)

var ErrUsage = errors.New("usage: synccli [-a addr] [-t token] [-w seconds] ping | pull [file] | push <file>")

// SyncAPI is the subset of the gRPC client the commands use.
type SyncAPI interface {
	Ping(ctx context.Context) error
	Pull(ctx context.Context) (*models.Snapshot, error)
	Push(ctx context.Context, snap *models.Snapshot) (*gs.PushResponse, error)
}

type App struct {
	config *config.Config
	api    SyncAPI
	out    io.Writer
}

func NewApp(c *config.Config) (*App, io.Closer, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		return nil, nil, err
	}
	return &App{config: c, api: apiClient, out: os.Stdout}, apiClient, nil
}

// Run executes one command. args are the command-line arguments without
// the flags consumed by config.
func (app *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	ctx, cancel := context.WithTimeout(ctx, app.config.RequestTimeout)
	defer cancel()

	switch args[0] {
	case "ping":
		if err := app.api.Ping(ctx); err != nil {
			return err
		}
		fmt.Fprintln(app.out, "OK")
		return nil
	case "pull":
		return app.pull(ctx, args[1:])
	case "push":
		if len(args) < 2 {
			return ErrUsage
		}
		return app.push(ctx, args[1])
	default:
		return ErrUsage
	}
}

func (app *App) pull(ctx context.Context, args []string) error {
	snap, err := app.api.Pull(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	if len(args) > 0 {
		if err := os.WriteFile(args[0], data, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", args[0], err)
		}
		fmt.Fprintf(app.out, "%d objects, %d users written to %s\n", len(snap.Objects), len(snap.Users), args[0])
		return nil
	}

	_, err = fmt.Fprintln(app.out, string(data))
	return err
}

func (app *App) push(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	resp, err := app.api.Push(ctx, &snap)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.out, "merged %d objects, uploaded %d photos, %d failed\n",
		resp.MergedObjects, resp.UploadedPhotos, resp.FailedPhotos)
	return nil
}
