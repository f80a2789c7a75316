// Command embymcp is an MCP server that exposes an Emby media server to an
// LLM agent as a set of tools over stdio. `embymcp serve` runs the agent
// protocol; `embymcp check` performs standalone startup checks against the
// configured server.
//
// Logging goes to stderr because stdout is owned by the JSON-RPC stream.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"embymcp/pkg/config"
	"embymcp/pkg/emby"
	"embymcp/pkg/ops"
	"embymcp/pkg/store"
	"embymcp/pkg/tools"
)

const version = "1.0"

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:           "embymcp",
	Short:         "MCP tool server exposing an Emby media server to LLM agents",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the stdio MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configuration by logging in and listing libraries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context())
	},
}

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the most recent searches from the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecent(cmd.Context())
	},
}

func main() {
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "number of entries to print")
	rootCmd.AddCommand(serveCmd, checkCmd, recentCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// connect builds an authenticated Emby client, reusing a cached token when
// one still works and falling back to the password flow otherwise.
func connect(ctx context.Context, cfg *config.Config, st *store.Store) (*emby.Client, error) {
	deviceID, err := st.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("device id: %w", err)
	}

	client := emby.New(cfg.Server.URL, cfg.Client.Name, cfg.Client.Version, cfg.Client.Device, deviceID, cfg.Server.VerifySSL)
	client.Log = log

	token, userID, err := st.Token(ctx, cfg.Server.URL, cfg.Server.Username)
	if err == nil {
		client.Resume(token, userID)
		// A cheap call proves the cached token still works.
		if _, err := client.Libraries(ctx); err == nil {
			log.Info("resumed cached media server session")
			return client, nil
		}
		log.Info("cached token rejected, logging in again")
		if err := st.DeleteToken(ctx, cfg.Server.URL, cfg.Server.Username); err != nil {
			log.WithError(err).Warn("failed to drop stale token")
		}
		client.Resume("", "")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("token cache: %w", err)
	}

	if err := client.Authenticate(ctx, cfg.Server.Username, cfg.Server.Password); err != nil {
		return nil, err
	}
	if err := st.SaveToken(ctx, cfg.Server.URL, cfg.Server.Username, client.Token(), client.UserID()); err != nil {
		log.WithError(err).Warn("failed to cache token")
	}
	return client, nil
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer st.Close()

	client, err := connect(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Logout(context.Background()); err != nil {
			log.WithError(err).Warn("logout failed")
		}
	}()

	if cfg.Ops.Listen != "" {
		// /healthz proves the upstream session still works, not just
		// that this process is alive.
		opsSrv := ops.New(log, func(ctx context.Context) error {
			_, err := client.Libraries(ctx)
			return err
		})
		go func() {
			if err := opsSrv.Start(ctx, cfg.Ops.Listen); err != nil {
				log.WithError(err).Error("ops endpoint failed")
			}
		}()
	}

	srv := tools.NewServer(client, client, client, st, log, cfg.Agent.MaxItems)
	log.WithFields(logrus.Fields{
		"server":    cfg.Server.URL,
		"max_items": cfg.Agent.MaxItems,
		"version":   version,
	}).Info("serving tools over stdio")
	return srv.Serve(os.Stdin, os.Stdout)
}

func runRecent(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer st.Close()

	recs, err := st.RecentSearches(ctx, recentLimit)
	if err != nil {
		return fmt.Errorf("read search log: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("no searches recorded")
		return nil
	}
	for _, r := range recs {
		fmt.Printf("%s  %-10s %4d results  %s\n",
			r.SearchedAt.Format("2006-01-02 15:04:05"), r.Library, r.ResultCount, r.Term)
	}
	return nil
}

func runCheck(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer st.Close()

	client, err := connect(ctx, cfg, st)
	if err != nil {
		return fmt.Errorf("login to media server failed: %w", err)
	}
	defer client.Logout(context.Background())
	log.Info("logon to media server was successful")

	libs, err := client.Libraries(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve library list: %w", err)
	}
	log.Infof("found %d available libraries", len(libs))
	for _, lib := range libs {
		fmt.Fprintf(os.Stderr, "  %s (%s) id=%s\n", lib.Name, lib.Type, lib.ID)
	}
	return nil
}
