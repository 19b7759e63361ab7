package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/ferrocrete/sitegate/internal/config"
	"github.com/ferrocrete/sitegate/internal/domain/models"
	"github.com/ferrocrete/sitegate/internal/infrastructure/crypto"
	"github.com/ferrocrete/sitegate/internal/infrastructure/lockstore"
	"github.com/ferrocrete/sitegate/internal/infrastructure/secrets"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sitegate-admin",
		Short:         "Operator tooling for the sitegate service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newDigestCmd(),
		newCheckCmd(),
		newTokenCmd(),
		newLockCmd(),
	)
	return root
}

func loadMaterial(ctx context.Context) (crypto.SigningMaterial, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return crypto.SigningMaterial{}, fmt.Errorf("load config: %w", err)
	}
	source, err := secrets.FromConfig(cfg, logger.NewNoopLogger())
	if err != nil {
		return crypto.SigningMaterial{}, fmt.Errorf("init secret source: %w", err)
	}
	return source.SigningMaterial(ctx)
}

// digest computes the integrity digest for new signing material, for
// pasting into configuration or Vault during provisioning.
func newDigestCmd() *cobra.Command {
	var secret, salt string
	var iterations int

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Compute the integrity digest for signing material",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" || salt == "" {
				return fmt.Errorf("--secret and --salt are required")
			}
			if iterations < constants.DefaultMinIterations {
				iterations = constants.DefaultMinIterations
			}
			fmt.Println(hex.EncodeToString(crypto.ComputeDigest(secret, salt, iterations)))
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret")
	cmd.Flags().StringVar(&salt, "salt", "", "signing salt")
	cmd.Flags().IntVar(&iterations, "iterations", constants.DefaultMinIterations, "PBKDF2 iteration count")
	return cmd
}

// check runs the startup integrity verification against the configured
// material without starting the server.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the configured signing material",
		RunE: func(cmd *cobra.Command, args []string) error {
			material, err := loadMaterial(cmd.Context())
			if err != nil {
				return err
			}
			if err := material.Check(); err != nil {
				return fmt.Errorf("integrity check failed: %w", err)
			}
			fmt.Println("signing material ok")
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Mint and inspect access tokens",
	}
	token.AddCommand(newTokenMintCmd(), newTokenInspectCmd())
	return token
}

func newTokenMintCmd() *cobra.Command {
	var subject, role string
	var permissions []string

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a token with the configured signing material",
		RunE: func(cmd *cobra.Command, args []string) error {
			material, err := loadMaterial(cmd.Context())
			if err != nil {
				return err
			}
			manager := crypto.NewTokenManager(material, logger.NewNoopLogger())
			if err := manager.IntegrityErr(); err != nil {
				return err
			}

			perms := permissions
			if len(perms) == 0 {
				perms = constants.AdminPermissions
			}

			signed, claims, err := manager.Issue(cmd.Context(), subject, perms, constants.Role(role))
			if err != nil {
				return err
			}

			fmt.Println(signed)
			fmt.Fprintf(os.Stderr, "subject=%s role=%s expires=%s\n",
				claims.Subject, claims.Role, claims.ExpiresAt.Time.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().StringVar(&role, "role", string(constants.RoleAdmin), "token role")
	cmd.Flags().StringSliceVar(&permissions, "permissions", nil, "permissions (default: full admin set)")
	return cmd
}

// inspect decodes a token's claims without verifying the signature.
// Useful for debugging tokens minted with other material.
func newTokenInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <token>",
		Short: "Decode a token's claims without verification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims := &models.AccessClaims{}
			parser := jwt.NewParser()
			if _, _, err := parser.ParseUnverified(strings.TrimSpace(args[0]), claims); err != nil {
				return fmt.Errorf("decode token: %w", err)
			}
			out, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newLockCmd() *cobra.Command {
	lock := &cobra.Command{
		Use:   "lock",
		Short: "Inspect and change the site lock state",
	}
	lock.AddCommand(newLockShowCmd(), newLockSetCmd())
	return lock
}

func openLockStore() (*lockstore.FileStore, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return lockstore.NewFileStore(cfg.Lock.StateFile, logger.NewNoopLogger())
}

func newLockShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current lock state",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLockStore()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(store.Get(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newLockSetCmd() *cobra.Command {
	var enabled, locked, maintenance string
	var allowed, blocked []string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update lock state fields; unset flags keep their values",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLockStore()
			if err != nil {
				return err
			}

			state, err := store.Update(cmd.Context(), func(s *models.LockState) {
				applyBoolFlag(&s.Enabled, enabled)
				applyBoolFlag(&s.Locked, locked)
				applyBoolFlag(&s.MaintenanceMode, maintenance)
				if cmd.Flags().Changed("allowed") {
					s.AllowedIPs = allowed
				}
				if cmd.Flags().Changed("blocked") {
					s.BlockedIPs = blocked
				}
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&enabled, "enabled", "", "true or false")
	cmd.Flags().StringVar(&locked, "locked", "", "true or false")
	cmd.Flags().StringVar(&maintenance, "maintenance", "", "true or false")
	cmd.Flags().StringSliceVar(&allowed, "allowed", nil, "replace the allow-list")
	cmd.Flags().StringSliceVar(&blocked, "blocked", nil, "replace the block-list")
	return cmd
}

func applyBoolFlag(target *bool, raw string) {
	switch strings.ToLower(raw) {
	case "true":
		*target = true
	case "false":
		*target = false
	}
}
