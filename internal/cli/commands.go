package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bytebasket/backend/internal/database"
	"github.com/bytebasket/backend/internal/service"
	"github.com/bytebasket/backend/internal/types"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(db, a.v.GetString("migrations-dir")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
	cmd.Flags().String("migrations-dir", "migrations", "directory of additional SQL migrations")
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the built-in dietary restrictions that are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			created, err := service.NewDietaryRestrictionService(db).SeedDefaults(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d dietary restrictions\n", created)
			return nil
		},
	}
}

func readItems(path string) ([]types.InventoryItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}
	var items []types.InventoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("items file must contain a JSON array of objects: %w", err)
	}
	if items == nil {
		return nil, service.ErrInvalidItems
	}
	return items, nil
}

func newMatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the dietary matcher for a user against items from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(a.v.GetString("user"))
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			items, err := readItems(a.v.GetString("items"))
			if err != nil {
				return err
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			matcher := service.NewDietaryMatchingService(
				service.NewDietaryPreferenceService(db),
				service.WithLogger(logger),
			)

			result, err := matcher.MatchUserDietaryNeeds(cmd.Context(), userID, items)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().String("user", "", "user ID whose preferences are applied")
	cmd.Flags().String("items", "", "path to a JSON array of inventory items")
	return cmd
}
