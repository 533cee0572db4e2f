package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindquest/coach/internal/content"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the completed lessons of one module",
	Long: `Forget which lessons of a module the learner has completed so the module
can be replayed from its first lesson. Streak, XP and run history are kept.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().String("module", "", "Module ID (required)")
	_ = resetCmd.MarkFlagRequired("module")
}

func runReset(cmd *cobra.Command, args []string) error {
	moduleVal, _ := cmd.Flags().GetString("module")
	module := content.ModuleID(moduleVal)
	if _, err := registry().Module(module); err != nil {
		return err
	}

	user := resolveUser(cmd)
	if user == "" {
		return fmt.Errorf("no user set: pass --user or set MINDQUEST_USER")
	}

	be, err := openBackend(cmd)
	if err != nil {
		return err
	}
	defer be.close()

	if err := be.lessons.ResetModule(cmd.Context(), user, module); err != nil {
		return fmt.Errorf("reset %s: %w", module, err)
	}
	logger.Info("module reset", zap.String("user_id", user), zap.String("module_id", string(module)))
	fmt.Fprintf(cmd.OutOrStdout(), "Reset %s for %s.\n", module, user)
	return nil
}
