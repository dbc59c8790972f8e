package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"threew-setup/internal/commit"
	"threew-setup/internal/logger"
)

// Flags for the generate subcommand.
var (
	commitType     string
	commitScope    string
	commitMessage  string
	commitBreaking bool
	commitRun      bool
	templateForce  bool
)

// commitCmd groups the conventional-commit helpers: the type and scope
// catalogs, message generation, and the shared commit template.
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Conventional-commit helpers (types, scopes, generate, setup)",
}

// commitTypesCmd prints the commit type catalog.
var commitTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the commit types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range commit.Types() {
			fmt.Printf("%-8s %s  %s\n", c.Name, c.Emoji, c.Description)
		}
	},
}

// commitScopesCmd prints the commit scope catalog.
var commitScopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "List the commit scopes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(strings.Join(commit.Scopes(), "\n"))
	},
}

// commitGenerateCmd builds a message from the catalogs and either prints it
// or, with --commit, runs git commit with it.
var commitGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a conventional commit message",
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := commit.Generate(commitType, commitScope, commitMessage, commitBreaking)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}

		if !commitRun {
			fmt.Println(msg)
			return nil
		}
		if err := commit.Commit(msg); err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		logger.Info("[INFO] Committed: %s\n", msg)
		return nil
	},
}

// commitSetupCmd installs the .gitmessage template and points git at it.
var commitSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the commit template and configure git to use it",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := commit.SetupTemplate(".", templateForce)
		if err != nil {
			logger.Error("[ERROR] %v\n", err)
			return err
		}
		logger.Info("[INFO] Commit template installed at %s\n", path)
		return nil
	},
}

// init wires up the commit subcommands and their flags.
func init() {
	commitGenerateCmd.Flags().StringVarP(&commitType, "type", "t", "", "Commit type (see `commit types`)")
	commitGenerateCmd.Flags().StringVarP(&commitScope, "scope", "s", "", "Commit scope (see `commit scopes`)")
	commitGenerateCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit subject line")
	commitGenerateCmd.Flags().BoolVar(&commitBreaking, "breaking", false, "Mark as a breaking change")
	commitGenerateCmd.Flags().BoolVar(&commitRun, "commit", false, "Run git commit with the generated message")

	commitSetupCmd.Flags().BoolVar(&templateForce, "force", false, "Overwrite an existing .gitmessage")

	commitCmd.AddCommand(commitTypesCmd)
	commitCmd.AddCommand(commitScopesCmd)
	commitCmd.AddCommand(commitGenerateCmd)
	commitCmd.AddCommand(commitSetupCmd)
	rootCmd.AddCommand(commitCmd)
}
