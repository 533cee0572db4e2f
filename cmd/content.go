package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/render"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Browse and validate the lesson library",
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List modules and their lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := contentFormat(cmd)
		if err != nil {
			return err
		}
		return render.Modules(cmd.OutOrStdout(), format, registry())
	},
}

var contentTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List session templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := contentFormat(cmd)
		if err != nil {
			return err
		}
		return render.Templates(cmd.OutOrStdout(), format, registry())
	},
}

var contentArcsCmd = &cobra.Command{
	Use:   "arcs",
	Short: "List lesson arcs and the learner's position in each",
	RunE:  runContentArcs,
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a registry JSON file (default: the built-in library)",
	RunE:  runContentValidate,
}

func init() {
	for _, c := range []*cobra.Command{contentListCmd, contentTemplatesCmd, contentArcsCmd} {
		c.Flags().String("format", "text", "Output format: text or json")
	}
	contentValidateCmd.Flags().String("file", "", "Registry JSON file")

	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentTemplatesCmd)
	contentCmd.AddCommand(contentArcsCmd)
	contentCmd.AddCommand(contentValidateCmd)
}

func contentFormat(cmd *cobra.Command) (render.Format, error) {
	v, _ := cmd.Flags().GetString("format")
	f, err := render.ParseFormat(v)
	if err != nil {
		return "", err
	}
	if f == render.FormatHTML {
		return "", fmt.Errorf("format %q is not supported for content listings", f)
	}
	return f, nil
}

func runContentArcs(cmd *cobra.Command, args []string) error {
	format, err := contentFormat(cmd)
	if err != nil {
		return err
	}
	reg := registry()
	completed := map[content.LessonID]bool{}

	if user := resolveUser(cmd); user != "" {
		be, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer be.close()
		for _, m := range reg.Modules() {
			done, err := be.lessons.CompletedLessons(cmd.Context(), user, m.ID)
			if err != nil {
				return fmt.Errorf("completed lessons for %s: %w", m.ID, err)
			}
			for _, id := range done {
				completed[id] = true
			}
		}
	}
	return render.Arcs(cmd.OutOrStdout(), format, reg, completed)
}

func runContentValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	reg := registry()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read registry: %w", err)
		}
		reg, err = content.Load(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	} else {
		path = "built-in library"
	}

	lessons := 0
	for _, m := range reg.Modules() {
		lessons += len(m.Lessons)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (version %d, %d modules, %d module lessons, %d templates, %d arcs)\n",
		path, reg.Version(), len(reg.Modules()), lessons, len(reg.Templates()), len(reg.Arcs()))
	return nil
}
