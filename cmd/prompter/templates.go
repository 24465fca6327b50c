package main

import (
	"fmt"

	"github.com/sandevgo/prompter/internal/config"
	"github.com/sandevgo/prompter/internal/service/ui"
	"github.com/sandevgo/prompter/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:          "templates",
	Short:        "List the stored command templates",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		appCfg := config.NewAppConfig(ctx)

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		templates, err := sqlite.NewTemplatesRepo(db).ListTemplates(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintln(out, ui.DescStyle.Render("No templates defined yet."))
			return nil
		}

		fmt.Fprintln(out, ui.TitleStyle.Render("TEMPLATES"))
		for _, t := range templates {
			fmt.Fprintf(out, "  %s %s\n", ui.FlagStyle.Render("/"+t.Name), ui.UsageStyle.Render(t.Body))
			fmt.Fprintf(out, "    %s\n", ui.DescStyle.Render("by "+t.CreatedBy+", "+t.CreatedAt.Format("2006-01-02")))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
