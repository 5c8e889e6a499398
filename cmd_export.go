package main

import (
	"context"

	"receitas/catalog"
	"receitas/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOut       string
	exportQuery     string
	exportSort      string
	exportFavorites bool
	exportDemo      bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered and sorted catalog to an .xlsx file",
	Example: `  receitas export --out natal.xlsx --q bolo --sort price
  receitas export --favorites`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, cleanup, err := openStore(ctx, exportDemo)
		if err != nil {
			return err
		}
		defer cleanup()

		// no notifier needed: a failed load is returned as the command error
		p := catalog.NewPage(store, pageOptions()...)
		if err := p.Load(ctx); err != nil {
			return err
		}
		p.SetQuery(exportQuery)
		p.SetSort(catalog.ParseSortKey(exportSort))
		p.SetFavoritesOnly(exportFavorites)

		recipes := p.Visible()
		if err := export.WriteXLSX(exportOut, recipes); err != nil {
			return err
		}
		logger.Info("catalog exported", zap.String("file", exportOut), zap.Int("recipes", len(recipes)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "receitas.xlsx", "Output file")
	exportCmd.Flags().StringVar(&exportQuery, "q", "", "Search text (name or ingredient)")
	exportCmd.Flags().StringVar(&exportSort, "sort", string(catalog.SortByName), "Sort key: name, date or price")
	exportCmd.Flags().BoolVar(&exportFavorites, "favorites", false, "Only favorite recipes")
	exportCmd.Flags().BoolVar(&exportDemo, "demo", false, "Use the in-memory demo recipes instead of BACKEND")
}
