// Package export writes a catalog view to a spreadsheet.
package export

import (
	"fmt"
	"strings"

	"receitas/catalog"
	"receitas/models"

	"github.com/xuri/excelize/v2"
)

const Sheet = "Receitas"

var Header = []interface{}{
	"Nome", "Tempo", "Rendimento", "Preço", "Preço (número)", "Favorita", "Armazenamento", "Ingredientes", "Passos",
}

// WriteXLSX writes one row per recipe, in the order given.
func WriteXLSX(path string, recipes []models.Recipe) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(Sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", Header); err != nil {
		return err
	}
	for i, r := range recipes {
		favorite := "não"
		if r.IsFavorite {
			favorite = "sim"
		}
		row := []interface{}{
			r.Name,
			r.PrepTime,
			r.Servings,
			r.Price,
			catalog.ParsePrice(r.Price),
			favorite,
			r.StorageInfo,
			strings.Join(r.Ingredients.Lines(), "\n"),
			len(r.Instructions),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
