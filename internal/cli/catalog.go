package cli

import (
	"fmt"
	"strings"

	"github.com/kwacihq/grow/pkg/models"
	"github.com/spf13/cobra"
)

var ingredientCmd = &cobra.Command{
	Use:   "ingredient",
	Short: "Manage the ingredient catalog",
}

var ingredientAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an ingredient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if CatalogMgr == nil {
			return fmt.Errorf("catalog store not initialized")
		}
		if IDGen == nil {
			return fmt.Errorf("ID generator not initialized")
		}

		unitFlag, _ := cmd.Flags().GetString("unit")
		costFlag, _ := cmd.Flags().GetString("cost")
		supplierFlag, _ := cmd.Flags().GetString("supplier")
		noteFlag, _ := cmd.Flags().GetString("note")

		cost, err := models.MoneyFromString(costFlag)
		if err != nil {
			return fmt.Errorf("parsing --cost: %w", err)
		}

		id, err := IDGen.Next("ING")
		if err != nil {
			return fmt.Errorf("generating ingredient ID: %w", err)
		}

		if err := CatalogMgr.Load(); err != nil {
			return err
		}
		ingredient := models.Ingredient{
			ID:       id,
			Name:     args[0],
			BaseUnit: unitFlag,
			UnitCost: cost,
			Supplier: supplierFlag,
			Note:     noteFlag,
		}
		if err := CatalogMgr.AddIngredient(ingredient); err != nil {
			return err
		}
		if err := CatalogMgr.Save(); err != nil {
			return err
		}

		fmt.Printf("Added ingredient %s (%s, %s %s/%s)\n", id, args[0], Currency, cost, unitFlag)
		return nil
	},
}

var ingredientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingredients",
	RunE: func(cmd *cobra.Command, args []string) error {
		if CatalogMgr == nil {
			return fmt.Errorf("catalog store not initialized")
		}
		if err := CatalogMgr.Load(); err != nil {
			return err
		}
		ingredients, err := CatalogMgr.GetAllIngredients()
		if err != nil {
			return err
		}
		if len(ingredients) == 0 {
			fmt.Println("(no ingredients)")
			return nil
		}
		fmt.Printf("%-12s %-24s %-8s %-14s %s\n", "ID", "NAME", "UNIT", "UNIT COST", "SUPPLIER")
		for _, ing := range ingredients {
			fmt.Printf("%-12s %-24s %-8s %-14s %s\n",
				ing.ID, ing.Name, ing.BaseUnit, ing.UnitCost.StringFixed(2), ing.Supplier)
		}
		return nil
	},
}

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage the product catalog",
}

var productAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a product with an optional recipe",
	Long: `Add a product to the catalog.

The recipe is given as comma-separated ingredient=quantity pairs, e.g.

  grow product add "Iced Latte" --price 25000 --recipe ING-00001=0.03,ING-00002=0.2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if CatalogMgr == nil {
			return fmt.Errorf("catalog store not initialized")
		}
		if IDGen == nil {
			return fmt.Errorf("ID generator not initialized")
		}

		priceFlag, _ := cmd.Flags().GetString("price")
		categoryFlag, _ := cmd.Flags().GetString("category")
		recipeFlag, _ := cmd.Flags().GetString("recipe")
		noteFlag, _ := cmd.Flags().GetString("note")

		price, err := models.MoneyFromString(priceFlag)
		if err != nil {
			return fmt.Errorf("parsing --price: %w", err)
		}
		recipe, err := parseRecipe(recipeFlag)
		if err != nil {
			return err
		}

		if err := CatalogMgr.Load(); err != nil {
			return err
		}
		// Recipe lines must reference ingredients that exist.
		for _, line := range recipe {
			if _, err := CatalogMgr.GetIngredient(line.IngredientID); err != nil {
				return fmt.Errorf("recipe: %w", err)
			}
		}

		id, err := IDGen.Next("PROD")
		if err != nil {
			return fmt.Errorf("generating product ID: %w", err)
		}

		product := models.Product{
			ID:        id,
			Name:      args[0],
			Category:  categoryFlag,
			SalePrice: price,
			Recipe:    recipe,
			Note:      noteFlag,
		}
		if err := CatalogMgr.AddProduct(product); err != nil {
			return err
		}
		if err := CatalogMgr.Save(); err != nil {
			return err
		}

		fmt.Printf("Added product %s (%s, %s %s, %d recipe line(s))\n",
			id, args[0], Currency, price, len(recipe))
		return nil
	},
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		if CatalogMgr == nil {
			return fmt.Errorf("catalog store not initialized")
		}
		if err := CatalogMgr.Load(); err != nil {
			return err
		}
		products, err := CatalogMgr.GetAllProducts()
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("(no products)")
			return nil
		}
		fmt.Printf("%-12s %-24s %-14s %-14s %s\n", "ID", "NAME", "CATEGORY", "PRICE", "RECIPE")
		for _, p := range products {
			fmt.Printf("%-12s %-24s %-14s %-14s %d line(s)\n",
				p.ID, p.Name, p.Category, p.SalePrice.StringFixed(2), len(p.Recipe))
		}
		return nil
	},
}

// parseRecipe parses "ING-1=0.5,ING-2=2" into recipe lines.
func parseRecipe(s string) ([]models.RecipeLine, error) {
	if s == "" {
		return nil, nil
	}
	var lines []models.RecipeLine
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid recipe entry %q (use ingredient=quantity)", pair)
		}
		qty, err := models.QuantityFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in recipe entry %q: %w", pair, err)
		}
		lines = append(lines, models.RecipeLine{
			IngredientID: parts[0],
			Quantity:     qty,
		})
	}
	return lines, nil
}

func init() {
	ingredientAddCmd.Flags().String("unit", "unit", "base unit of measure (g, ml, unit)")
	ingredientAddCmd.Flags().String("cost", "0", "cost per base unit")
	ingredientAddCmd.Flags().String("supplier", "", "supplier name")
	ingredientAddCmd.Flags().String("note", "", "free-form note")

	productAddCmd.Flags().String("price", "0", "sale price per unit")
	productAddCmd.Flags().String("category", "", "product category")
	productAddCmd.Flags().String("recipe", "", "recipe as ingredient=quantity pairs")
	productAddCmd.Flags().String("note", "", "free-form note")

	ingredientCmd.AddCommand(ingredientAddCmd)
	ingredientCmd.AddCommand(ingredientListCmd)
	productCmd.AddCommand(productAddCmd)
	productCmd.AddCommand(productListCmd)

	rootCmd.AddCommand(ingredientCmd)
	rootCmd.AddCommand(productCmd)
}
