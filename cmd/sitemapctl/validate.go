package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog.yaml>",
		Short: "Check a catalog file and print what it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMaterials(args[0])
			if err != nil {
				return err
			}
			active := m.Active()
			counts := map[domain.Kind][2]int{
				domain.KindArticle: {len(m.Articles), len(active.Articles)},
				domain.KindProduct: {len(m.Products), len(active.Products)},
				domain.KindMedia:   {len(m.Media), len(active.Media)},
			}
			for _, k := range domain.KindOrder {
				c := counts[k]
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %d (%d active)\n", k, c[0], c[1])
			}
			return nil
		},
	}
}
