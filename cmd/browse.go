package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dcode-github/rishstay/client"
	"github.com/dcode-github/rishstay/models"
	"github.com/spf13/cobra"
)

func BrowseCmd() *cobra.Command {
	var q client.ListQuery
	var minPrice, maxPrice float64

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List properties from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, _ := cmd.Flags().GetString("server")
			if cmd.Flags().Changed("min-price") {
				q.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				q.MaxPrice = &maxPrice
			}

			page, err := client.New(server).ListProperties(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printProperties(cmd.OutOrStdout(), page)
		},
	}

	defaultServer := os.Getenv("RISHSTAY_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	cmd.Flags().String("server", defaultServer, "Base URL of the API")
	cmd.Flags().StringVar(&q.Address, "address", "", "Match address, city or state")
	cmd.Flags().StringVar(&q.PropertyType, "type", "", "apartment or studio")
	cmd.Flags().StringVar(&q.GuestType, "guest-type", "", "family, bachelors, girls, boys or any")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "Minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "Maximum price")
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 20, "Results per page")

	return cmd
}

func printProperties(w io.Writer, page *models.PropertyPage) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCITY\tTYPE\tPRICE\tAVAILABLE")
	for _, p := range page.Properties {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f\t%t\n",
			p.ID.Hex(), p.Title, p.Location.City, p.PropertyType, p.Price, p.Availability.IsAvailable)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	pg := page.Pagination
	_, err := fmt.Fprintf(w, "\nPage %d of %d, %d properties\n", pg.Page, pg.TotalPages, pg.Total)
	return err
}
