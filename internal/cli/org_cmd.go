package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempus/internal/cli/formatter"
	"github.com/alexanderramin/tempus/internal/domain"
)

func newOrgCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage the organization profile",
	}

	cmd.AddCommand(
		newOrgSetCmd(app),
		newOrgShowCmd(app),
	)

	return cmd
}

func newOrgSetCmd(app *App) *cobra.Command {
	var info domain.CorporateInfo

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Orgs.Save(context.Background(), info)
			if err != nil {
				return err
			}
			fmt.Printf("Saved organization %s\n", formatter.StyleBold.Render(org.Corporate.CompanyName))
			return nil
		},
	}

	cmd.Flags().StringVar(&info.CompanyName, "name", "", "Company name")
	cmd.Flags().StringVar(&info.AddressLine1, "address1", "", "Address line 1")
	cmd.Flags().StringVar(&info.AddressLine2, "address2", "", "Address line 2")
	cmd.Flags().StringVar(&info.ZipCode, "zip", "", "Zip code")
	cmd.Flags().StringVar(&info.City, "city", "", "City")
	cmd.Flags().StringVar(&info.Country, "country", "", "Country")
	cmd.Flags().StringVar(&info.TaxID, "tax-id", "", "Tax identifier")
	cmd.Flags().StringVar(&info.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&info.Phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&info.LogoRef, "logo", "", "Logo reference")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newOrgShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the organization profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Orgs.Get(context.Background())
			if err != nil {
				return err
			}
			c := org.Corporate
			fmt.Println(formatter.StyleHeader.Render(c.CompanyName))
			if c.AddressLine1 != "" {
				fmt.Println(c.AddressLine1)
			}
			if c.AddressLine2 != "" {
				fmt.Println(c.AddressLine2)
			}
			if c.ZipCode != "" || c.City != "" {
				fmt.Printf("%s %s\n", c.ZipCode, c.City)
			}
			if c.Country != "" {
				fmt.Println(c.Country)
			}
			if c.TaxID != "" {
				fmt.Printf("Tax ID: %s\n", c.TaxID)
			}
			if c.Email != "" {
				fmt.Printf("Email:  %s\n", c.Email)
			}
			if c.Phone != "" {
				fmt.Printf("Phone:  %s\n", c.Phone)
			}
			sync := formatter.StyleGreen.Render("synced")
			if org.FirestoreID == "" {
				sync = formatter.StyleYellow.Render("local")
			}
			fmt.Printf("Status: %s\n", sync)
			return nil
		},
	}
}
